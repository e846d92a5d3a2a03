package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"

	"github.com/katalvlaran/gridfleet/coordinator"
	"github.com/katalvlaran/gridfleet/session"
)

const (
	URIWebSocket = "/ws"
	URIHealth    = "/healthz"

	writeWait = time.Second
	outBuffer = 16
)

// Server serves one independent session per websocket connection.
type Server struct {
	cfg      Config
	log      *log.Logger
	router   *way.Router
	upgrader websocket.Upgrader
}

func newServer(cfg Config, logger *log.Logger) *Server {
	s := &Server{cfg: cfg, log: logger}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router = way.NewRouter()
	s.router.HandleFunc("GET", URIWebSocket, s.handleWebSocket())
	s.router.HandleFunc("GET", URIHealth, s.handleHealth())
}

// checkOrigin allows everything when no origins are configured.
func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range s.cfg.AllowedOrigins {
		if o == origin {
			return true
		}
	}
	return false
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "ok",
			"width":  s.cfg.Width,
			"height": s.cfg.Height,
		})
	}
}

func (s *Server) handleWebSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entry := s.log.WithField("session", uuid.New().String())

		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already replied with an HTTP error.
			entry.WithError(err).Warn("websocket upgrade failed")
			return
		}
		defer conn.Close()

		sess, err := session.New(s.cfg.Width, s.cfg.Height,
			coordinator.WithLogger(entry),
			coordinator.WithMaxAgents(s.cfg.MaxAgents),
		)
		if err != nil {
			entry.WithError(err).Error("session setup failed")
			return
		}

		entry.Info("client connected")
		c := &client{
			conn: conn,
			sess: sess,
			log:  entry,
			out:  make(chan interface{}, outBuffer),
			done: make(chan struct{}),
		}
		c.run(s.cfg.Tick())
		entry.Info("client disconnected")
	}
}

// client pumps one connection: a reader applying commands, a single writer,
// and an autoplay ticker.
type client struct {
	conn *websocket.Conn
	sess *session.Session
	log  *log.Entry
	out  chan interface{}
	done chan struct{}
}

// run blocks until the connection's reader stops.
func (c *client) run(tick time.Duration) {
	go c.loopWrite()
	go c.loopTick(tick)
	c.send(c.sess.State())
	c.loopRead()
	close(c.done)
}

func (c *client) send(v interface{}) {
	select {
	case c.out <- v:
	case <-c.done:
	}
}

func (c *client) loopRead() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.WithError(err).Warn("read failed")
			}
			return
		}
		var cmd session.Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			c.send(session.NewErrorMessage(err))
			continue
		}
		st, err := c.sess.Handle(cmd)
		if err != nil {
			c.log.WithError(err).Debug("command rejected")
			c.send(session.NewErrorMessage(err))
			continue
		}
		c.send(st)
	}
}

// loopWrite is the only goroutine writing to the connection. After a failed
// write it keeps draining out so senders never block before done closes.
func (c *client) loopWrite() {
	failed := false
	for {
		select {
		case v := <-c.out:
			if failed {
				continue
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(v); err != nil {
				c.log.WithError(err).Warn("write failed")
				// Closing unblocks the reader so run can return.
				_ = c.conn.Close()
				failed = true
			}
		case <-c.done:
			return
		}
	}
}

func (c *client) loopTick(tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			if st, ok := c.sess.Tick(); ok {
				c.send(st)
			}
		case <-c.done:
			return
		}
	}
}
