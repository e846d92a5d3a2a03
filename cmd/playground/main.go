// Command playground serves the multi-agent planner over WebSocket.
//
// Every connection gets its own paused world. Clients send JSON commands
// ({"type": "add_agent", "start": [0,0], "goal": [9,9]}, ...) and receive a
// full state snapshot after each command and after each autoplay tick.
package main

import (
	"flag"
	"net/http"
	"os"

	log "github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON config file")
	listen := flag.String("listen", "", "listen address, overrides config and $PORT")
	logLevel := flag.String("log-level", "", "log level, overrides config")
	flag.Parse()

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = LoadConfig(*configPath); err != nil {
			log.Fatalf("loading config: %v", err)
		}
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Listen = ":" + port
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := cfg.NewLogger()
	srv := newServer(cfg, logger)
	logger.WithFields(log.Fields{
		"listen": cfg.Listen,
		"tick":   cfg.Tick().String(),
		"width":  cfg.Width,
		"height": cfg.Height,
	}).Info("playground listening")
	logger.Fatalln(http.ListenAndServe(cfg.Listen, srv.router))
}
