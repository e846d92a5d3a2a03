package session

import (
	"github.com/katalvlaran/gridfleet/coordinator"
	"github.com/katalvlaran/gridfleet/grid"
)

// Point is a cell on the wire: [x, y].
type Point [2]int

func toPoint(c grid.Cell) Point { return Point{c.X, c.Y} }

func (p Point) cell() grid.Cell { return grid.Cell{X: p[0], Y: p[1]} }

// AgentState is one agent in the outbound snapshot.
type AgentState struct {
	ID          string  `json:"id"`
	Position    Point   `json:"position"`
	Goal        Point   `json:"goal"`
	Path        []Point `json:"path"`
	Planner     string  `json:"planner"`
	IsStuck     bool    `json:"is_stuck"`
	IsBlocked   bool    `json:"is_blocked"`
	BlockReason string  `json:"block_reason,omitempty"`
	Failure     string  `json:"failure,omitempty"`
}

// CollisionState is one detected conflict in the outbound snapshot.
type CollisionState struct {
	Type      string   `json:"type"`
	Agents    []string `json:"agents"`
	Position  *Point   `json:"position,omitempty"`
	Positions []Point  `json:"positions,omitempty"`
	BlockedBy string   `json:"blocked_by,omitempty"`
}

// State is the full outbound snapshot sent after every command and tick.
type State struct {
	Type          string           `json:"type"`
	Width         int              `json:"width"`
	Height        int              `json:"height"`
	Obstacles     []Point          `json:"obstacles"`
	Agents        []AgentState     `json:"agents"`
	StuckAgents   []string         `json:"stuck_agents"`
	BlockedAgents []string         `json:"blocked_agents"`
	Collisions    []CollisionState `json:"collisions"`
	Paused        bool             `json:"paused"`
	Step          int              `json:"step"`
	Continue      bool             `json:"continue"`
}

// ErrorMessage is sent instead of State when a command is rejected.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewErrorMessage wraps err for the wire.
func NewErrorMessage(err error) ErrorMessage {
	return ErrorMessage{Type: "error", Message: err.Error()}
}

func snapshot(co *coordinator.Coordinator, paused, cont bool) State {
	st := State{
		Type:          "state",
		Width:         co.Width(),
		Height:        co.Height(),
		Obstacles:     []Point{},
		Agents:        []AgentState{},
		StuckAgents:   ids(co.StuckAgents()),
		BlockedAgents: ids(co.BlockedAgents()),
		Collisions:    []CollisionState{},
		Paused:        paused,
		Step:          co.Steps(),
		Continue:      cont,
	}
	for _, o := range co.Obstacles() {
		st.Obstacles = append(st.Obstacles, toPoint(o))
	}
	for _, a := range co.Agents() {
		as := AgentState{
			ID:          a.ID.String(),
			Position:    toPoint(a.Position),
			Goal:        toPoint(a.Goal),
			Path:        make([]Point, 0, len(a.Path)),
			Planner:     a.Planner,
			IsStuck:     a.Stuck,
			IsBlocked:   a.Blocked,
			BlockReason: string(a.BlockReason),
			Failure:     a.Failure,
		}
		for _, c := range a.Path {
			as.Path = append(as.Path, toPoint(c))
		}
		st.Agents = append(st.Agents, as)
	}
	for _, col := range co.LastReport().Collisions {
		cs := CollisionState{Type: string(col.Type), Agents: ids(col.Agents)}
		if col.Position != nil {
			p := toPoint(*col.Position)
			cs.Position = &p
		}
		for _, c := range col.Positions {
			cs.Positions = append(cs.Positions, toPoint(c))
		}
		if col.BlockedBy != nil {
			cs.BlockedBy = col.BlockedBy.String()
		}
		st.Collisions = append(st.Collisions, cs)
	}
	return st
}

func ids(in []coordinator.AgentID) []string {
	out := make([]string, 0, len(in))
	for _, id := range in {
		out = append(out, id.String())
	}
	return out
}
