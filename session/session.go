// Package session is the command boundary in front of a coordinator.
//
// A Session decodes inbound commands, applies them to its coordinator, and
// answers with a full State snapshot. Every method takes the session lock, so
// a transport may call Handle and Tick from different goroutines.
//
// Sessions start paused. Pause and Resume only gate Tick; an explicit "step"
// command always advances the world.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/katalvlaran/gridfleet/coordinator"
)

var (
	// ErrUnknownCommand indicates an unrecognised command type.
	ErrUnknownCommand = errors.New("session: unknown command")
	// ErrMissingField indicates a command without a required field.
	ErrMissingField = errors.New("session: missing field")
)

// Command types. Aliases accept older client names.
const (
	CmdAddAgent       = "add_agent"
	CmdAddRobot       = "add_robot"
	CmdRemoveAgent    = "remove_agent"
	CmdRemoveRobot    = "remove_robot"
	CmdSetGoal        = "set_goal"
	CmdToggleObstacle = "toggle_obstacle"
	CmdAddObstacle    = "add_obstacle"
	CmdRemoveObstacle = "remove_obstacle"
	CmdClearObstacles = "clear_obstacles"
	CmdResize         = "resize"
	CmdResizeArena    = "resize_arena"
	CmdReset          = "reset"
	CmdStep           = "step"
	CmdPause          = "pause"
	CmdResume         = "resume"
	CmdSetPlanner     = "set_planner"
	CmdState          = "state"
)

// Command is one inbound request. Fields not used by Type are ignored.
type Command struct {
	Type    string `json:"type"`
	RobotID string `json:"robot_id,omitempty"`
	X       *int   `json:"x,omitempty"`
	Y       *int   `json:"y,omitempty"`
	Start   *Point `json:"start,omitempty"`
	Goal    *Point `json:"goal,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	Planner string `json:"planner,omitempty"`
}

// Session serialises access to one coordinator.
type Session struct {
	mu     sync.Mutex
	co     *coordinator.Coordinator
	paused bool
}

// New creates a paused session over an empty width×height world.
func New(width, height int, opts ...coordinator.Option) (*Session, error) {
	co, err := coordinator.New(width, height, opts...)
	if err != nil {
		return nil, err
	}
	return &Session{co: co, paused: true}, nil
}

// State returns the current snapshot.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	return snapshot(s.co, s.paused, s.co.HasWork())
}

// Paused reports whether Tick is currently a no-op.
func (s *Session) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Tick advances one step unless paused. It reports whether a step happened.
func (s *Session) Tick() (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused {
		return State{}, false
	}
	s.co.StepSimulation()
	return s.stateLocked(), true
}

// Handle applies cmd and returns the resulting snapshot. A rejected command
// leaves the world unchanged and returns an error wrapping the cause.
func (s *Session) Handle(cmd Command) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.apply(cmd); err != nil {
		return State{}, fmt.Errorf("%s: %w", cmd.Type, err)
	}
	return s.stateLocked(), nil
}

func (s *Session) apply(cmd Command) error {
	switch cmd.Type {
	case CmdAddAgent, CmdAddRobot:
		if cmd.Start == nil || cmd.Goal == nil {
			return fmt.Errorf("%w: start and goal", ErrMissingField)
		}
		_, err := s.co.AddAgent(cmd.Start.cell(), cmd.Goal.cell())
		return err

	case CmdRemoveAgent, CmdRemoveRobot:
		id, err := coordinator.ParseAgentID(cmd.RobotID)
		if err != nil {
			return err
		}
		return s.co.RemoveAgent(id)

	case CmdSetGoal:
		id, err := coordinator.ParseAgentID(cmd.RobotID)
		if err != nil {
			return err
		}
		p, err := cmd.point()
		if err != nil {
			return err
		}
		return s.co.SetGoal(id, p.cell())

	case CmdToggleObstacle, CmdAddObstacle, CmdRemoveObstacle:
		p, err := cmd.point()
		if err != nil {
			return err
		}
		switch cmd.Type {
		case CmdAddObstacle:
			return s.co.SetObstacle(p.cell(), true)
		case CmdRemoveObstacle:
			return s.co.SetObstacle(p.cell(), false)
		}
		return s.co.OnObstacleChanged(p.cell())

	case CmdClearObstacles:
		s.co.ClearObstacles()

	case CmdResize, CmdResizeArena:
		if cmd.Width == 0 || cmd.Height == 0 {
			return fmt.Errorf("%w: width and height", ErrMissingField)
		}
		s.co.ResizeWorld(cmd.Width, cmd.Height)

	case CmdReset:
		s.co.ResetToDefault()

	case CmdStep:
		s.co.StepSimulation()

	case CmdPause:
		s.paused = true

	case CmdResume:
		s.paused = false

	case CmdSetPlanner:
		id, err := coordinator.ParseAgentID(cmd.RobotID)
		if err != nil {
			return err
		}
		return s.co.ChangePlanner(id, cmd.Planner)

	case CmdState:

	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}
	return nil
}

func (cmd Command) point() (Point, error) {
	if cmd.X == nil || cmd.Y == nil {
		return Point{}, fmt.Errorf("%w: x and y", ErrMissingField)
	}
	return Point{*cmd.X, *cmd.Y}, nil
}
