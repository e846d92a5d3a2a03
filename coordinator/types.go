package coordinator

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/gridfleet/grid"
	"github.com/katalvlaran/gridfleet/planner"
	"github.com/katalvlaran/gridfleet/planner/astar"
	"github.com/katalvlaran/gridfleet/planner/dstarlite"
)

// Rejections. A rejected operation leaves the coordinator unchanged.
var (
	// ErrCapacity indicates every agent slot is in use or no free cell remains.
	ErrCapacity = errors.New("coordinator: no room for another agent")
	// ErrOutOfBounds indicates a cell outside the grid.
	ErrOutOfBounds = errors.New("coordinator: cell out of bounds")
	// ErrObstacle indicates a start or goal on an obstacle.
	ErrObstacle = errors.New("coordinator: cell is an obstacle")
	// ErrCellTaken indicates a start on another agent's position or goal.
	ErrCellTaken = errors.New("coordinator: cell already used by another agent")
	// ErrGoalTaken indicates a goal already assigned to another agent.
	ErrGoalTaken = errors.New("coordinator: goal already assigned to another agent")
	// ErrCellReserved indicates an obstacle placement on an agent's position or goal.
	ErrCellReserved = errors.New("coordinator: cell holds an agent or its goal")
	// ErrUnknownAgent indicates an id with no live agent behind it.
	ErrUnknownAgent = errors.New("coordinator: unknown agent")
	// ErrUnknownPlanner indicates a planner name missing from the registry.
	ErrUnknownPlanner = errors.New("coordinator: unknown planner")
	// ErrBadAgentID indicates an external id that does not parse.
	ErrBadAgentID = errors.New("coordinator: malformed agent id")
)

const (
	// DefaultMaxAgents is the default number of agent slots.
	DefaultMaxAgents = 10
	// MaxCascadePasses caps the blocked-agent propagation loop.
	MaxCascadePasses = 100
	// DefaultPlanner names the planner new agents get.
	DefaultPlanner = dstarlite.Name

	agentPrefix = "robot"
)

// AgentID is a dense handle into the coordinator's agent arena.
type AgentID int

// String renders the external form "robotN".
func (id AgentID) String() string {
	return agentPrefix + strconv.Itoa(int(id))
}

// ParseAgentID accepts "robotN" and returns N.
func ParseAgentID(s string) (AgentID, error) {
	if !strings.HasPrefix(s, agentPrefix) {
		return 0, fmt.Errorf("%w: %q", ErrBadAgentID, s)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(s, agentPrefix))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrBadAgentID, s)
	}
	return AgentID(n), nil
}

// CollisionType names a detected conflict.
type CollisionType string

// Conflict kinds.
const (
	// SameCell: two agents propose the same next cell.
	SameCell CollisionType = "same_cell"
	// Swap: two adjacent agents propose each other's cells.
	Swap CollisionType = "swap"
	// Shear: one agent enters a cell the other is leaving at a right angle.
	Shear CollisionType = "shear"
	// BlockedRobot: an agent proposes to enter the cell of a blocked agent.
	BlockedRobot CollisionType = "blocked_robot_collision"
)

// Collision describes one detected conflict.
type Collision struct {
	Type CollisionType
	// Agents lists the pair for pairwise conflicts, or the newly blocked
	// agent for BlockedRobot.
	Agents []AgentID
	// Position is the contested cell (SameCell, Shear) or the blocker's cell
	// (BlockedRobot).
	Position *grid.Cell
	// Positions holds the two current cells of a Swap.
	Positions []grid.Cell
	// BlockedBy is the already-blocked agent a BlockedRobot ran into.
	BlockedBy *AgentID
}

// Report is the outcome of one collision check.
type Report struct {
	// Blocked maps each blocked agent to the first reason recorded for it.
	Blocked map[AgentID]CollisionType
	// Collisions lists conflicts in detection order.
	Collisions []Collision
	// CascadePasses counts propagation passes that blocked at least one agent.
	CascadePasses int
}

// IsBlocked reports whether id is blocked in r.
func (r Report) IsBlocked(id AgentID) bool {
	_, ok := r.Blocked[id]
	return ok
}

// BlockedIDs lists blocked agents in ascending order.
func (r Report) BlockedIDs() []AgentID {
	ids := make([]AgentID, 0, len(r.Blocked))
	for id := range r.Blocked {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// StepResult is the outcome of one simulation tick.
type StepResult struct {
	// Continue is false only when every agent is at its goal or stuck.
	Continue bool
	// Report holds the collisions detected for this tick's proposals.
	Report Report
	// Moved lists agents that advanced one cell.
	Moved []AgentID
	// Stuck lists agents with no path after the tick's replanning.
	Stuck []AgentID
}

// Agent is a read-only snapshot of one agent.
type Agent struct {
	ID       AgentID
	Position grid.Cell
	Goal     grid.Cell
	// Path runs from Position to Goal; empty when no path is known.
	Path    []grid.Cell
	Planner string
	Stuck   bool
	Blocked bool
	// BlockReason is set when Blocked.
	BlockReason CollisionType
	// Failure is the wire reason of the last planning failure, if any.
	Failure string
}

// AtGoal reports whether the agent stands on its goal.
func (a Agent) AtGoal() bool { return a.Position == a.Goal }

// Option configures a Coordinator.
type Option func(*Options)

// Options holds coordinator settings.
type Options struct {
	Logger         logrus.FieldLogger
	MaxAgents      int
	Planners       map[string]planner.Factory
	DefaultPlanner string
}

// DefaultOptions returns the standard logger, DefaultMaxAgents slots, and a
// registry holding dstar_lite (default) and astar.
func DefaultOptions() Options {
	return Options{
		Logger:    logrus.StandardLogger(),
		MaxAgents: DefaultMaxAgents,
		Planners: map[string]planner.Factory{
			dstarlite.Name: dstarlite.Factory(),
			astar.Name:     astar.Factory(),
		},
		DefaultPlanner: DefaultPlanner,
	}
}

// WithLogger routes coordinator logs to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithMaxAgents sets the number of agent slots. Panics if n <= 0.
func WithMaxAgents(n int) Option {
	if n <= 0 {
		panic(fmt.Sprintf("coordinator: WithMaxAgents(%d): must be positive", n))
	}
	return func(o *Options) {
		o.MaxAgents = n
	}
}

// WithPlanner registers (or replaces) a planner factory under name.
func WithPlanner(name string, f planner.Factory) Option {
	return func(o *Options) {
		o.Planners[name] = f
	}
}

// WithDefaultPlanner selects the planner new agents get.
func WithDefaultPlanner(name string) Option {
	return func(o *Options) {
		o.DefaultPlanner = name
	}
}
