// Package planner defines the capability every single-agent path planner
// offers to the coordinator, the read-only world view planners search over,
// and the failure conditions a search can end in.
//
// Implementations live in subpackages:
//
//   - dstarlite: incremental D* Lite; repairs its search after edge-cost
//     changes and start moves instead of replanning from scratch.
//   - astar:     full A* replan on every call, built on gonum's graph library.
//
// A planner never sees other agents. Inter-agent conflicts are the
// coordinator's concern.
package planner

import (
	"errors"

	"github.com/katalvlaran/gridfleet/grid"
)

// Failure conditions of a search.
var (
	// ErrNoPathExists indicates the start cannot reach the goal under current costs.
	ErrNoPathExists = errors.New("planner: no path exists")
	// ErrMaxIterationsExceeded indicates the search hit its iteration cap.
	ErrMaxIterationsExceeded = errors.New("planner: max iterations exceeded")
	// ErrPathExtractionFailed indicates the search succeeded but no path could be read back.
	ErrPathExtractionFailed = errors.New("planner: path extraction failed")
	// ErrInconsistentState indicates the search state violated an internal invariant.
	ErrInconsistentState = errors.New("planner: inconsistent state")
)

// Wire names for the failure conditions.
const (
	ReasonNoPathExists          = "no_path_exists"
	ReasonMaxIterationsExceeded = "max_iterations_exceeded"
	ReasonPathExtractionFailed  = "path_extraction_failed"
	ReasonInconsistentState     = "inconsistent_state"
	ReasonUnknown               = "unknown"
)

// Reason maps a planner error to its snake_case wire name.
// A nil error maps to the empty string.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoPathExists):
		return ReasonNoPathExists
	case errors.Is(err, ErrMaxIterationsExceeded):
		return ReasonMaxIterationsExceeded
	case errors.Is(err, ErrPathExtractionFailed):
		return ReasonPathExtractionFailed
	case errors.Is(err, ErrInconsistentState):
		return ReasonInconsistentState
	}
	return ReasonUnknown
}

// Recoverable reports whether a fresh Initialize may cure err.
// Inconsistent state is not recoverable.
func Recoverable(err error) bool {
	return errors.Is(err, ErrNoPathExists) ||
		errors.Is(err, ErrMaxIterationsExceeded) ||
		errors.Is(err, ErrPathExtractionFailed)
}

// Space is the read-only world a planner searches over. *grid.Grid satisfies it.
type Space interface {
	Width() int
	Height() int
	InBounds(c grid.Cell) bool
	IsTraversable(c grid.Cell) bool
	Neighbors(c grid.Cell) []grid.Neighbor
}

// Planner plans a single agent's path from its current cell to its goal.
//
// Lifecycle: Initialize once per start/goal pair, then any interleaving of
// ComputeShortestPath, Path, UpdateEdgeCosts and AdvanceStart.
type Planner interface {
	// Name identifies the algorithm, e.g. "dstar_lite".
	Name() string
	// Initialize discards all search state and targets goal from start.
	Initialize(start, goal grid.Cell)
	// ComputeShortestPath brings the search up to date with the world.
	// Errors wrap one of the sentinel failure conditions.
	ComputeShortestPath() error
	// Path returns the current path, start first and goal last.
	// Nil means no path could be read back.
	Path() []grid.Cell
	// UpdateEdgeCosts notifies the planner that the listed edges changed cost.
	UpdateEdgeCosts(edges []grid.Edge)
	// AdvanceStart moves the planning origin after the agent took a step.
	AdvanceStart(newStart grid.Cell)
}

// Factory builds a planner bound to the given world.
type Factory func(space Space) Planner
