package grid

import (
	"errors"
	"fmt"
)

// Sentinel errors for grid operations.
var (
	// ErrBadDimensions indicates a width or height outside [MinSize, MaxSize].
	ErrBadDimensions = errors.New("grid: dimensions out of range")
	// ErrOutOfBounds indicates a cell outside the grid.
	ErrOutOfBounds = errors.New("grid: cell out of bounds")
)

const (
	// MinSize is the smallest allowed width or height.
	MinSize = 3
	// MaxSize is the largest allowed width or height.
	MaxSize = 30
	// DefaultSize is the width and height of a freshly reset world.
	DefaultSize = 10
)

// Cell is a grid coordinate. X grows right, Y grows down.
type Cell struct {
	X, Y int
}

// String renders the cell as "(x,y)".
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns c shifted by (dx, dy).
func (c Cell) Add(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Edge is a directed adjacency between two cells.
type Edge struct {
	From, To Cell
}

// Neighbor is a reachable adjacent cell and the cost of stepping onto it.
type Neighbor struct {
	Cell Cell
	Cost float64
}

// StepCost is the cost of every orthogonal move.
const StepCost = 1.0

// compass holds the neighbor offsets in their fixed order: Down, Up, Right, Left.
var compass = [4][2]int{
	{0, 1},
	{0, -1},
	{1, 0},
	{-1, 0},
}

// Manhattan returns |a.X-b.X| + |a.Y-b.Y| as a float cost.
// It is admissible and consistent for 4-connected unit-cost movement.
func Manhattan(a, b Cell) float64 {
	return float64(abs(a.X-b.X) + abs(a.Y-b.Y))
}

// Adjacent reports whether a and b differ by exactly one orthogonal step.
func Adjacent(a, b Cell) bool {
	return abs(a.X-b.X)+abs(a.Y-b.Y) == 1
}

// Direction returns the unit step (dx, dy) from a to b.
// For non-adjacent cells the components are clamped to -1, 0 or 1.
func Direction(a, b Cell) (dx, dy int) {
	return sign(b.X - a.X), sign(b.Y - a.Y)
}

// clamp bounds v to [MinSize, MaxSize].
func clamp(v int) int {
	if v < MinSize {
		return MinSize
	}
	if v > MaxSize {
		return MaxSize
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
