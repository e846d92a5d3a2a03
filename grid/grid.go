package grid

import "fmt"

// Grid is a rectangular 4-connected world with unit move cost.
// The zero value is not usable; construct with New.
type Grid struct {
	width, height int
	blocked       []bool       // row-major obstacle flags, index = y*width + x
	occupants     map[int]Cell // informational: agent id -> occupied cell
}

// New creates an obstacle-free grid of the given size.
// Returns ErrBadDimensions if either side is outside [MinSize, MaxSize].
func New(width, height int) (*Grid, error) {
	if width < MinSize || width > MaxSize || height < MinSize || height > MaxSize {
		return nil, fmt.Errorf("%w: %dx%d not in [%d,%d]", ErrBadDimensions, width, height, MinSize, MaxSize)
	}
	return &Grid{
		width:     width,
		height:    height,
		blocked:   make([]bool, width*height),
		occupants: make(map[int]Cell),
	}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Size returns the total number of cells.
func (g *Grid) Size() int { return g.width * g.height }

// InBounds reports whether c lies within the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= 0 && c.Y < g.height
}

// index maps an in-bounds cell to its row-major slot.
func (g *Grid) index(c Cell) int {
	return c.Y*g.width + c.X
}

// Coordinate converts a row-major index back to a Cell.
func (g *Grid) Coordinate(idx int) Cell {
	return Cell{X: idx % g.width, Y: idx / g.width}
}

// IsObstacle reports whether c is an in-bounds obstacle.
func (g *Grid) IsObstacle(c Cell) bool {
	return g.InBounds(c) && g.blocked[g.index(c)]
}

// IsTraversable is false iff c is out of bounds or an obstacle.
func (g *Grid) IsTraversable(c Cell) bool {
	return g.InBounds(c) && !g.blocked[g.index(c)]
}

// Neighbors returns the traversable orthogonal neighbors of c in the fixed
// order Down, Up, Right, Left, each with StepCost.
// The traversability of c itself is not checked.
func (g *Grid) Neighbors(c Cell) []Neighbor {
	out := make([]Neighbor, 0, len(compass))
	for _, d := range compass {
		n := c.Add(d[0], d[1])
		if g.IsTraversable(n) {
			out = append(out, Neighbor{Cell: n, Cost: StepCost})
		}
	}
	return out
}

// SetObstacle places (present=true) or removes an obstacle at c.
// It returns the directed edges whose cost changed: both directions between c
// and every in-bounds traversable neighbor. Nil is returned when c is out of
// bounds or already in the requested state.
func (g *Grid) SetObstacle(c Cell, present bool) []Edge {
	if !g.InBounds(c) {
		return nil
	}
	i := g.index(c)
	if g.blocked[i] == present {
		return nil
	}
	g.blocked[i] = present
	return g.incidentEdges(c)
}

// ToggleObstacle flips the obstacle state of c and reports the new state and
// the changed edges. Out-of-bounds cells report (false, nil).
func (g *Grid) ToggleObstacle(c Cell) (bool, []Edge) {
	if !g.InBounds(c) {
		return false, nil
	}
	present := !g.blocked[g.index(c)]
	return present, g.SetObstacle(c, present)
}

// ClearObstacles removes every obstacle and returns all changed edges.
func (g *Grid) ClearObstacles() []Edge {
	var changed []Edge
	for _, c := range g.Obstacles() {
		changed = append(changed, g.SetObstacle(c, false)...)
	}
	return changed
}

// Obstacles lists obstacle cells in row-major order.
func (g *Grid) Obstacles() []Cell {
	var out []Cell
	for i, b := range g.blocked {
		if b {
			out = append(out, g.Coordinate(i))
		}
	}
	return out
}

// FreeCells counts traversable cells.
func (g *Grid) FreeCells() int {
	n := 0
	for _, b := range g.blocked {
		if !b {
			n++
		}
	}
	return n
}

// incidentEdges lists both directions between c and each in-bounds neighbor
// that is currently traversable.
func (g *Grid) incidentEdges(c Cell) []Edge {
	var edges []Edge
	for _, d := range compass {
		n := c.Add(d[0], d[1])
		if !g.IsTraversable(n) {
			continue
		}
		edges = append(edges, Edge{From: c, To: n}, Edge{From: n, To: c})
	}
	return edges
}

// Resize changes the dimensions, clamping each to [MinSize, MaxSize].
// Obstacles and occupants that remain in bounds are kept; the rest are dropped.
// It returns the effective width and height.
func (g *Grid) Resize(width, height int) (int, int) {
	width, height = clamp(width), clamp(height)
	blocked := make([]bool, width*height)
	for i, b := range g.blocked {
		if !b {
			continue
		}
		c := g.Coordinate(i)
		if c.X < width && c.Y < height {
			blocked[c.Y*width+c.X] = true
		}
	}
	for id, c := range g.occupants {
		if c.X >= width || c.Y >= height {
			delete(g.occupants, id)
		}
	}
	g.width, g.height, g.blocked = width, height, blocked
	return width, height
}

// SetOccupant records that agent id stands on c.
func (g *Grid) SetOccupant(id int, c Cell) {
	g.occupants[id] = c
}

// RemoveOccupant forgets agent id.
func (g *Grid) RemoveOccupant(id int) {
	delete(g.occupants, id)
}

// ClearOccupants forgets every agent.
func (g *Grid) ClearOccupants() {
	g.occupants = make(map[int]Cell)
}

// Occupants returns a copy of the agent id -> cell map.
func (g *Grid) Occupants() map[int]Cell {
	out := make(map[int]Cell, len(g.occupants))
	for id, c := range g.occupants {
		out[id] = c
	}
	return out
}

// String draws the grid with '#' for obstacles and '.' for free cells.
func (g *Grid) String() string {
	buf := make([]byte, 0, (g.width+1)*g.height)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.blocked[y*g.width+x] {
				buf = append(buf, '#')
			} else {
				buf = append(buf, '.')
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
