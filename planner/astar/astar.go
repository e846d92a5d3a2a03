// Package astar implements planner.Planner as a full A* replan over a gonum
// graph rebuilt from the grid whenever edge costs change.
//
// It shares the Manhattan heuristic with dstarlite but keeps no search state
// between calls, which makes it a useful baseline: every ComputeShortestPath
// pays the full search cost.
package astar

import (
	"fmt"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/katalvlaran/gridfleet/grid"
	"github.com/katalvlaran/gridfleet/planner"
)

// Name is the registry name of this planner.
const Name = "astar"

// Planner replans from scratch with gonum's A*.
type Planner struct {
	space       planner.Space
	start, goal grid.Cell
	ready       bool

	g     *simple.UndirectedGraph
	dirty bool
	path  []grid.Cell

	// Expanded is the node count of the last search.
	Expanded int
}

var _ planner.Planner = (*Planner)(nil)

// New returns an uninitialised planner over space.
func New(space planner.Space) *Planner {
	return &Planner{space: space, dirty: true}
}

// Factory builds astar planners.
func Factory() planner.Factory {
	return func(space planner.Space) planner.Planner { return New(space) }
}

// Name returns "astar".
func (p *Planner) Name() string { return Name }

// Initialize targets goal from start and drops any cached path.
func (p *Planner) Initialize(start, goal grid.Cell) {
	p.start, p.goal = start, goal
	p.path = nil
	p.dirty = true
	p.ready = true
}

func (p *Planner) id(c grid.Cell) int64 {
	return int64(c.Y*p.space.Width() + c.X)
}

func (p *Planner) cell(id int64) grid.Cell {
	w := int64(p.space.Width())
	return grid.Cell{X: int(id % w), Y: int(id / w)}
}

// rebuild mirrors the traversable cells and their adjacencies into a gonum graph.
func (p *Planner) rebuild() {
	g := simple.NewUndirectedGraph()
	for y := 0; y < p.space.Height(); y++ {
		for x := 0; x < p.space.Width(); x++ {
			c := grid.Cell{X: x, Y: y}
			if p.space.IsTraversable(c) {
				g.AddNode(simple.Node(p.id(c)))
			}
		}
	}
	nodes := g.Nodes()
	for nodes.Next() {
		c := p.cell(nodes.Node().ID())
		for _, n := range p.space.Neighbors(c) {
			if p.id(n.Cell) > p.id(c) {
				g.SetEdge(g.NewEdge(simple.Node(p.id(c)), simple.Node(p.id(n.Cell))))
			}
		}
	}
	p.g = g
	p.dirty = false
}

func (p *Planner) heuristic(x, y graph.Node) float64 {
	return grid.Manhattan(p.cell(x.ID()), p.cell(y.ID()))
}

// ComputeShortestPath runs A* from start to goal on the current world.
func (p *Planner) ComputeShortestPath() error {
	if !p.ready {
		return fmt.Errorf("%w: planner not initialized", planner.ErrInconsistentState)
	}
	p.path = nil
	if !p.space.IsTraversable(p.start) || !p.space.IsTraversable(p.goal) {
		return fmt.Errorf("%w: %v -> %v blocked", planner.ErrNoPathExists, p.start, p.goal)
	}
	if p.start == p.goal {
		p.path = []grid.Cell{p.start}
		return nil
	}
	if p.dirty || p.g == nil {
		p.rebuild()
	}

	shortest, expanded := path.AStar(simple.Node(p.id(p.start)), simple.Node(p.id(p.goal)), p.g, p.heuristic)
	p.Expanded = expanded
	if limit := p.space.Width() * p.space.Height(); expanded > limit {
		return fmt.Errorf("%w: %d expansions", planner.ErrMaxIterationsExceeded, expanded)
	}
	nodes, _ := shortest.To(p.id(p.goal))
	if len(nodes) == 0 {
		return fmt.Errorf("%w: %v -> %v", planner.ErrNoPathExists, p.start, p.goal)
	}
	p.path = make([]grid.Cell, len(nodes))
	for i, n := range nodes {
		p.path[i] = p.cell(n.ID())
	}
	return nil
}

// Path returns a copy of the last computed path, or nil.
func (p *Planner) Path() []grid.Cell {
	if p.path == nil {
		return nil
	}
	out := make([]grid.Cell, len(p.path))
	copy(out, p.path)
	return out
}

// UpdateEdgeCosts marks the graph for rebuilding on the next search.
func (p *Planner) UpdateEdgeCosts(edges []grid.Edge) {
	if len(edges) > 0 {
		p.dirty = true
	}
}

// AdvanceStart moves the origin. A cached path that already passes through
// newStart as its next cell is trimmed; any other move invalidates it.
func (p *Planner) AdvanceStart(newStart grid.Cell) {
	p.start = newStart
	if len(p.path) > 1 && p.path[1] == newStart {
		p.path = p.path[1:]
		return
	}
	p.path = nil
}
