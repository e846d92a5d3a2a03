package dstarlite

import (
	"fmt"
	"math"

	"github.com/katalvlaran/gridfleet/grid"
	"github.com/katalvlaran/gridfleet/planner"
)

// Planner is a D* Lite search bound to one world and one agent.
// It is not safe for concurrent use.
type Planner struct {
	space planner.Space
	opts  Options

	start, goal grid.Cell
	km          float64
	g, rhs      map[grid.Cell]float64
	open        *openQueue
	ready       bool // Initialize has been called
	stats       Stats
}

var _ planner.Planner = (*Planner)(nil)

// New returns an uninitialised planner over space.
func New(space planner.Space, opts ...Option) *Planner {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Planner{space: space, opts: cfg}
}

// Factory adapts New to planner.Factory.
func Factory(opts ...Option) planner.Factory {
	return func(space planner.Space) planner.Planner {
		return New(space, opts...)
	}
}

// Name returns "dstar_lite".
func (p *Planner) Name() string { return Name }

// Initialize resets every estimate to +Inf, sets rhs(goal) = 0, seeds the
// queue with the goal and zeroes km.
func (p *Planner) Initialize(start, goal grid.Cell) {
	n := p.space.Width() * p.space.Height()
	p.start, p.goal = start, goal
	p.km = 0
	p.g = make(map[grid.Cell]float64, n)
	p.rhs = make(map[grid.Cell]float64, n)
	p.open = newOpenQueue(n)
	p.stats = Stats{}
	p.ready = true

	p.rhs[goal] = 0
	p.open.insert(goal, Key{K1: grid.Manhattan(start, goal), K2: 0})
}

// G returns the committed estimate for c (+Inf if never set).
func (p *Planner) G(c grid.Cell) float64 { return lookup(p.g, c) }

// RHS returns the lookahead estimate for c (+Inf if never set).
func (p *Planner) RHS(c grid.Cell) float64 { return lookup(p.rhs, c) }

// KM returns the accumulated key modifier.
func (p *Planner) KM() float64 { return p.km }

// Start returns the current planning origin.
func (p *Planner) Start() grid.Cell { return p.start }

// Goal returns the target cell.
func (p *Planner) Goal() grid.Cell { return p.goal }

// Stats returns work counters.
func (p *Planner) Stats() Stats { return p.stats }

// Queued reports how many cells are waiting in the open queue.
func (p *Planner) Queued() int {
	if p.open == nil {
		return 0
	}
	return p.open.len()
}

func lookup(m map[grid.Cell]float64, c grid.Cell) float64 {
	if v, ok := m[c]; ok {
		return v
	}
	return inf
}

// CalculateKey returns the queue key of c under the current start and km.
func (p *Planner) CalculateKey(c grid.Cell) Key {
	k2 := math.Min(p.G(c), p.RHS(c))
	return Key{K1: k2 + grid.Manhattan(p.start, c) + p.km, K2: k2}
}

// lookahead is min over traversable neighbors of cost + g. Non-traversable
// cells have no outgoing edges and get +Inf.
func (p *Planner) lookahead(u grid.Cell) float64 {
	if !p.space.IsTraversable(u) {
		return inf
	}
	best := inf
	for _, n := range p.space.Neighbors(u) {
		if v := n.Cost + p.G(n.Cell); v < best {
			best = v
		}
	}
	return best
}

// updateVertex refreshes rhs(u) and its queue membership.
func (p *Planner) updateVertex(u grid.Cell) {
	if u != p.goal {
		p.rhs[u] = p.lookahead(u)
	}
	p.open.remove(u)
	if p.G(u) != p.RHS(u) {
		p.open.insert(u, p.CalculateKey(u))
	}
}

// ComputeShortestPath expands queued cells until the start is consistent and
// no queued key is below the start's key.
func (p *Planner) ComputeShortestPath() error {
	if !p.ready {
		return fmt.Errorf("%w: planner not initialized", planner.ErrInconsistentState)
	}
	limit := p.space.Width() * p.space.Height() * p.opts.IterationFactor
	p.stats.Pops, p.stats.Expansions = 0, 0

	for {
		// 1) Termination: queue empty, or top key not below the start key
		//    while the start is consistent.
		_, top, ok := p.open.top()
		if !ok {
			break
		}
		if !top.Less(p.CalculateKey(p.start)) && p.G(p.start) == p.RHS(p.start) {
			break
		}
		if p.stats.Pops >= limit {
			return fmt.Errorf("%w: %d pops from %v", planner.ErrMaxIterationsExceeded, p.stats.Pops, p.start)
		}

		// 2) Pop and sanity-check.
		u, kOld, _ := p.open.pop()
		p.stats.Pops++
		p.stats.TotalPops++
		if kOld.K1 < 0 || kOld.K2 < 0 {
			return fmt.Errorf("%w: negative key %v at %v", planner.ErrInconsistentState, kOld, u)
		}

		// 3) Key grew since it was queued (km or neighbors changed): requeue.
		kNew := p.CalculateKey(u)
		if kOld.Less(kNew) {
			p.open.insert(u, kNew)
			continue
		}

		// 4) Over-consistent: commit rhs and relax predecessors.
		//    Under-consistent: invalidate g and relax u and predecessors.
		if p.G(u) > p.RHS(u) {
			p.g[u] = p.RHS(u)
			p.stats.Expansions++
			for _, n := range p.space.Neighbors(u) {
				p.updateVertex(n.Cell)
			}
			continue
		}
		p.g[u] = inf
		p.stats.Expansions++
		p.updateVertex(u)
		for _, n := range p.space.Neighbors(u) {
			p.updateVertex(n.Cell)
		}
	}

	if p.G(p.start) != p.RHS(p.start) {
		return fmt.Errorf("%w: start %v left inconsistent (g=%g rhs=%g)",
			planner.ErrInconsistentState, p.start, p.G(p.start), p.RHS(p.start))
	}
	if math.IsInf(p.G(p.start), 1) {
		return fmt.Errorf("%w: %v -> %v", planner.ErrNoPathExists, p.start, p.goal)
	}
	return nil
}

// Path descends greedily from start on cost + g, taking the first strict
// minimum in neighbor order. It returns [start] when start == goal and nil
// when the descent cannot reach the goal within W·H steps.
func (p *Planner) Path() []grid.Cell {
	if !p.ready || math.IsInf(p.G(p.start), 1) && p.start != p.goal {
		return nil
	}
	limit := p.space.Width() * p.space.Height()
	path := []grid.Cell{p.start}
	cur := p.start
	for cur != p.goal {
		if len(path) > limit {
			return nil
		}
		best, next := inf, cur
		for _, n := range p.space.Neighbors(cur) {
			if v := n.Cost + p.G(n.Cell); v < best {
				best, next = v, n.Cell
			}
		}
		if math.IsInf(best, 1) {
			return nil
		}
		path = append(path, next)
		cur = next
	}
	return path
}

// UpdateEdgeCosts refreshes rhs for every distinct tail of the changed edges.
func (p *Planner) UpdateEdgeCosts(edges []grid.Edge) {
	if !p.ready {
		return
	}
	seen := make(map[grid.Cell]struct{}, len(edges))
	for _, e := range edges {
		if _, ok := seen[e.From]; ok {
			continue
		}
		seen[e.From] = struct{}{}
		p.updateVertex(e.From)
	}
}

// AdvanceStart moves the origin to newStart and adds h(old, new) to km.
func (p *Planner) AdvanceStart(newStart grid.Cell) {
	p.km += grid.Manhattan(p.start, newStart)
	p.start = newStart
}
