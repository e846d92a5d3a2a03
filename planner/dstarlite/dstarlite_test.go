package dstarlite_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gridfleet/grid"
	"github.com/katalvlaran/gridfleet/planner"
	"github.com/katalvlaran/gridfleet/planner/dstarlite"
)

func c(x, y int) grid.Cell { return grid.Cell{X: x, Y: y} }

func newGrid(t testing.TB, w, h int, obstacles ...grid.Cell) *grid.Grid {
	t.Helper()
	g, err := grid.New(w, h)
	require.NoError(t, err)
	for _, o := range obstacles {
		g.SetObstacle(o, true)
	}
	return g
}

// assertConsistentPath checks that every cell on path has g == rhs and that g
// drops by exactly one per step.
func assertConsistentPath(t *testing.T, p *dstarlite.Planner, path []grid.Cell) {
	t.Helper()
	for i, cell := range path {
		assert.Equal(t, p.G(cell), p.RHS(cell), "cell %v inconsistent", cell)
		assert.Equal(t, float64(len(path)-1-i), p.G(cell), "cell %v", cell)
	}
}

func TestComputeShortestPath_OpenGrid(t *testing.T) {
	g := newGrid(t, 5, 5)
	p := dstarlite.New(g)
	p.Initialize(c(0, 0), c(4, 4))

	require.NoError(t, p.ComputeShortestPath())
	path := p.Path()

	// Down is tried first, so the path runs down column 0 and then right.
	want := []grid.Cell{c(0, 0), c(0, 1), c(0, 2), c(0, 3), c(0, 4), c(1, 4), c(2, 4), c(3, 4), c(4, 4)}
	if diff := cmp.Diff(want, path); diff != "" {
		t.Fatalf("path mismatch (-want +got):\n%s", diff)
	}
	assertConsistentPath(t, p, path)
	assert.Equal(t, dstarlite.Name, p.Name())
	assert.Positive(t, p.Stats().Pops)
}

func TestComputeShortestPath_StartIsGoal(t *testing.T) {
	g := newGrid(t, 3, 3)
	p := dstarlite.New(g)
	p.Initialize(c(1, 1), c(1, 1))

	require.NoError(t, p.ComputeShortestPath())
	assert.Equal(t, []grid.Cell{c(1, 1)}, p.Path())
	assert.Equal(t, 0.0, p.G(c(1, 1)))
}

func TestComputeShortestPath_NoPath(t *testing.T) {
	// Wall across column 2 separates start from goal.
	g := newGrid(t, 5, 3, c(2, 0), c(2, 1), c(2, 2))
	p := dstarlite.New(g)
	p.Initialize(c(0, 1), c(4, 1))

	err := p.ComputeShortestPath()
	require.ErrorIs(t, err, planner.ErrNoPathExists)
	assert.Equal(t, planner.ReasonNoPathExists, planner.Reason(err))
	assert.Nil(t, p.Path())
	assert.True(t, math.IsInf(p.G(c(0, 1)), 1))
}

func TestComputeShortestPath_NotInitialized(t *testing.T) {
	p := dstarlite.New(newGrid(t, 3, 3))
	assert.ErrorIs(t, p.ComputeShortestPath(), planner.ErrInconsistentState)
	assert.Nil(t, p.Path())
	p.UpdateEdgeCosts([]grid.Edge{{From: c(0, 0), To: c(0, 1)}})
}

// lineSpace is an 11-cell corridor that reports 1×1 dimensions, which shrinks
// the pop budget to IterationFactor.
type lineSpace struct{}

func (lineSpace) Width() int                   { return 1 }
func (lineSpace) Height() int                  { return 1 }
func (lineSpace) InBounds(c grid.Cell) bool    { return c.Y == 0 && c.X >= 0 && c.X <= 10 }
func (s lineSpace) IsTraversable(c grid.Cell) bool { return s.InBounds(c) }
func (s lineSpace) Neighbors(c grid.Cell) []grid.Neighbor {
	var out []grid.Neighbor
	for _, n := range []grid.Cell{c.Add(1, 0), c.Add(-1, 0)} {
		if s.InBounds(n) {
			out = append(out, grid.Neighbor{Cell: n, Cost: grid.StepCost})
		}
	}
	return out
}

func TestComputeShortestPath_MaxIterations(t *testing.T) {
	p := dstarlite.New(lineSpace{}, dstarlite.WithIterationFactor(1))
	p.Initialize(c(0, 0), c(10, 0))

	err := p.ComputeShortestPath()
	require.ErrorIs(t, err, planner.ErrMaxIterationsExceeded)
	assert.Equal(t, 1, p.Stats().Pops)

	// Same corridor with the default budget succeeds.
	p = dstarlite.New(lineSpace{})
	p.Initialize(c(0, 0), c(10, 0))
	require.NoError(t, p.ComputeShortestPath())
	assert.Len(t, p.Path(), 11)
}

func TestWithIterationFactor_PanicsOnNonPositive(t *testing.T) {
	assert.Panics(t, func() { dstarlite.WithIterationFactor(0) })
}

// TestUpdateEdgeCosts_Reroute blocks the planned route and checks the repair
// finds an equally short detour without reinitialising.
func TestUpdateEdgeCosts_Reroute(t *testing.T) {
	g := newGrid(t, 5, 5)
	p := dstarlite.New(g)
	p.Initialize(c(0, 0), c(4, 4))
	require.NoError(t, p.ComputeShortestPath())
	require.Contains(t, p.Path(), c(0, 2))

	p.UpdateEdgeCosts(g.SetObstacle(c(0, 2), true))
	require.NoError(t, p.ComputeShortestPath())
	path := p.Path()
	assert.NotContains(t, path, c(0, 2))
	assert.Len(t, path, 9)
	assertConsistentPath(t, p, path)

	// Removing it again restores the original route.
	p.UpdateEdgeCosts(g.SetObstacle(c(0, 2), false))
	require.NoError(t, p.ComputeShortestPath())
	assert.Contains(t, p.Path(), c(0, 2))
}

func TestUpdateEdgeCosts_CutOff(t *testing.T) {
	g := newGrid(t, 5, 3, c(2, 0), c(2, 2))
	p := dstarlite.New(g)
	p.Initialize(c(0, 1), c(4, 1))
	require.NoError(t, p.ComputeShortestPath())
	require.Len(t, p.Path(), 5)

	p.UpdateEdgeCosts(g.SetObstacle(c(2, 1), true))
	assert.ErrorIs(t, p.ComputeShortestPath(), planner.ErrNoPathExists)
	assert.Nil(t, p.Path())

	p.UpdateEdgeCosts(g.SetObstacle(c(2, 1), false))
	require.NoError(t, p.ComputeShortestPath())
	assert.Len(t, p.Path(), 5)
}

// TestAdvanceStart_KMMonotonic walks the agent along its path and checks km
// never decreases and grows by one per unit step.
func TestAdvanceStart_KMMonotonic(t *testing.T) {
	g := newGrid(t, 6, 6)
	p := dstarlite.New(g)
	p.Initialize(c(0, 0), c(5, 5))
	require.NoError(t, p.ComputeShortestPath())

	prev := p.KM()
	steps := 0
	for p.Start() != p.Goal() {
		path := p.Path()
		require.GreaterOrEqual(t, len(path), 2)
		p.AdvanceStart(path[1])
		steps++
		assert.GreaterOrEqual(t, p.KM(), prev)
		prev = p.KM()

		if steps == 3 {
			// Drop an obstacle ahead mid-walk to force a repair with km > 0.
			p.UpdateEdgeCosts(g.SetObstacle(c(0, 4), true))
		}
		require.NoError(t, p.ComputeShortestPath())
	}
	assert.Equal(t, float64(steps), p.KM())
	assert.Equal(t, 10, steps)
}

// TestRandomGrids_OptimalAndAdmissible compares path lengths against BFS on
// random obstacle layouts, before and after incremental changes, and checks
// the Manhattan heuristic never overestimates the true distance.
func TestRandomGrids_OptimalAndAdmissible(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 40; trial++ {
		w, h := 4+rng.Intn(9), 4+rng.Intn(9)
		g := newGrid(t, w, h)
		for i := 0; i < w*h/4; i++ {
			g.SetObstacle(c(rng.Intn(w), rng.Intn(h)), true)
		}
		start, goal := c(0, 0), c(w-1, h-1)
		g.SetObstacle(start, false)
		g.SetObstacle(goal, false)

		p := dstarlite.New(g)
		p.Initialize(start, goal)
		checkAgainstBFS(t, g, p, start, goal)

		for s, d := range g.Distances(goal) {
			assert.LessOrEqual(t, grid.Manhattan(s, goal), float64(d))
		}

		// Incremental changes away from start and goal.
		for i := 0; i < 5; i++ {
			cell := c(rng.Intn(w), rng.Intn(h))
			if cell == start || cell == goal {
				continue
			}
			_, edges := g.ToggleObstacle(cell)
			p.UpdateEdgeCosts(edges)
			checkAgainstBFS(t, g, p, start, goal)
		}
	}
}

func checkAgainstBFS(t *testing.T, g *grid.Grid, p *dstarlite.Planner, start, goal grid.Cell) {
	t.Helper()
	err := p.ComputeShortestPath()
	dist, reachable := g.Distances(start)[goal]
	if !reachable {
		assert.ErrorIs(t, err, planner.ErrNoPathExists)
		return
	}
	require.NoError(t, err)
	path := p.Path()
	require.NotNil(t, path)
	assert.Equal(t, dist, len(path)-1)
	assert.Equal(t, start, path[0])
	assert.Equal(t, goal, path[len(path)-1])
	for i := 1; i < len(path); i++ {
		assert.True(t, grid.Adjacent(path[i-1], path[i]))
		assert.True(t, g.IsTraversable(path[i]))
	}
}

func TestKeyLess(t *testing.T) {
	assert.True(t, dstarlite.Key{K1: 1, K2: 5}.Less(dstarlite.Key{K1: 2, K2: 0}))
	assert.True(t, dstarlite.Key{K1: 2, K2: 0}.Less(dstarlite.Key{K1: 2, K2: 1}))
	assert.False(t, dstarlite.Key{K1: 2, K2: 1}.Less(dstarlite.Key{K1: 2, K2: 1}))
	assert.True(t, dstarlite.Key{K1: 3, K2: 3}.Less(dstarlite.Key{K1: math.Inf(1), K2: math.Inf(1)}))
}

func TestCalculateKey(t *testing.T) {
	g := newGrid(t, 5, 5)
	p := dstarlite.New(g)
	p.Initialize(c(0, 0), c(4, 4))
	assert.Equal(t, dstarlite.Key{K1: 8, K2: 0}, p.CalculateKey(c(4, 4)))

	require.NoError(t, p.ComputeShortestPath())
	p.AdvanceStart(c(0, 1))
	// K2 = g = 6, K1 = 6 + h((0,1),(1,1)) + km = 6 + 1 + 1.
	assert.Equal(t, dstarlite.Key{K1: 8, K2: 6}, p.CalculateKey(c(1, 1)))
}
