package astar_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gridfleet/grid"
	"github.com/katalvlaran/gridfleet/planner"
	"github.com/katalvlaran/gridfleet/planner/astar"
	"github.com/katalvlaran/gridfleet/planner/dstarlite"
)

func c(x, y int) grid.Cell { return grid.Cell{X: x, Y: y} }

func TestComputeShortestPath(t *testing.T) {
	g, err := grid.New(5, 5)
	require.NoError(t, err)
	g.SetObstacle(c(1, 0), true)
	g.SetObstacle(c(1, 1), true)

	p := astar.New(g)
	p.Initialize(c(0, 0), c(2, 0))
	require.NoError(t, p.ComputeShortestPath())

	path := p.Path()
	require.Len(t, path, 7) // around the two-cell wall
	assert.Equal(t, c(0, 0), path[0])
	assert.Equal(t, c(2, 0), path[6])
	for i := 1; i < len(path); i++ {
		assert.True(t, grid.Adjacent(path[i-1], path[i]))
		assert.True(t, g.IsTraversable(path[i]))
	}
	assert.Equal(t, astar.Name, p.Name())
}

func TestComputeShortestPath_Failures(t *testing.T) {
	g, _ := grid.New(3, 3)
	p := astar.New(g)
	assert.ErrorIs(t, p.ComputeShortestPath(), planner.ErrInconsistentState)

	p.Initialize(c(1, 1), c(1, 1))
	require.NoError(t, p.ComputeShortestPath())
	assert.Equal(t, []grid.Cell{c(1, 1)}, p.Path())

	for y := 0; y < 3; y++ {
		p.UpdateEdgeCosts(g.SetObstacle(c(1, y), true))
	}
	p.Initialize(c(0, 0), c(2, 2))
	assert.ErrorIs(t, p.ComputeShortestPath(), planner.ErrNoPathExists)
	assert.Nil(t, p.Path())
}

func TestUpdateEdgeCostsAndAdvanceStart(t *testing.T) {
	g, _ := grid.New(4, 4)
	p := astar.New(g)
	p.Initialize(c(0, 0), c(3, 0))
	require.NoError(t, p.ComputeShortestPath())
	path := p.Path()
	require.Len(t, path, 4)

	p.AdvanceStart(path[1])
	assert.Equal(t, path[1:], p.Path())

	p.UpdateEdgeCosts(g.SetObstacle(c(2, 0), true))
	require.NoError(t, p.ComputeShortestPath())
	assert.NotContains(t, p.Path(), c(2, 0))
	assert.Len(t, p.Path(), 5)

	p.AdvanceStart(c(3, 3)) // not the next cell: cache dropped
	assert.Nil(t, p.Path())
}

// TestAgreesWithDStarLite checks both planners find paths of equal length on
// random layouts.
func TestAgreesWithDStarLite(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 25; trial++ {
		g, _ := grid.New(8, 8)
		for i := 0; i < 16; i++ {
			g.SetObstacle(c(rng.Intn(8), rng.Intn(8)), true)
		}
		start, goal := c(0, 0), c(7, 7)
		g.SetObstacle(start, false)
		g.SetObstacle(goal, false)

		a := astar.New(g)
		a.Initialize(start, goal)
		d := dstarlite.New(g)
		d.Initialize(start, goal)

		errA, errD := a.ComputeShortestPath(), d.ComputeShortestPath()
		assert.Equal(t, planner.Reason(errD), planner.Reason(errA))
		assert.Equal(t, len(d.Path()), len(a.Path()))
	}
}
