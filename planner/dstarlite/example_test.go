package dstarlite_test

import (
	"fmt"

	"github.com/katalvlaran/gridfleet/grid"
	"github.com/katalvlaran/gridfleet/planner/dstarlite"
)

// ExamplePlanner shows an initial plan, a blocked cell, and the repaired plan
// after the agent has already taken one step.
//
//	S . .      S . .
//	. . .  ->  # . .
//	. . G      . . G
func ExamplePlanner() {
	g, _ := grid.New(3, 3)
	p := dstarlite.New(g)
	p.Initialize(grid.Cell{X: 0, Y: 0}, grid.Cell{X: 2, Y: 2})

	_ = p.ComputeShortestPath()
	fmt.Println("plan:", p.Path())

	p.AdvanceStart(grid.Cell{X: 0, Y: 1})
	p.UpdateEdgeCosts(g.SetObstacle(grid.Cell{X: 0, Y: 2}, true))
	_ = p.ComputeShortestPath()
	fmt.Println("replan:", p.Path())
	fmt.Println("km:", p.KM())
	// Output:
	// plan: [(0,0) (0,1) (0,2) (1,2) (2,2)]
	// replan: [(0,1) (1,1) (1,2) (2,2)]
	// km: 1
}
