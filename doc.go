// Package gridfleet is a playground for multi-agent path planning on small
// 4-connected grids.
//
// Several robots share one grid. Each robot plans its own route with an
// incremental planner (D* Lite by default, A* on request) and a coordinator
// moves them one cell per tick, detecting collisions among the proposed
// moves and holding back the robots that would conflict.
//
// Layout:
//
//	grid/               cells, obstacles, neighbours, connectivity
//	planner/            the Planner contract and failure reasons
//	planner/dstarlite/  incremental D* Lite (backward search, km offset)
//	planner/astar/      A* baseline over a gonum graph, replans from scratch
//	coordinator/        agent registry, collision detection, ticking
//	session/            JSON command boundary and state snapshots
//	cmd/playground/     WebSocket server, one world per connection
//	examples/           headless demos
//
// Quick ASCII example (robot 0 heading for the far corner of a 5×5 grid):
//
//	0 . . . .
//	. # # # .
//	. . . # .
//	. # . . .
//	. . . # .
//
//	go run ./cmd/playground -listen :8080
package gridfleet
