// Package grid models the rectangular world that agents move through.
//
// What:
//
//   - A Grid is Width×Height cells addressed by Cell{X, Y}, X growing to the
//     right and Y growing downward. A cell is either free or an obstacle.
//   - Movement is 4-connected with unit cost. Neighbors are always reported in
//     the fixed compass order Down, Up, Right, Left so that ties between
//     equal-cost moves are broken the same way on every run.
//   - SetObstacle reports the directed edges whose cost changed, which is
//     exactly what an incremental planner needs to repair its search.
//   - The grid also keeps an informational map of agent occupants. It is never
//     consulted for traversability; agents do not block each other here.
//
// Why:
//
//   - Planners only need a read-only view (bounds, traversability,
//     neighbors). Keeping obstacle bookkeeping here lets every planner react to
//     the same edge-change notifications.
//
// Complexity:
//
//   - InBounds, IsTraversable, Neighbors: O(1).
//   - SetObstacle: O(1), at most 8 changed edges.
//   - ConnectedComponents, Distances: O(W·H) time and memory (BFS).
//
// Errors:
//
//   - ErrBadDimensions if New is asked for a size outside [MinSize, MaxSize].
//   - ErrOutOfBounds when a lookup names a cell outside the grid.
package grid
