// Package dstarlite implements the D* Lite incremental path planner on a
// 4-connected unit-cost grid.
//
// The search runs backward from the goal. Every cell carries two estimates of
// its distance to the goal:
//
//   - g:   the value the search last committed to.
//   - rhs: a one-step lookahead, min over traversable neighbors of 1 + g.
//
// A cell is consistent when g == rhs. Inconsistent cells wait in an open queue
// ordered by Key{K1, K2}, compared lexicographically:
//
//	K2 = min(g, rhs)
//	K1 = K2 + h(start, cell) + km
//
// h is the Manhattan distance, admissible for unit-cost 4-connected moves.
// km accumulates h(oldStart, newStart) on every AdvanceStart, which keeps keys
// already in the queue valid lower bounds after the agent moves, so nothing
// has to be re-keyed.
//
// Incrementality:
//
//   - UpdateEdgeCosts recomputes rhs only for the tails of the changed edges.
//   - ComputeShortestPath then expands just the cells whose estimates are
//     affected, instead of replanning from scratch.
//
// Queue:
//
//   - container/heap with lazy deletion: a side map holds each queued cell's
//     current key; popped entries whose key no longer matches are skipped.
//     Equal keys pop in insertion order, which keeps runs reproducible.
//
// Complexity:
//
//   - Initial search: O(V log V) with V = W·H.
//   - Repair after a local change: proportional to the affected region.
//   - Memory: O(V) for g, rhs and the queue.
//
// Failure conditions (all wrap planner sentinels):
//
//   - planner.ErrNoPathExists          queue drained with g(start) = +Inf.
//   - planner.ErrMaxIterationsExceeded more than W·H·IterationFactor pops.
//   - planner.ErrInconsistentState     negative key, or start left inconsistent.
//   - Path returns nil when extraction fails.
package dstarlite
