// Package coordinator drives one planner per agent over a shared grid,
// advances the simulation in discrete ticks and reports conflicts between
// the agents' proposed moves.
//
// Agents are addressed by AgentID, a dense index into a fixed-size arena.
// Ids are recycled last-in first-out, and render externally as "robotN".
//
// Planners never see other agents. Each tick the coordinator instead:
//
//  1. collects every agent's proposed next cell,
//  2. runs pairwise detection (same_cell, swap, shear with convoy exemption),
//  3. cascades blocked_robot_collision to a fixed point,
//  4. moves only the unblocked agents, then replans.
//
// Conflicts are detected and reported, never resolved: blocked agents simply
// wait. Deadlocks therefore persist until the world changes.
//
// Placement invariants kept at this boundary:
//
//   - No two agents share a position or a goal.
//   - No obstacle sits on an agent's position or goal.
//
// Violating operations return one of the Err* sentinels and change nothing.
package coordinator
