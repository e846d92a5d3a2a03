package coordinator

import "github.com/sirupsen/logrus"

// StepSimulation advances the world by one tick:
//
//  1. detect collisions among the current proposals and flag blocked agents;
//  2. refresh stuck flags;
//  3. move every agent that is neither blocked, stuck, nor at its goal one
//     cell along its path, advancing its planner's start;
//  4. replan every agent if anything moved.
//
// The result's Continue is false only when every agent is at its goal or stuck.
func (c *Coordinator) StepSimulation() StepResult {
	report := c.CalculateCollisions()
	c.last = report
	c.each(func(a *agent) {
		a.blockReason, a.blocked = report.Blocked[a.id]
	})
	c.refreshStuck()

	var moved []AgentID
	c.each(func(a *agent) {
		if a.blocked || a.stuck || a.atGoal() || len(a.path) < 2 {
			return
		}
		next := a.path[1]
		a.planner.AdvanceStart(next)
		a.pos = next
		a.path = a.path[1:]
		c.grid.SetOccupant(int(a.id), next)
		moved = append(moved, a.id)
	})
	if len(moved) > 0 {
		c.RecomputePaths()
	}
	c.steps++

	res := StepResult{Continue: c.HasWork(), Report: report, Moved: moved, Stuck: c.StuckAgents()}

	c.log.WithFields(logrus.Fields{
		"step":       c.steps,
		"moved":      len(moved),
		"blocked":    len(report.Blocked),
		"collisions": len(report.Collisions),
		"stuck":      len(res.Stuck),
	}).Debug("tick")
	return res
}

// HasWork reports whether any agent is neither at its goal nor stuck.
func (c *Coordinator) HasWork() bool {
	for _, a := range c.agents {
		if a != nil && !a.atGoal() && !a.stuck {
			return true
		}
	}
	return false
}
