package coordinator

import "github.com/katalvlaran/gridfleet/grid"

// CalculateCollisions checks every agent's proposed next cell and reports
// which agents must hold still this tick. It does not change any agent.
//
// Pass 1 looks at each pair once:
//
//   - same_cell: both propose the same cell. An agent with nowhere to go
//     proposes its own cell, so walking into a parked agent lands here.
//   - swap:      each proposes the other's current cell.
//   - shear:     one enters the cell the other is leaving, at a right angle.
//     Following in the same direction (a convoy) is allowed.
//
// Pass 2 repeats until nothing changes (at most MaxCascadePasses times):
// an unblocked agent whose next cell holds a blocked agent becomes blocked
// with blocked_robot_collision.
//
// Each agent keeps the first reason recorded for it.
func (c *Coordinator) CalculateCollisions() Report {
	r := Report{Blocked: make(map[AgentID]CollisionType)}
	if c.count < 2 {
		return r
	}

	live := make([]*agent, 0, c.count)
	c.each(func(a *agent) { live = append(live, a) })

	block := func(id AgentID, why CollisionType) {
		if _, ok := r.Blocked[id]; !ok {
			r.Blocked[id] = why
		}
	}

	// Pass 1: pairwise.
	for i := 0; i < len(live); i++ {
		for j := i + 1; j < len(live); j++ {
			a, b := live[i], live[j]
			col, ok := pairwise(a, b)
			if !ok {
				continue
			}
			block(a.id, col.Type)
			block(b.id, col.Type)
			r.Collisions = append(r.Collisions, col)
		}
	}

	// Pass 2: cascade to a fixed point. Each pass only looks at agents blocked
	// before it started, so a chain of k agents takes k passes.
	for pass := 0; pass < MaxCascadePasses; pass++ {
		type hit struct {
			id, by AgentID
			at     grid.Cell
		}
		var hits []hit
		for _, a := range live {
			if r.IsBlocked(a.id) {
				continue
			}
			next := a.next()
			if next == a.pos {
				continue
			}
			for _, b := range live {
				if r.IsBlocked(b.id) && b.pos == next {
					hits = append(hits, hit{id: a.id, by: b.id, at: b.pos})
					break
				}
			}
		}
		if len(hits) == 0 {
			break
		}
		for _, h := range hits {
			by, at := h.by, h.at
			block(h.id, BlockedRobot)
			r.Collisions = append(r.Collisions, Collision{
				Type:      BlockedRobot,
				Agents:    []AgentID{h.id},
				Position:  &at,
				BlockedBy: &by,
			})
		}
		r.CascadePasses++
	}
	return r
}

// pairwise classifies the proposed moves of a and b.
func pairwise(a, b *agent) (Collision, bool) {
	na, nb := a.next(), b.next()
	ids := []AgentID{a.id, b.id}

	if na == nb {
		at := na
		return Collision{Type: SameCell, Agents: ids, Position: &at}, true
	}
	if na == b.pos && nb == a.pos {
		return Collision{Type: Swap, Agents: ids, Positions: []grid.Cell{a.pos, b.pos}}, true
	}
	if shears(a, b) || shears(b, a) {
		var at grid.Cell
		if na == b.pos {
			at = b.pos
		} else {
			at = a.pos
		}
		return Collision{Type: Shear, Agents: ids, Position: &at}, true
	}
	return Collision{}, false
}

// shears reports whether mover steps into the cell leaver is vacating while
// the two move at a right angle.
func shears(mover, leaver *agent) bool {
	nm, nl := mover.next(), leaver.next()
	if nm != leaver.pos || nl == leaver.pos {
		return false
	}
	mdx, mdy := grid.Direction(mover.pos, nm)
	ldx, ldy := grid.Direction(leaver.pos, nl)
	return mdx*ldx+mdy*ldy == 0
}
