package coordinator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gridfleet/coordinator"
	"github.com/katalvlaran/gridfleet/grid"
)

func TestCalculateCollisions_FewerThanTwoAgents(t *testing.T) {
	co := newCoordinator(t, 5, 5)
	assert.Empty(t, co.CalculateCollisions().Blocked)
	mustAdd(t, co, c(0, 0), c(4, 4))
	r := co.CalculateCollisions()
	assert.Empty(t, r.Blocked)
	assert.Empty(t, r.Collisions)
}

// TestCrossingCorners_SameCell runs the two-corner crossing on a 5×5 grid.
// Both agents descend their outer columns and then meet head-on in the
// bottom row, so the first conflict is a same_cell at (2,4) on tick 6.
func TestCrossingCorners_SameCell(t *testing.T) {
	co := newCoordinator(t, 5, 5)
	a := mustAdd(t, co, c(0, 0), c(4, 4))
	b := mustAdd(t, co, c(4, 0), c(0, 4))

	for tick := 1; tick <= 5; tick++ {
		res := co.StepSimulation()
		require.Empty(t, res.Report.Collisions, "tick %d", tick)
		require.Len(t, res.Moved, 2)
	}
	pa, _ := co.Agent(a)
	pb, _ := co.Agent(b)
	assert.Equal(t, c(1, 4), pa.Position)
	assert.Equal(t, c(3, 4), pb.Position)

	res := co.StepSimulation()
	require.Len(t, res.Report.Collisions, 1)
	col := res.Report.Collisions[0]
	assert.Equal(t, coordinator.SameCell, col.Type)
	assert.Equal(t, []coordinator.AgentID{a, b}, col.Agents)
	require.NotNil(t, col.Position)
	assert.Equal(t, c(2, 4), *col.Position)
	assert.Empty(t, res.Moved)
	assert.True(t, res.Continue)
	assert.Equal(t, []coordinator.AgentID{a, b}, co.BlockedAgents())

	blocked, _ := co.Agent(a)
	assert.True(t, blocked.Blocked)
	assert.Equal(t, coordinator.SameCell, blocked.BlockReason)

	// Nothing resolves the deadlock.
	res = co.StepSimulation()
	assert.Empty(t, res.Moved)
	assert.Equal(t, 7, co.Steps())
}

// TestShear_RightAngle: one agent crosses the column the other is moving
// down, entering (2,2) as it is vacated.
//
//	. . . . .
//	. . 1 . .
//	0 . . . .
//	. . . . .
//	. . . . .
func TestShear_RightAngle(t *testing.T) {
	co := newCoordinator(t, 5, 5)
	a := mustAdd(t, co, c(0, 2), c(4, 2))
	b := mustAdd(t, co, c(2, 1), c(2, 4))

	res := co.StepSimulation()
	require.Empty(t, res.Report.Collisions)

	r := co.CalculateCollisions()
	require.Len(t, r.Collisions, 1)
	col := r.Collisions[0]
	assert.Equal(t, coordinator.Shear, col.Type)
	require.NotNil(t, col.Position)
	assert.Equal(t, c(2, 2), *col.Position)
	assert.Equal(t, coordinator.Shear, r.Blocked[a])
	assert.Equal(t, coordinator.Shear, r.Blocked[b])

	res = co.StepSimulation()
	assert.Empty(t, res.Moved)
	pa, _ := co.Agent(a)
	assert.Equal(t, c(1, 2), pa.Position)
}

// TestConvoy_NoCollision: a follower may enter the cell its leader vacates
// when both move the same way.
func TestConvoy_NoCollision(t *testing.T) {
	co := newCoordinator(t, 6, 3)
	follower := mustAdd(t, co, c(1, 0), c(4, 0))
	leader := mustAdd(t, co, c(2, 0), c(5, 0))

	res := co.StepSimulation()
	for res.Continue {
		require.Empty(t, res.Report.Collisions)
		require.Less(t, co.Steps(), 10)
		res = co.StepSimulation()
	}
	f, _ := co.Agent(follower)
	l, _ := co.Agent(leader)
	assert.True(t, f.AtGoal())
	assert.True(t, l.AtGoal())
	assert.Equal(t, 3, co.Steps())
}

func TestSwap(t *testing.T) {
	co := newCoordinator(t, 6, 6)
	a := mustAdd(t, co, c(3, 3), c(5, 3))
	b := mustAdd(t, co, c(4, 3), c(2, 3))

	r := co.CalculateCollisions()
	require.Len(t, r.Collisions, 1)
	col := r.Collisions[0]
	assert.Equal(t, coordinator.Swap, col.Type)
	assert.Equal(t, []grid.Cell{c(3, 3), c(4, 3)}, col.Positions)
	assert.Nil(t, col.Position)
	assert.Equal(t, []coordinator.AgentID{a, b}, r.BlockedIDs())
}

// TestParkedAgent_SameCell: walking into an agent that has no move proposes
// the same cell it occupies.
func TestParkedAgent_SameCell(t *testing.T) {
	co := newCoordinator(t, 5, 5)
	mover := mustAdd(t, co, c(0, 0), c(4, 0))
	parked := mustAdd(t, co, c(2, 0), c(2, 0))

	res := co.StepSimulation()
	require.Empty(t, res.Report.Collisions)

	res = co.StepSimulation()
	require.Len(t, res.Report.Collisions, 1)
	assert.Equal(t, coordinator.SameCell, res.Report.Collisions[0].Type)
	assert.Equal(t, c(2, 0), *res.Report.Collisions[0].Position)
	assert.True(t, res.Report.IsBlocked(mover))
	assert.True(t, res.Report.IsBlocked(parked))
	assert.True(t, res.Continue)
}

// TestCascade builds a head-on conflict with two followers queued behind one
// side. Each follower is blocked one propagation pass after the agent ahead.
//
//	row 0:  . . F2 F1 H . O . . .
func TestCascade(t *testing.T) {
	co := newCoordinator(t, 10, 3)
	h := mustAdd(t, co, c(4, 0), c(9, 0))
	o := mustAdd(t, co, c(6, 0), c(0, 0))
	f1 := mustAdd(t, co, c(3, 0), c(8, 0))
	f2 := mustAdd(t, co, c(2, 0), c(7, 0))

	r := co.CalculateCollisions()
	assert.Equal(t, coordinator.SameCell, r.Blocked[h])
	assert.Equal(t, coordinator.SameCell, r.Blocked[o])
	assert.Equal(t, coordinator.BlockedRobot, r.Blocked[f1])
	assert.Equal(t, coordinator.BlockedRobot, r.Blocked[f2])
	assert.Equal(t, 2, r.CascadePasses)
	assert.LessOrEqual(t, r.CascadePasses, co.Len())

	require.Len(t, r.Collisions, 3)
	first, second := r.Collisions[1], r.Collisions[2]
	assert.Equal(t, []coordinator.AgentID{f1}, first.Agents)
	assert.Equal(t, h, *first.BlockedBy)
	assert.Equal(t, c(4, 0), *first.Position)
	assert.Equal(t, []coordinator.AgentID{f2}, second.Agents)
	assert.Equal(t, f1, *second.BlockedBy)
	assert.Equal(t, c(3, 0), *second.Position)

	res := co.StepSimulation()
	assert.Empty(t, res.Moved)
	assert.True(t, res.Continue)
}

// TestCascade_BoundedByAgentCount queues seven followers in a walled
// corridor behind a head-on pair. The block ripples back one agent per pass,
// so the cascade settles within the number of agents.
//
//	row 0:  . 1 2 3 4 5 6 7 A . B .
//	row 1:  # # # # # # # # # # # .
func TestCascade_BoundedByAgentCount(t *testing.T) {
	co := newCoordinator(t, 12, 3)
	for x := 0; x <= 10; x++ {
		require.NoError(t, co.SetObstacle(c(x, 1), true))
	}
	mustAdd(t, co, c(8, 0), c(11, 0))
	mustAdd(t, co, c(10, 0), c(0, 0))
	for x := 7; x >= 1; x-- {
		mustAdd(t, co, c(x, 0), c(x, 2))
	}

	r := co.CalculateCollisions()
	assert.Len(t, r.Blocked, 9)
	assert.Equal(t, 7, r.CascadePasses)
	assert.LessOrEqual(t, r.CascadePasses, co.Len())
}

func TestStepSimulation_AllAtGoal(t *testing.T) {
	co := newCoordinator(t, 4, 4)
	res := co.StepSimulation()
	assert.False(t, res.Continue, "no agents, no work")

	mustAdd(t, co, c(0, 0), c(0, 0))
	res = co.StepSimulation()
	assert.False(t, res.Continue)
	assert.Empty(t, res.Moved)
}
