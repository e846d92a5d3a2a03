package coordinator

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/gridfleet/grid"
	"github.com/katalvlaran/gridfleet/planner"
)

// agent is the coordinator's mutable record for one agent.
type agent struct {
	id          AgentID
	pos, goal   grid.Cell
	planner     planner.Planner
	path        []grid.Cell
	stuck       bool
	blocked     bool
	blockReason CollisionType
	failure     string
}

func (a *agent) atGoal() bool { return a.pos == a.goal }

// next is the cell the agent proposes for the coming tick: the second path
// cell, or its own cell when it has nowhere to go.
func (a *agent) next() grid.Cell {
	if len(a.path) > 1 {
		return a.path[1]
	}
	return a.pos
}

func (a *agent) snapshot() Agent {
	path := make([]grid.Cell, len(a.path))
	copy(path, a.path)
	return Agent{
		ID:          a.id,
		Position:    a.pos,
		Goal:        a.goal,
		Path:        path,
		Planner:     a.planner.Name(),
		Stuck:       a.stuck,
		Blocked:     a.blocked,
		BlockReason: a.blockReason,
		Failure:     a.failure,
	}
}

// Coordinator owns the grid, the agents and their planners, and advances the
// simulation one tick at a time. It is not safe for concurrent use.
type Coordinator struct {
	grid   *grid.Grid
	agents []*agent // indexed by AgentID; nil marks a free slot
	ids    *idPool
	count  int
	steps  int
	last   Report
	opts   Options
	log    logrus.FieldLogger
}

// New creates an empty world of the given size.
func New(width, height int, opts ...Option) (*Coordinator, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if _, ok := cfg.Planners[cfg.DefaultPlanner]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlanner, cfg.DefaultPlanner)
	}
	g, err := grid.New(width, height)
	if err != nil {
		return nil, err
	}
	return &Coordinator{
		grid:   g,
		agents: make([]*agent, cfg.MaxAgents),
		ids:    newIDPool(cfg.MaxAgents),
		opts:   cfg,
		log:    cfg.Logger,
	}, nil
}

// each visits live agents in ascending id order.
func (c *Coordinator) each(fn func(a *agent)) {
	for _, a := range c.agents {
		if a != nil {
			fn(a)
		}
	}
}

func (c *Coordinator) lookup(id AgentID) (*agent, error) {
	if id < 0 || int(id) >= len(c.agents) || c.agents[id] == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAgent, id)
	}
	return c.agents[id], nil
}

// AddAgent places a new agent at start heading for goal and plans its path.
//
// Rejected when all slots are in use or no free cell is left, when start or
// goal is out of bounds or on an obstacle, when start is another agent's
// position or goal, or when goal is another agent's goal.
func (c *Coordinator) AddAgent(start, goal grid.Cell) (AgentID, error) {
	if c.ids.available() == 0 || c.count >= c.grid.FreeCells() {
		return 0, ErrCapacity
	}
	if !c.grid.InBounds(start) || !c.grid.InBounds(goal) {
		return 0, fmt.Errorf("%w: %v -> %v", ErrOutOfBounds, start, goal)
	}
	if c.grid.IsObstacle(start) || c.grid.IsObstacle(goal) {
		return 0, fmt.Errorf("%w: %v -> %v", ErrObstacle, start, goal)
	}
	var err error
	c.each(func(a *agent) {
		switch {
		case err != nil:
		case start == a.pos || start == a.goal:
			err = fmt.Errorf("%w: start %v (%s)", ErrCellTaken, start, a.id)
		case goal == a.goal:
			err = fmt.Errorf("%w: goal %v (%s)", ErrGoalTaken, goal, a.id)
		}
	})
	if err != nil {
		return 0, err
	}

	id, _ := c.ids.acquire()
	a := &agent{
		id:      id,
		pos:     start,
		goal:    goal,
		planner: c.opts.Planners[c.opts.DefaultPlanner](c.grid),
	}
	a.planner.Initialize(start, goal)
	c.agents[id] = a
	c.count++
	c.grid.SetOccupant(int(id), start)

	c.replan(a)
	c.refreshStuck()
	c.log.WithFields(logrus.Fields{
		"agent": id.String(),
		"start": start.String(),
		"goal":  goal.String(),
		"path":  len(a.path),
	}).Info("agent added")
	return id, nil
}

// RemoveAgent deletes the agent and returns its id to the pool.
func (c *Coordinator) RemoveAgent(id AgentID) error {
	if _, err := c.lookup(id); err != nil {
		return err
	}
	c.agents[id] = nil
	c.count--
	c.ids.release(id)
	c.grid.RemoveOccupant(int(id))
	c.last = Report{}
	c.log.WithField("agent", id.String()).Info("agent removed")
	return nil
}

// ClearAllAgents removes every agent and refills the id pool.
func (c *Coordinator) ClearAllAgents() {
	for i := range c.agents {
		c.agents[i] = nil
	}
	c.count = 0
	c.ids.reset()
	c.grid.ClearOccupants()
	c.last = Report{}
}

// ResizeWorld starts over on a width×height grid (each clamped to
// [grid.MinSize, grid.MaxSize]) with no obstacles and a single agent at the
// top-left corner heading for the bottom-right corner. It returns the
// effective size.
func (c *Coordinator) ResizeWorld(width, height int) (int, int) {
	c.ClearAllAgents()
	c.grid.ClearObstacles()
	w, h := c.grid.Resize(width, height)
	c.steps = 0
	if _, err := c.AddAgent(grid.Cell{}, grid.Cell{X: w - 1, Y: h - 1}); err != nil {
		c.log.WithError(err).Error("default agent rejected after resize")
	}
	c.log.WithFields(logrus.Fields{"width": w, "height": h}).Info("world resized")
	return w, h
}

// ResetToDefault is ResizeWorld(grid.DefaultSize, grid.DefaultSize).
func (c *Coordinator) ResetToDefault() {
	c.ResizeWorld(grid.DefaultSize, grid.DefaultSize)
}

// SetGoal retargets an agent. Its own current goal and any agent's position
// are acceptable; an obstacle or another agent's goal is not. The agent's
// planner is reinitialised, its blocked flag cleared, and every path replanned.
func (c *Coordinator) SetGoal(id AgentID, goal grid.Cell) error {
	a, err := c.lookup(id)
	if err != nil {
		return err
	}
	if !c.grid.InBounds(goal) {
		return fmt.Errorf("%w: %v", ErrOutOfBounds, goal)
	}
	if c.grid.IsObstacle(goal) {
		return fmt.Errorf("%w: %v", ErrObstacle, goal)
	}
	for _, o := range c.agents {
		if o != nil && o != a && o.goal == goal {
			return fmt.Errorf("%w: %v (%s)", ErrGoalTaken, goal, o.id)
		}
	}

	a.goal = goal
	a.blocked, a.blockReason = false, ""
	a.planner.Initialize(a.pos, goal)
	c.log.WithFields(logrus.Fields{"agent": id.String(), "goal": goal.String()}).Info("goal set")
	c.RecomputePaths()
	return nil
}

// ChangePlanner swaps the agent's planner for a fresh one from the registry.
func (c *Coordinator) ChangePlanner(id AgentID, name string) error {
	a, err := c.lookup(id)
	if err != nil {
		return err
	}
	factory, ok := c.opts.Planners[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPlanner, name)
	}
	a.planner = factory(c.grid)
	a.planner.Initialize(a.pos, a.goal)
	c.replan(a)
	c.refreshStuck()
	c.log.WithFields(logrus.Fields{"agent": id.String(), "planner": name}).Info("planner changed")
	return nil
}

// SetObstacle places or removes an obstacle. Placement on any agent's
// position or goal is rejected. Changed edges are pushed to every planner and
// all paths are replanned. Requesting the current state is a no-op.
func (c *Coordinator) SetObstacle(cell grid.Cell, present bool) error {
	if !c.grid.InBounds(cell) {
		return fmt.Errorf("%w: %v", ErrOutOfBounds, cell)
	}
	if c.grid.IsObstacle(cell) == present {
		return nil
	}
	if present {
		var err error
		c.each(func(a *agent) {
			if err == nil && (a.pos == cell || a.goal == cell) {
				err = fmt.Errorf("%w: %v (%s)", ErrCellReserved, cell, a.id)
			}
		})
		if err != nil {
			return err
		}
	}

	c.broadcast(c.grid.SetObstacle(cell, present))
	c.log.WithFields(logrus.Fields{"cell": cell.String(), "present": present}).Debug("obstacle changed")
	c.RecomputePaths()
	return nil
}

// OnObstacleChanged toggles the obstacle at cell under SetObstacle's rules.
func (c *Coordinator) OnObstacleChanged(cell grid.Cell) error {
	return c.SetObstacle(cell, !c.grid.IsObstacle(cell))
}

// ClearObstacles removes every obstacle and replans.
func (c *Coordinator) ClearObstacles() {
	edges := c.grid.ClearObstacles()
	if len(edges) == 0 {
		return
	}
	c.broadcast(edges)
	c.RecomputePaths()
}

// broadcast forwards changed edges to every planner.
func (c *Coordinator) broadcast(edges []grid.Edge) {
	c.each(func(a *agent) {
		a.planner.UpdateEdgeCosts(edges)
	})
}

// RecomputePaths replans every agent and refreshes stuck flags.
func (c *Coordinator) RecomputePaths() {
	c.each(c.replan)
	c.refreshStuck()
}

// replan brings one agent's path up to date. Recoverable failures get one
// retry from a fresh Initialize; anything still failing leaves the agent
// without a path.
func (c *Coordinator) replan(a *agent) {
	err := c.plan(a)
	if err == nil {
		return
	}
	entry := c.log.WithFields(logrus.Fields{"agent": a.id.String(), "reason": planner.Reason(err)})
	if !planner.Recoverable(err) {
		entry.WithError(err).Error("planner state corrupted")
		a.path, a.failure = nil, planner.Reason(err)
		return
	}

	entry.Debug("replanning from scratch")
	a.planner.Initialize(a.pos, a.goal)
	if err = c.plan(a); err != nil {
		entry.WithError(err).Warn("no path after reinitialize")
		a.path, a.failure = nil, planner.Reason(err)
	}
}

func (c *Coordinator) plan(a *agent) error {
	if err := a.planner.ComputeShortestPath(); err != nil {
		return err
	}
	path := a.planner.Path()
	if len(path) == 0 {
		return planner.ErrPathExtractionFailed
	}
	a.path, a.failure = path, ""
	return nil
}

// refreshStuck marks agents that are off their goal with nowhere to step.
func (c *Coordinator) refreshStuck() {
	c.each(func(a *agent) {
		a.stuck = !a.atGoal() && len(a.path) < 2
	})
}

// Agent returns a snapshot of one agent.
func (c *Coordinator) Agent(id AgentID) (Agent, bool) {
	a, err := c.lookup(id)
	if err != nil {
		return Agent{}, false
	}
	return a.snapshot(), true
}

// Agents returns snapshots of every agent in ascending id order.
func (c *Coordinator) Agents() []Agent {
	out := make([]Agent, 0, c.count)
	c.each(func(a *agent) {
		out = append(out, a.snapshot())
	})
	return out
}

// AgentAt returns the agent standing on cell.
func (c *Coordinator) AgentAt(cell grid.Cell) (AgentID, bool) {
	for _, a := range c.agents {
		if a != nil && a.pos == cell {
			return a.id, true
		}
	}
	return 0, false
}

// StuckAgents lists stuck agents in ascending order.
func (c *Coordinator) StuckAgents() []AgentID {
	var out []AgentID
	c.each(func(a *agent) {
		if a.stuck {
			out = append(out, a.id)
		}
	})
	return out
}

// BlockedAgents lists agents blocked by the most recent tick.
func (c *Coordinator) BlockedAgents() []AgentID {
	var out []AgentID
	c.each(func(a *agent) {
		if a.blocked {
			out = append(out, a.id)
		}
	})
	return out
}

// LastReport returns the collision report of the most recent tick.
func (c *Coordinator) LastReport() Report { return c.last }

// Steps counts ticks since creation or the last resize.
func (c *Coordinator) Steps() int { return c.steps }

// Len counts live agents.
func (c *Coordinator) Len() int { return c.count }

// MaxAgents is the number of agent slots.
func (c *Coordinator) MaxAgents() int { return len(c.agents) }

// Width returns the grid width.
func (c *Coordinator) Width() int { return c.grid.Width() }

// Height returns the grid height.
func (c *Coordinator) Height() int { return c.grid.Height() }

// IsObstacle reports whether cell holds an obstacle.
func (c *Coordinator) IsObstacle(cell grid.Cell) bool { return c.grid.IsObstacle(cell) }

// Obstacles lists obstacle cells in row-major order.
func (c *Coordinator) Obstacles() []grid.Cell { return c.grid.Obstacles() }

// Planners lists registered planner names, sorted.
func (c *Coordinator) Planners() []string {
	names := make([]string, 0, len(c.opts.Planners))
	for name := range c.opts.Planners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String draws the grid with agents as digits (id mod 10) over '#'/'.'.
func (c *Coordinator) String() string {
	rows := []byte(c.grid.String())
	c.each(func(a *agent) {
		rows[a.pos.Y*(c.grid.Width()+1)+a.pos.X] = byte('0' + int(a.id)%10)
	})
	return string(rows)
}
