package dstarlite

import (
	"fmt"
	"math"
)

// Name is the registry name of this planner.
const Name = "dstar_lite"

// DefaultIterationFactor bounds a search to W·H·DefaultIterationFactor pops.
const DefaultIterationFactor = 100

var inf = math.Inf(1)

// Key orders cells in the open queue.
type Key struct {
	K1, K2 float64
}

// Less compares keys lexicographically.
func (k Key) Less(o Key) bool {
	if k.K1 != o.K1 {
		return k.K1 < o.K1
	}
	return k.K2 < o.K2
}

// String renders the key as "[k1, k2]".
func (k Key) String() string {
	return fmt.Sprintf("[%g, %g]", k.K1, k.K2)
}

// Option configures a Planner.
type Option func(*Options)

// Options holds planner tunables.
type Options struct {
	// IterationFactor multiplies W·H to give the per-search pop budget.
	IterationFactor int
}

// DefaultOptions returns Options{IterationFactor: DefaultIterationFactor}.
func DefaultOptions() Options {
	return Options{IterationFactor: DefaultIterationFactor}
}

// WithIterationFactor sets the pop budget multiplier.
// Panics if factor <= 0.
func WithIterationFactor(factor int) Option {
	if factor <= 0 {
		panic(fmt.Sprintf("dstarlite: WithIterationFactor(%d): factor must be positive", factor))
	}
	return func(o *Options) {
		o.IterationFactor = factor
	}
}

// Stats describes the work done by the planner.
type Stats struct {
	// Pops counts queue entries processed by the last ComputeShortestPath.
	Pops int
	// Expansions counts cells whose g changed in the last ComputeShortestPath.
	Expansions int
	// TotalPops accumulates Pops since Initialize.
	TotalPops int
}
