package sim

import (
	"fmt"

	"github.com/san-kum/netechos/internal/dynamo"
)

// StopCondition ends a run early once the dynamics reach a target regime.
// Done is evaluated after every step with the pre- and post-step states.
type StopCondition interface {
	Name() string
	Reset()
	Done(step int, prev, next dynamo.State) bool
}

type synchronized struct {
	eps float64
}

// Synchronized fires when every pairwise attitude difference is below eps.
func Synchronized(eps float64) StopCondition {
	return &synchronized{eps: eps}
}

func (s *synchronized) Name() string { return fmt.Sprintf("synchronized(eps=%g)", s.eps) }

func (s *synchronized) Reset() {}

func (s *synchronized) Done(_ int, _, next dynamo.State) bool {
	return next.Attitudes.MaxSpread() < s.eps
}

type adjacencyConverged struct {
	tol    float64
	window int
	streak int
}

// AdjacencyConverged fires when the Frobenius norm of the per-step change in
// adjacency stays below tol for window consecutive steps.
func AdjacencyConverged(tol float64, window int) StopCondition {
	return &adjacencyConverged{tol: tol, window: window}
}

func (c *adjacencyConverged) Name() string {
	return fmt.Sprintf("adjacency_converged(tol=%g,window=%d)", c.tol, c.window)
}

func (c *adjacencyConverged) Reset() { c.streak = 0 }

func (c *adjacencyConverged) Done(_ int, prev, next dynamo.State) bool {
	if next.Adjacency.FrobeniusDistance(prev.Adjacency) < c.tol {
		c.streak++
	} else {
		c.streak = 0
	}
	return c.streak >= c.window
}

// conditions builds the stop conditions enabled by spec.
func (spec StopSpec) conditions() []StopCondition {
	var out []StopCondition
	if spec.SyncEpsilon > 0 {
		out = append(out, Synchronized(spec.SyncEpsilon))
	}
	if spec.ConvergeTolerance > 0 {
		out = append(out, AdjacencyConverged(spec.ConvergeTolerance, spec.ConvergeWindow))
	}
	return out
}
