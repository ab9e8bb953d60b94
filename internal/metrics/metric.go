package metrics

import (
	"math"

	"github.com/san-kum/netechos/internal/dynamo"
)

// Metric accumulates a scalar over the snapshots of a run.
type Metric interface {
	Name() string
	Observe(step int, s dynamo.State)
	Value() float64
	Reset()
}

// FinalPolarization reports the polarization of the last observed snapshot.
type FinalPolarization struct {
	last float64
}

func NewFinalPolarization() *FinalPolarization { return &FinalPolarization{} }

func (p *FinalPolarization) Name() string { return "polarization" }

func (p *FinalPolarization) Observe(_ int, s dynamo.State) {
	p.last = Polarization(s.Attitudes)
}

func (p *FinalPolarization) Value() float64 { return p.last }

func (p *FinalPolarization) Reset() { p.last = 0 }

// MeanConnection is the time average of the mean off-diagonal weight.
type MeanConnection struct {
	sum     float64
	samples int
}

func NewMeanConnection() *MeanConnection { return &MeanConnection{} }

func (c *MeanConnection) Name() string { return "connection" }

func (c *MeanConnection) Observe(_ int, s dynamo.State) {
	n := s.Nodes()
	if n < 2 {
		return
	}
	total := 0.0
	for _, w := range s.Adjacency.Values() {
		total += w
	}
	c.sum += total / float64(n*(n-1))
	c.samples++
}

func (c *MeanConnection) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *MeanConnection) Reset() {
	c.sum = 0
	c.samples = 0
}

// MinSpread tracks the smallest attitude spread reached during a run; a value
// near zero means the network synchronized at some point.
type MinSpread struct {
	min float64
	set bool
}

func NewMinSpread() *MinSpread { return &MinSpread{} }

func (m *MinSpread) Name() string { return "min_spread" }

func (m *MinSpread) Observe(_ int, s dynamo.State) {
	spread := s.Attitudes.MaxSpread()
	if !m.set {
		m.min, m.set = spread, true
		return
	}
	m.min = math.Min(m.min, spread)
}

func (m *MinSpread) Value() float64 { return m.min }

func (m *MinSpread) Reset() {
	m.min = 0
	m.set = false
}

// Defaults returns a fresh instance of every built-in metric.
func Defaults() []Metric {
	return []Metric{NewFinalPolarization(), NewMeanConnection(), NewMinSpread()}
}
