package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/netechos/internal/dynamo"
)

func TestSummarize(t *testing.T) {
	a, _ := dynamo.MatrixFromRows([][]float64{
		{0, 1, 0},
		{1, 0, 0.5},
		{0, 0.5, 0},
	})
	s := dynamo.State{Adjacency: a, Attitudes: dynamo.Vector{0, math.Pi / 6, -math.Pi / 6}}

	sum := Summarize(4, s, 2)

	if sum.Step != 4 || sum.Interactions != 2 {
		t.Errorf("unexpected step/interactions: %+v", sum)
	}
	if math.Abs(sum.AttitudeMean) > 1e-12 {
		t.Errorf("attitude mean = %v, want 0", sum.AttitudeMean)
	}
	if want := math.Sqrt(0.5 * 0.5 * 2 / 3); math.Abs(sum.AttitudeSD-want) > 1e-12 {
		t.Errorf("attitude sd = %v, want %v", sum.AttitudeSD, want)
	}
	if want := 3.0 / 6.0; math.Abs(sum.ConnectionMean-want) > 1e-12 {
		t.Errorf("connection mean = %v, want %v", sum.ConnectionMean, want)
	}
	if sum.ConnectionMedian != 0.5 {
		t.Errorf("connection median = %v, want 0.5", sum.ConnectionMedian)
	}
	if want := math.Pi / 3; math.Abs(sum.Spread-want) > 1e-12 {
		t.Errorf("spread = %v, want %v", sum.Spread, want)
	}
}

func TestPolarization(t *testing.T) {
	tests := []struct {
		theta dynamo.Vector
		want  float64
	}{
		{dynamo.Vector{}, 0},
		{dynamo.Vector{0.4}, 0},
		{dynamo.Vector{0.1, 0.1, 0.1}, 0},
		{dynamo.Vector{-1, 1}, 2},
		{dynamo.Vector{0, 1, 2}, 4.0 / 3.0},
	}

	for _, tt := range tests {
		if got := Polarization(tt.theta); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Polarization(%v) = %v, want %v", tt.theta, got, tt.want)
		}
	}
}

func TestMetricsReset(t *testing.T) {
	s := dynamo.State{Adjacency: dynamo.Filled(3, 0.5), Attitudes: dynamo.Vector{-0.5, 0, 0.5}}

	for _, m := range Defaults() {
		m.Observe(0, s)
		if m.Value() == 0 {
			t.Errorf("%s: expected non-zero value after observe", m.Name())
		}
		m.Reset()
		if m.Value() != 0 {
			t.Errorf("%s: expected zero after reset, got %v", m.Name(), m.Value())
		}
	}
}

func TestMinSpread(t *testing.T) {
	m := NewMinSpread()
	for step, theta := range []dynamo.Vector{{0, 1}, {0, 0.2}, {0, 0.6}} {
		m.Observe(step, dynamo.State{Adjacency: dynamo.NewMatrix(2), Attitudes: theta})
	}
	if math.Abs(m.Value()-0.2) > 1e-12 {
		t.Errorf("min spread = %v, want 0.2", m.Value())
	}
}
