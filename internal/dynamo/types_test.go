package dynamo

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"
)

func TestCheckAdjacency(t *testing.T) {
	selfLoop := Filled(3, 0.5)
	selfLoop.Set(1, 1, 0.5)
	tooBig := Filled(3, 0.5)
	tooBig.Set(0, 2, 1.5)
	negative := Filled(3, 0.5)
	negative.Set(2, 0, -0.1)
	nan := Filled(3, 0.5)
	nan.Set(1, 2, math.NaN())

	tests := []struct {
		name string
		a    Matrix
		n    int
		ok   bool
	}{
		{"valid", Filled(3, 0.5), 3, true},
		{"empty graph", NewMatrix(3), 3, true},
		{"wrong size", Filled(2, 0.5), 3, false},
		{"self loop", selfLoop, 3, false},
		{"above one", tooBig, 3, false},
		{"negative", negative, 3, false},
		{"NaN", nan, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckAdjacency("test", tt.a, tt.n)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok {
				if !errors.Is(err, ErrGeneratorContract) {
					t.Fatalf("expected ErrGeneratorContract, got %v", err)
				}
				var ce *ContractError
				if !errors.As(err, &ce) || ce.Generator != "test" {
					t.Errorf("expected *ContractError naming the generator, got %#v", err)
				}
			}
		})
	}
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		ok   bool
	}{
		{"defaults", Params{Alpha: -1, Beta: 1e-3}, true},
		{"increment", Params{Alpha: 1, Beta: 1, Weights: Increment}, true},
		{"NaN alpha", Params{Alpha: math.NaN()}, false},
		{"Inf beta", Params{Beta: math.Inf(-1)}, false},
		{"bad rule", Params{Weights: "replace"}, false},
	}

	for _, tt := range tests {
		err := tt.p.Validate()
		if tt.ok != (err == nil) {
			t.Errorf("%s: Validate() = %v", tt.name, err)
		}
		if err != nil && !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("%s: expected ErrInvalidParameter, got %v", tt.name, err)
		}
	}
}

func TestMatrixFromRows(t *testing.T) {
	m, err := MatrixFromRows([][]float64{{0, 1}, {0.5, 0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.At(1, 0) != 0.5 || m.Size() != 2 {
		t.Errorf("unexpected matrix: %v", m.Rows())
	}
	if m.IsSymmetric() {
		t.Error("matrix should not be symmetric")
	}

	if _, err := MatrixFromRows([][]float64{{0, 1}, {0}}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestVector_MaxSpread(t *testing.T) {
	tests := []struct {
		v    Vector
		want float64
	}{
		{Vector{}, 0},
		{Vector{0.3}, 0},
		{Vector{-0.5, 0.2, 0.1}, 0.7},
	}

	for _, tt := range tests {
		if got := tt.v.MaxSpread(); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("MaxSpread(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestClampAttitude(t *testing.T) {
	if ClampAttitude(3) != AttitudeBound || ClampAttitude(-3) != -AttitudeBound || ClampAttitude(0.2) != 0.2 {
		t.Error("ClampAttitude did not truncate to the attitude domain")
	}
	if got := ClampAttitude(math.NaN()); got != 0 {
		t.Errorf("ClampAttitude(NaN) = %v, want 0", got)
	}
}

func TestParallelFor_CoversRange(t *testing.T) {
	for _, n := range []int{0, 1, 7, 1000} {
		seen := make([]int32, n)
		ParallelFor(n, 10, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&seen[i], 1)
			}
		})
		for i, c := range seen {
			if c != 1 {
				t.Fatalf("n=%d: index %d visited %d times", n, i, c)
			}
		}
	}
}

func TestParseModes(t *testing.T) {
	if m, err := ParseInteractionMode(""); err != nil || m != Auto {
		t.Errorf("empty interaction mode should default to auto, got %q, %v", m, err)
	}
	if _, err := ParseInteractionMode("both"); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
	if r, err := ParseWeightRule(""); err != nil || r != Assign {
		t.Errorf("empty weight rule should default to assign, got %q, %v", r, err)
	}
}
