package dynamo

import (
	"fmt"
	"math"
)

// AttitudeBound is the magnitude limit of every attitude.
const AttitudeBound = math.Pi / 2

// Matrix is a dense square matrix stored row-major.
type Matrix struct {
	n    int
	data []float64
}

func NewMatrix(n int) Matrix {
	return Matrix{n: n, data: make([]float64, n*n)}
}

// MatrixFromRows copies rows into a Matrix. All rows must have len(rows) entries.
func MatrixFromRows(rows [][]float64) (Matrix, error) {
	n := len(rows)
	m := NewMatrix(n)
	for i, row := range rows {
		if len(row) != n {
			return Matrix{}, fmt.Errorf("row %d has %d entries, want %d: %w", i, len(row), n, ErrDimensionMismatch)
		}
		copy(m.data[i*n:(i+1)*n], row)
	}
	return m, nil
}

// Filled returns an n×n matrix with v off the diagonal and 0 on it.
func Filled(n int, v float64) Matrix {
	m := NewMatrix(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				m.data[i*n+j] = v
			}
		}
	}
	return m
}

func (m Matrix) Size() int { return m.n }

func (m Matrix) At(i, j int) float64 { return m.data[i*m.n+j] }

func (m Matrix) Set(i, j int, v float64) { m.data[i*m.n+j] = v }

func (m Matrix) Row(i int) []float64 { return m.data[i*m.n : (i+1)*m.n] }

func (m Matrix) Clone() Matrix {
	c := Matrix{n: m.n, data: make([]float64, len(m.data))}
	copy(c.data, m.data)
	return c
}

// Rows returns a copy of the matrix as nested slices.
func (m Matrix) Rows() [][]float64 {
	rows := make([][]float64, m.n)
	for i := range rows {
		rows[i] = make([]float64, m.n)
		copy(rows[i], m.Row(i))
	}
	return rows
}

func (m Matrix) IsSymmetric() bool {
	for i := 0; i < m.n; i++ {
		for j := i + 1; j < m.n; j++ {
			if m.At(i, j) != m.At(j, i) {
				return false
			}
		}
	}
	return true
}

// FrobeniusDistance returns ||m - other||_F. Sizes must match.
func (m Matrix) FrobeniusDistance(other Matrix) float64 {
	sum := 0.0
	for k, v := range m.data {
		d := v - other.data[k]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func (m Matrix) Values() []float64 { return m.data }

// Vector holds one value per node.
type Vector []float64

func (v Vector) Clone() Vector {
	c := make(Vector, len(v))
	copy(c, v)
	return c
}

func (v Vector) IsValid() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// MaxSpread returns max(v) - min(v), the largest pairwise difference.
func (v Vector) MaxSpread() float64 {
	if len(v) == 0 {
		return 0
	}
	lo, hi := v[0], v[0]
	for _, x := range v[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return hi - lo
}

// State is the network at one timestep.
type State struct {
	Adjacency Matrix
	Attitudes Vector
}

func (s State) Clone() State {
	return State{Adjacency: s.Adjacency.Clone(), Attitudes: s.Attitudes.Clone()}
}

func (s State) Nodes() int { return len(s.Attitudes) }

// InteractionMode selects how the per-step random draws are laid out.
type InteractionMode string

const (
	// Auto resolves to Mutual for a symmetric initial adjacency, Directed otherwise.
	Auto InteractionMode = "auto"
	// Mutual draws one uniform per unordered pair and reuses it for (i,j) and (j,i).
	Mutual InteractionMode = "mutual"
	// Directed draws one uniform per ordered pair.
	Directed InteractionMode = "directed"
)

func ParseInteractionMode(s string) (InteractionMode, error) {
	switch m := InteractionMode(s); m {
	case Auto, Mutual, Directed:
		return m, nil
	case "":
		return Auto, nil
	}
	return "", &ParameterError{Field: "interaction", Value: s, Reason: "must be one of auto, mutual, directed"}
}

// Resolve turns Auto into a concrete mode for the given initial adjacency.
func (m InteractionMode) Resolve(a Matrix) InteractionMode {
	if m != Auto {
		return m
	}
	if a.IsSymmetric() {
		return Mutual
	}
	return Directed
}

// WeightRule selects how interacting pairs update their connection.
type WeightRule string

const (
	// Assign sets A'[i,j] = T[i,j]·sin(θi-θj), clipped to [0,1].
	Assign WeightRule = "assign"
	// Increment sets A'[i,j] = A[i,j] + T[i,j]·sin(θi-θj), clipped to [0,1].
	Increment WeightRule = "increment"
)

func ParseWeightRule(s string) (WeightRule, error) {
	switch r := WeightRule(s); r {
	case Assign, Increment:
		return r, nil
	case "":
		return Assign, nil
	}
	return "", &ParameterError{Field: "weight_rule", Value: s, Reason: "must be one of assign, increment"}
}

// Params are the dynamics coefficients of a run.
type Params struct {
	// Alpha is the exponent applied to connection strength in the attitude update.
	Alpha float64
	// Beta scales attitude change; positive polarizes, negative synchronizes.
	Beta    float64
	Weights WeightRule
}

func (p Params) Validate() error {
	if math.IsNaN(p.Alpha) || math.IsInf(p.Alpha, 0) {
		return &ParameterError{Field: "alpha", Value: p.Alpha, Reason: "must be finite"}
	}
	if math.IsNaN(p.Beta) || math.IsInf(p.Beta, 0) {
		return &ParameterError{Field: "beta", Value: p.Beta, Reason: "must be finite"}
	}
	if _, err := ParseWeightRule(string(p.Weights)); err != nil {
		return err
	}
	return nil
}

// Source is the random generator consumed by the model. *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
	NormFloat64() float64
}
