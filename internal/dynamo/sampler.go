package dynamo

// Interactions is the binary matrix of which ordered pairs interact during
// one step. The diagonal is always false.
type Interactions struct {
	n  int
	on []bool
}

func NewInteractions(n int) Interactions {
	return Interactions{n: n, on: make([]bool, n*n)}
}

func (t Interactions) Size() int { return t.n }

func (t Interactions) At(i, j int) bool { return t.on[i*t.n+j] }

// Set marks (i,j). Requests for the diagonal are ignored.
func (t Interactions) Set(i, j int, v bool) {
	if i == j {
		return
	}
	t.on[i*t.n+j] = v
}

// Count returns the number of interacting ordered pairs.
func (t Interactions) Count() int {
	c := 0
	for _, v := range t.on {
		if v {
			c++
		}
	}
	return c
}

func (t Interactions) IsSymmetric() bool {
	for i := 0; i < t.n; i++ {
		for j := i + 1; j < t.n; j++ {
			if t.At(i, j) != t.At(j, i) {
				return false
			}
		}
	}
	return true
}

// SampleInteractions draws the interaction matrix for one step. Pair (i,j)
// interacts iff a uniform draw falls strictly below A[i,j], so an edge weight
// is the per-step interaction probability.
//
// Directed consumes n² draws in row-major order (diagonal draws are
// discarded). Mutual consumes one draw per unordered pair i<j and compares it
// against both A[i,j] and A[j,i]. Auto is treated as Directed; resolve it
// first with [InteractionMode.Resolve].
func SampleInteractions(a Matrix, mode InteractionMode, src Source) Interactions {
	n := a.Size()
	t := NewInteractions(n)

	if mode == Mutual {
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				u := src.Float64()
				t.on[i*n+j] = u < a.At(i, j)
				t.on[j*n+i] = u < a.At(j, i)
			}
		}
		return t
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			u := src.Float64()
			if i != j {
				t.on[i*n+j] = u < a.At(i, j)
			}
		}
	}
	return t
}
