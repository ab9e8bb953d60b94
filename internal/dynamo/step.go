package dynamo

import "math"

// Step advances the model by one timestep and returns the new State. The
// input State is not modified.
//
// With Θ[i,j] = θi - θj and T the interaction matrix:
//
//	A'[i,j] = clip01(T[i,j]·sin Θ[i,j])              (Assign)
//	A'[i,j] = clip01(A[i,j] + T[i,j]·sin Θ[i,j])     (Increment)
//	θ'[i]   = clip(θi + β·Σ_j T[i,j]·A[i,j]^α·sin Θ[i,j])
//
// The attitude sum uses the pre-step A. A pair with A[i,j] = 0 contributes
// nothing when α < 0, and A^α is capped at math.MaxFloat64 so tiny weights
// under a negative α cannot turn the sum into NaN.
func Step(s State, t Interactions, p Params) State {
	n := s.Nodes()
	a := s.Adjacency
	theta := s.Attitudes

	next := State{
		Adjacency: NewMatrix(n),
		Attitudes: make(Vector, n),
	}
	increment := p.Weights == Increment

	ParallelFor(n, parallelRows, func(start, end int) {
		for i := start; i < end; i++ {
			drift := 0.0
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				w := a.At(i, j)
				if !t.At(i, j) {
					if increment {
						next.Adjacency.Set(i, j, clampUnit(w))
					}
					continue
				}

				sn := math.Sin(theta[i] - theta[j])
				if increment {
					next.Adjacency.Set(i, j, clampUnit(w+sn))
				} else {
					next.Adjacency.Set(i, j, clampUnit(sn))
				}
				if sn != 0 {
					drift += reinforcement(w, p.Alpha) * sn
				}
			}
			delta := p.Beta * drift
			if math.IsNaN(delta) {
				delta = 0
			}
			next.Attitudes[i] = ClampAttitude(theta[i] + delta)
		}
	})

	return next
}

// reinforcement returns w^alpha with the zero-base policy applied.
func reinforcement(w, alpha float64) float64 {
	if w == 0 && alpha < 0 {
		return 0
	}
	switch alpha {
	case 1:
		return w
	case 0:
		return 1
	}
	return math.Min(math.Pow(w, alpha), math.MaxFloat64)
}
