package dynamo

import "math"

// CheckAdjacency verifies that a generated adjacency matrix is n×n with a
// zero diagonal and finite entries in [0,1].
func CheckAdjacency(generator string, a Matrix, n int) error {
	if a.Size() != n || len(a.data) != n*n {
		return &ContractError{Generator: generator, Row: -1, Col: -1, Reason: "matrix is not n×n"}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := a.At(i, j)
			switch {
			case math.IsNaN(v) || math.IsInf(v, 0):
				return &ContractError{Generator: generator, Row: i, Col: j, Value: v, Reason: "is not finite"}
			case i == j && v != 0:
				return &ContractError{Generator: generator, Row: i, Col: j, Value: v, Reason: "is a self-loop"}
			case v < 0 || v > 1:
				return &ContractError{Generator: generator, Row: i, Col: j, Value: v, Reason: "is outside [0,1]"}
			}
		}
	}
	return nil
}

// ClampAttitude truncates x into [-AttitudeBound, AttitudeBound]. NaN maps
// to 0.
func ClampAttitude(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Max(-AttitudeBound, math.Min(AttitudeBound, x))
}

func clampUnit(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
