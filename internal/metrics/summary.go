package metrics

import (
	"math"
	"sort"

	"github.com/san-kum/netechos/internal/dynamo"
)

// Summary is one row of the per-step summary table.
type Summary struct {
	Step             int     `json:"step"`
	AttitudeMean     float64 `json:"attitude_mean"`
	AttitudeSD       float64 `json:"attitude_sd"`
	AttitudeMedian   float64 `json:"attitude_median"`
	ConnectionMean   float64 `json:"connection_mean"`
	ConnectionSD     float64 `json:"connection_sd"`
	ConnectionMedian float64 `json:"connection_median"`
	Polarization     float64 `json:"polarization"`
	Spread           float64 `json:"spread"`
	Interactions     int     `json:"interactions"`
}

// Summarize computes the summary row for a state. Attitude statistics are
// taken over sin(θ) so they live in [-1,1]; connection statistics cover the
// off-diagonal entries only.
func Summarize(step int, s dynamo.State, interactions int) Summary {
	n := s.Nodes()
	sines := make([]float64, n)
	for i, theta := range s.Attitudes {
		sines[i] = math.Sin(theta)
	}

	weights := make([]float64, 0, n*(n-1))
	for i := 0; i < n; i++ {
		for j, w := range s.Adjacency.Row(i) {
			if i != j {
				weights = append(weights, w)
			}
		}
	}

	am, asd := meanSD(sines)
	cm, csd := meanSD(weights)

	return Summary{
		Step:             step,
		AttitudeMean:     am,
		AttitudeSD:       asd,
		AttitudeMedian:   median(sines),
		ConnectionMean:   cm,
		ConnectionSD:     csd,
		ConnectionMedian: median(weights),
		Polarization:     Polarization(s.Attitudes),
		Spread:           s.Attitudes.MaxSpread(),
		Interactions:     interactions,
	}
}

// Polarization is the mean absolute attitude difference over unordered pairs.
func Polarization(theta dynamo.Vector) float64 {
	n := len(theta)
	if n < 2 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sum += math.Abs(theta[i] - theta[j])
		}
	}
	return sum / float64(n*(n-1)/2)
}

// meanSD returns the mean and population standard deviation.
func meanSD(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	variance := 0.0
	for _, x := range xs {
		variance += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(variance / float64(len(xs)))
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
