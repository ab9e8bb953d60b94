package sim

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/san-kum/netechos/internal/dynamo"
	"github.com/san-kum/netechos/internal/topology"
)

// NewSource returns the run's generator. Every run owns its own instance.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

type sampler func(spec AttitudeSpec, src dynamo.Source) float64

var samplers = map[string]sampler{
	"normal": func(s AttitudeSpec, src dynamo.Source) float64 {
		return s.Loc + s.Sigma*src.NormFloat64()
	},
	"uniform": func(s AttitudeSpec, src dynamo.Source) float64 {
		return s.Loc - s.Sigma + 2*s.Sigma*src.Float64()
	},
	"laplace": func(s AttitudeSpec, src dynamo.Source) float64 {
		u := src.Float64() - 0.5
		return s.Loc - s.Sigma*math.Copysign(1, u)*math.Log(1-2*math.Abs(u))
	},
	"vonmises": func(s AttitudeSpec, src dynamo.Source) float64 {
		return vonMises(s.Loc, 1/(s.Sigma*s.Sigma), src)
	},
}

// vonMises draws from a von Mises distribution (Best & Fisher, 1979).
func vonMises(mu, kappa float64, src dynamo.Source) float64 {
	if kappa < 1e-8 {
		return mu + math.Pi*(2*src.Float64()-1)
	}
	tau := 1 + math.Sqrt(1+4*kappa*kappa)
	rho := (tau - math.Sqrt(2*tau)) / (2 * kappa)
	r := (1 + rho*rho) / (2 * rho)

	var f float64
	for {
		u1, u2 := src.Float64(), src.Float64()
		z := math.Cos(math.Pi * u1)
		f = (1 + r*z) / (r + z)
		c := kappa * (r - f)
		if c*(2-c)-u2 > 0 || math.Log(c/u2)+1-c >= 0 {
			break
		}
	}
	if src.Float64() < 0.5 {
		return mu - math.Acos(f)
	}
	return mu + math.Acos(f)
}

// SampleAttitudes draws n attitudes and truncates each into [-π/2, π/2].
// Out-of-range draws are clipped, not resampled.
func SampleAttitudes(spec AttitudeSpec, n int, src dynamo.Source) (dynamo.Vector, error) {
	draw, ok := samplers[spec.Distribution]
	if !ok {
		return nil, &dynamo.ParameterError{Field: "distribution", Value: spec.Distribution, Reason: "unknown"}
	}
	v := make(dynamo.Vector, n)
	for i := range v {
		v[i] = dynamo.ClampAttitude(draw(spec, src))
	}
	return v, nil
}

// Initialize builds State₀: the adjacency from gen, checked against the
// generator contract, then the attitudes. Both draw from src in that order.
func Initialize(cfg Config, gen topology.Generator, src dynamo.Source) (dynamo.State, error) {
	if err := cfg.Validate(); err != nil {
		return dynamo.State{}, err
	}

	a, err := gen.Generate(cfg.Nodes, src)
	if err != nil {
		return dynamo.State{}, fmt.Errorf("initialize: %w", err)
	}
	if err := dynamo.CheckAdjacency(gen.Name(), a, cfg.Nodes); err != nil {
		return dynamo.State{}, fmt.Errorf("initialize: %w", err)
	}

	theta, err := SampleAttitudes(cfg.Attitudes, cfg.Nodes, src)
	if err != nil {
		return dynamo.State{}, fmt.Errorf("initialize: %w", err)
	}

	return dynamo.State{Adjacency: a, Attitudes: theta}, nil
}

// checkInitial validates a caller-supplied State₀.
func checkInitial(s dynamo.State, n int) error {
	if len(s.Attitudes) != n {
		return fmt.Errorf("initial attitudes: %d entries for %d nodes: %w", len(s.Attitudes), n, dynamo.ErrDimensionMismatch)
	}
	if err := dynamo.CheckAdjacency("initial state", s.Adjacency, n); err != nil {
		return err
	}
	for i, theta := range s.Attitudes {
		if !(math.Abs(theta) <= dynamo.AttitudeBound) {
			return &dynamo.ParameterError{Field: fmt.Sprintf("attitudes[%d]", i), Value: theta, Reason: "must be in [-π/2, π/2]"}
		}
	}
	return nil
}
