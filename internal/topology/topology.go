// Package topology builds initial adjacency matrices for the network model.
//
// Every generator follows the same contract: it returns an n×n matrix with a
// zero diagonal and weights in [0,1]. Edges present in the generated graph get
// Spec.NeighborWeight; absent off-diagonal pairs get Spec.NonNeighborWeight.
// All randomness comes from the run's [dynamo.Source], so a fixed seed
// reproduces the same graph.
package topology

import (
	"fmt"
	"sort"

	"github.com/san-kum/netechos/internal/dynamo"
)

// Generator produces the initial adjacency matrix of a run.
type Generator interface {
	Name() string
	Generate(n int, src dynamo.Source) (dynamo.Matrix, error)
}

// Spec selects a topology and carries its parameters. Fields that a topology
// does not use are ignored.
type Spec struct {
	Name string `yaml:"name" json:"name"`
	// P is the edge probability (erdos_renyi) or rewiring/shortcut probability
	// (watts_strogatz, newman_watts_strogatz).
	P float64 `yaml:"p" json:"p"`
	// K is the ring-lattice degree for the Watts-Strogatz family.
	K int `yaml:"k" json:"k"`
	// M is the number of edges each new node attaches with (barabasi_albert).
	M int `yaml:"m" json:"m"`
	// Directed makes erdos_renyi draw each ordered pair independently.
	Directed          bool    `yaml:"directed" json:"directed"`
	NeighborWeight    float64 `yaml:"neighbor_weight" json:"neighbor_weight"`
	NonNeighborWeight float64 `yaml:"non_neighbor_weight" json:"non_neighbor_weight"`
}

// DefaultSpec mirrors the defaults of the reference model: an Erdős–Rényi
// graph with p=0.1, k=2, m=1 and unit weights on existing edges.
func DefaultSpec() Spec {
	return Spec{
		Name:           "erdos_renyi",
		P:              0.1,
		K:              2,
		M:              1,
		NeighborWeight: 1.0,
	}
}

// constructor builds an unweighted graph as a 0/1 matrix.
type constructor func(n int, src dynamo.Source) (dynamo.Matrix, error)

type generator struct {
	name  string
	build constructor
	on    float64
	off   float64
}

func (g *generator) Name() string { return g.name }

func (g *generator) Generate(n int, src dynamo.Source) (dynamo.Matrix, error) {
	if n <= 0 {
		return dynamo.Matrix{}, &dynamo.ParameterError{Field: "nodes", Value: n, Reason: "must be positive"}
	}
	a, err := g.build(n, src)
	if err != nil {
		return dynamo.Matrix{}, fmt.Errorf("topology %s: %w", g.name, err)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			switch {
			case i == j:
				continue
			case a.At(i, j) != 0:
				a.Set(i, j, g.on)
			default:
				a.Set(i, j, g.off)
			}
		}
	}
	return a, nil
}

var registry = map[string]func(Spec) (constructor, error){
	"complete": func(Spec) (constructor, error) { return complete, nil },
	"cycle":    func(Spec) (constructor, error) { return cycle, nil },
	"star":     func(Spec) (constructor, error) { return star, nil },
	"erdos_renyi": func(s Spec) (constructor, error) {
		if err := checkProbability(s.P); err != nil {
			return nil, err
		}
		return erdosRenyi(s.P, s.Directed), nil
	},
	"watts_strogatz": func(s Spec) (constructor, error) {
		if err := checkProbability(s.P); err != nil {
			return nil, err
		}
		if err := checkLatticeDegree(s.K); err != nil {
			return nil, err
		}
		return wattsStrogatz(s.K, s.P), nil
	},
	"newman_watts_strogatz": func(s Spec) (constructor, error) {
		if err := checkProbability(s.P); err != nil {
			return nil, err
		}
		if err := checkLatticeDegree(s.K); err != nil {
			return nil, err
		}
		return newmanWattsStrogatz(s.K, s.P), nil
	},
	"barabasi_albert": func(s Spec) (constructor, error) {
		if s.M < 1 {
			return nil, &dynamo.ParameterError{Field: "topology.m", Value: s.M, Reason: "must be at least 1"}
		}
		return barabasiAlbert(s.M), nil
	},
}

// New returns the generator selected by spec. Unknown names and out-of-range
// parameters are reported as dynamo.ErrInvalidParameter.
func New(spec Spec) (Generator, error) {
	factory, ok := registry[spec.Name]
	if !ok {
		return nil, &dynamo.ParameterError{Field: "topology", Value: spec.Name, Reason: fmt.Sprintf("unknown (available: %v)", Names())}
	}
	for field, w := range map[string]float64{
		"topology.neighbor_weight":     spec.NeighborWeight,
		"topology.non_neighbor_weight": spec.NonNeighborWeight,
	} {
		if !(w >= 0 && w <= 1) {
			return nil, &dynamo.ParameterError{Field: field, Value: w, Reason: "must be in [0,1]"}
		}
	}
	build, err := factory(spec)
	if err != nil {
		return nil, err
	}
	return &generator{name: spec.Name, build: build, on: spec.NeighborWeight, off: spec.NonNeighborWeight}, nil
}

// Names lists the registered topologies in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func checkProbability(p float64) error {
	if !(p >= 0 && p <= 1) {
		return &dynamo.ParameterError{Field: "topology.p", Value: p, Reason: "must be in [0,1]"}
	}
	return nil
}

func checkLatticeDegree(k int) error {
	if k < 2 {
		return &dynamo.ParameterError{Field: "topology.k", Value: k, Reason: "must be at least 2"}
	}
	return nil
}
