package config

import (
	"sort"

	"github.com/san-kum/netechos/internal/dynamo"
	"github.com/san-kum/netechos/internal/topology"
)

var Presets = map[string]func(*Config){
	"polarize": func(c *Config) {
		c.Alpha, c.Beta = 1, 0.05
		c.Attitudes.Sigma = 0.2
		c.Topology = topology.Spec{Name: "complete", NeighborWeight: 1}
	},
	"synchronize": func(c *Config) {
		c.Alpha, c.Beta = 1, -0.05
		c.Attitudes.Sigma = 0.3
		c.Topology = topology.Spec{Name: "complete", NeighborWeight: 1}
		c.Stop.SyncEpsilon = 1e-3
	},
	"directed": func(c *Config) {
		c.Interaction = string(dynamo.Directed)
		c.Topology = topology.Spec{Name: "erdos_renyi", P: 0.2, Directed: true, NeighborWeight: 1}
	},
	"sparse": func(c *Config) {
		c.Nodes = 100
		c.Topology = topology.Spec{Name: "watts_strogatz", K: 4, P: 0.1, NeighborWeight: 1}
		c.Stop.ConvergeTolerance, c.Stop.ConvergeWindow = 1e-6, 10
	},
	"scale_free": func(c *Config) {
		c.Nodes = 100
		c.WeightRule = string(dynamo.Increment)
		c.Topology = topology.Spec{Name: "barabasi_albert", M: 2, NeighborWeight: 1}
	},
}

// GetPreset returns a fresh config with the named preset applied to the
// defaults, or nil if there is no such preset.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
