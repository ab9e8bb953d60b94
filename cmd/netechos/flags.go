package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/netechos/internal/config"
)

var (
	configFile string
	preset     string
	saveConfig string

	nodes        int
	steps        int
	alpha        float64
	beta         float64
	seed         int64
	sigma        float64
	loc          float64
	distribution string
	interaction  string
	weightRule   string
	record       string

	edgeP             float64
	latticeK          int
	attachM           int
	directed          bool
	neighborWeight    float64
	nonNeighborWeight float64

	syncEpsilon       float64
	convergeTolerance float64
	convergeWindow    int
)

func addModelFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	f := cmd.Flags()

	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&saveConfig, "save-config", "", "write the resolved config to this yaml file")

	f.IntVarP(&nodes, "nodes", "n", d.Nodes, "number of nodes")
	f.IntVar(&steps, "steps", d.Steps, "number of steps")
	f.Float64Var(&alpha, "alpha", d.Alpha, "connection-strength exponent")
	f.Float64Var(&beta, "beta", d.Beta, "attitude change rate (positive polarizes, negative synchronizes)")
	f.Int64Var(&seed, "seed", 0, "random seed (default: derived from the clock)")
	f.Float64Var(&sigma, "sigma", d.Attitudes.Sigma, "attitude distribution scale")
	f.Float64Var(&loc, "loc", d.Attitudes.Loc, "attitude distribution location")
	f.StringVar(&distribution, "distribution", d.Attitudes.Distribution, "attitude distribution (normal, uniform, laplace, vonmises)")
	f.StringVar(&interaction, "interaction", d.Interaction, "interaction sampling (auto, mutual, directed)")
	f.StringVar(&weightRule, "weight-rule", d.WeightRule, "connection update (assign, increment)")
	f.StringVar(&record, "record", d.Record, "recording mode (full, summary)")

	f.Float64Var(&edgeP, "p", d.Topology.P, "edge or rewiring probability")
	f.IntVar(&latticeK, "k", d.Topology.K, "ring lattice degree")
	f.IntVar(&attachM, "m", d.Topology.M, "edges per new node (barabasi_albert)")
	f.BoolVar(&directed, "directed", false, "directed erdos_renyi graph")
	f.Float64Var(&neighborWeight, "neighbor-weight", d.Topology.NeighborWeight, "initial weight of present edges")
	f.Float64Var(&nonNeighborWeight, "non-neighbor-weight", d.Topology.NonNeighborWeight, "initial weight of absent edges")

	f.Float64Var(&syncEpsilon, "sync-eps", 0, "stop once all attitudes are within this distance (0 disables)")
	f.Float64Var(&convergeTolerance, "converge-tol", 0, "stop once adjacency changes stay below this norm (0 disables)")
	f.IntVar(&convergeWindow, "converge-window", 10, "consecutive steps for --converge-tol")
}

// resolveConfig layers defaults, preset, config file and explicitly set flags,
// in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("nodes") {
		cfg.Nodes = nodes
	}
	if f.Changed("steps") {
		cfg.Steps = steps
	}
	if f.Changed("alpha") {
		cfg.Alpha = alpha
	}
	if f.Changed("beta") {
		cfg.Beta = beta
	}
	if f.Changed("seed") {
		s := seed
		cfg.Seed = &s
	}
	if f.Changed("sigma") {
		cfg.Attitudes.Sigma = sigma
	}
	if f.Changed("loc") {
		cfg.Attitudes.Loc = loc
	}
	if f.Changed("distribution") {
		cfg.Attitudes.Distribution = distribution
	}
	if f.Changed("interaction") {
		cfg.Interaction = interaction
	}
	if f.Changed("weight-rule") {
		cfg.WeightRule = weightRule
	}
	if f.Changed("record") {
		cfg.Record = record
	}

	if len(args) > 0 {
		cfg.Topology.Name = args[0]
	}
	if f.Changed("p") {
		cfg.Topology.P = edgeP
	}
	if f.Changed("k") {
		cfg.Topology.K = latticeK
	}
	if f.Changed("m") {
		cfg.Topology.M = attachM
	}
	if f.Changed("directed") {
		cfg.Topology.Directed = directed
	}
	if f.Changed("neighbor-weight") {
		cfg.Topology.NeighborWeight = neighborWeight
	}
	if f.Changed("non-neighbor-weight") {
		cfg.Topology.NonNeighborWeight = nonNeighborWeight
	}

	if f.Changed("sync-eps") {
		cfg.Stop.SyncEpsilon = syncEpsilon
	}
	if f.Changed("converge-tol") {
		cfg.Stop.ConvergeTolerance = convergeTolerance
		cfg.Stop.ConvergeWindow = convergeWindow
	}
	if f.Changed("converge-window") {
		cfg.Stop.ConvergeWindow = convergeWindow
	}

	return cfg, nil
}
