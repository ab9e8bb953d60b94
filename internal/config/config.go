package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/netechos/internal/dynamo"
	"github.com/san-kum/netechos/internal/sim"
	"github.com/san-kum/netechos/internal/topology"
)

const (
	DefaultNodes = 50
	DefaultSteps = 200
	DefaultAlpha = -1.0
	DefaultBeta  = 1e-3
	DefaultSigma = 0.1
)

type Config struct {
	Nodes int     `yaml:"nodes" json:"nodes" validate:"gt=0"`
	Steps int     `yaml:"steps" json:"steps" validate:"gte=0"`
	Alpha float64 `yaml:"alpha" json:"alpha"`
	Beta  float64 `yaml:"beta" json:"beta"`
	// Seed is drawn from the clock when absent; ResolveSeed records it.
	Seed        *int64         `yaml:"seed,omitempty" json:"seed,omitempty"`
	Interaction string         `yaml:"interaction" json:"interaction" validate:"omitempty,oneof=auto mutual directed"`
	WeightRule  string         `yaml:"weight_rule" json:"weight_rule" validate:"omitempty,oneof=assign increment"`
	Record      string         `yaml:"record" json:"record" validate:"omitempty,oneof=full summary"`
	Attitudes   AttitudeConfig `yaml:"attitudes" json:"attitudes"`
	Topology    topology.Spec  `yaml:"topology" json:"topology"`
	Stop        StopConfig     `yaml:"stop" json:"stop"`
}

type AttitudeConfig struct {
	Distribution string  `yaml:"distribution" json:"distribution" validate:"oneof=normal uniform laplace vonmises"`
	Loc          float64 `yaml:"loc" json:"loc"`
	Sigma        float64 `yaml:"sigma" json:"sigma" validate:"gt=0"`
}

type StopConfig struct {
	SyncEpsilon       float64 `yaml:"sync_epsilon" json:"sync_epsilon" validate:"gte=0"`
	ConvergeTolerance float64 `yaml:"converge_tolerance" json:"converge_tolerance" validate:"gte=0"`
	ConvergeWindow    int     `yaml:"converge_window" json:"converge_window" validate:"required_with=ConvergeTolerance,gte=0"`
}

func DefaultConfig() *Config {
	return &Config{
		Nodes:       DefaultNodes,
		Steps:       DefaultSteps,
		Alpha:       DefaultAlpha,
		Beta:        DefaultBeta,
		Interaction: string(dynamo.Auto),
		WeightRule:  string(dynamo.Assign),
		Record:      string(sim.RecordFull),
		Attitudes: AttitudeConfig{
			Distribution: "normal",
			Sigma:        DefaultSigma,
		},
		Topology: topology.DefaultSpec(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResolveSeed fixes the seed, deriving one from the clock if none was given.
func (c *Config) ResolveSeed() int64 {
	if c.Seed == nil {
		seed := time.Now().UnixNano()
		c.Seed = &seed
	}
	return *c.Seed
}

// SimConfig validates c and converts it for the engine. It resolves the seed.
func (c *Config) SimConfig() (sim.Config, error) {
	if err := c.Validate(); err != nil {
		return sim.Config{}, err
	}
	out := sim.Config{
		Nodes: c.Nodes,
		Steps: c.Steps,
		Seed:  c.ResolveSeed(),
		Params: dynamo.Params{
			Alpha:   c.Alpha,
			Beta:    c.Beta,
			Weights: dynamo.WeightRule(c.WeightRule),
		},
		Interaction: dynamo.InteractionMode(c.Interaction),
		Attitudes: sim.AttitudeSpec{
			Distribution: c.Attitudes.Distribution,
			Loc:          c.Attitudes.Loc,
			Sigma:        c.Attitudes.Sigma,
		},
		Topology: c.Topology,
		Record:   sim.RecordMode(c.Record),
		Stop: sim.StopSpec{
			SyncEpsilon:       c.Stop.SyncEpsilon,
			ConvergeTolerance: c.Stop.ConvergeTolerance,
			ConvergeWindow:    c.Stop.ConvergeWindow,
		},
	}
	if err := out.Validate(); err != nil {
		return sim.Config{}, err
	}
	if _, err := topology.New(c.Topology); err != nil {
		return sim.Config{}, err
	}
	return out, nil
}
