package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/netechos/internal/dynamo"
	"github.com/san-kum/netechos/internal/sim"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultNodes, cfg.Nodes)
	assert.Equal(t, "erdos_renyi", cfg.Topology.Name)
	assert.Nil(t, cfg.Seed)
	require.NoError(t, cfg.Validate())
}

func TestGetPreset(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			cfg := GetPreset(name)
			require.NotNil(t, cfg)
			_, err := cfg.SimConfig()
			require.NoError(t, err)
		})
	}

	cfg := GetPreset("polarize")
	assert.Equal(t, 0.05, cfg.Beta)
	assert.Equal(t, "complete", cfg.Topology.Name)
}

func TestGetPreset_NotFound(t *testing.T) {
	assert.Nil(t, GetPreset("nonexistent"))
}

func TestGetPreset_ReturnsCopy(t *testing.T) {
	a := GetPreset("sparse")
	a.Nodes = 3
	assert.Equal(t, 100, GetPreset("sparse").Nodes)
}

func TestListPresets(t *testing.T) {
	assert.Equal(t, []string{"directed", "polarize", "scale_free", "sparse", "synchronize"}, ListPresets())
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	seed := int64(42)
	cfg := GetPreset("scale_free")
	cfg.Seed = &seed

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nodes: 7\nattitudes:\n  sigma: 0.4\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Nodes)
	assert.Equal(t, 0.4, cfg.Attitudes.Sigma)
	assert.Equal(t, "normal", cfg.Attitudes.Distribution)
	assert.Equal(t, DefaultSteps, cfg.Steps)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nodes: [1, 2"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"nodes", func(c *Config) { c.Nodes = 0 }, "nodes must be greater than 0"},
		{"steps", func(c *Config) { c.Steps = -2 }, "steps must be at least 0"},
		{"sigma", func(c *Config) { c.Attitudes.Sigma = 0 }, "attitudes.sigma"},
		{"distribution", func(c *Config) { c.Attitudes.Distribution = "cauchy" }, "attitudes.distribution must be one of"},
		{"interaction", func(c *Config) { c.Interaction = "sideways" }, "interaction"},
		{"record", func(c *Config) { c.Record = "some" }, "record"},
		{"window", func(c *Config) { c.Stop.ConvergeTolerance = 0.1 }, "stop.converge_window is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, dynamo.ErrInvalidParameter)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestSimConfig(t *testing.T) {
	seed := int64(9)
	cfg := DefaultConfig()
	cfg.Seed = &seed
	cfg.Beta = -0.2
	cfg.WeightRule = "increment"

	sc, err := cfg.SimConfig()
	require.NoError(t, err)
	assert.Equal(t, int64(9), sc.Seed)
	assert.Equal(t, -0.2, sc.Params.Beta)
	assert.Equal(t, dynamo.Increment, sc.Params.Weights)
	assert.Equal(t, sim.RecordFull, sc.Record)
	assert.Equal(t, cfg.Nodes, sc.Nodes)
}

func TestSimConfig_ResolvesSeed(t *testing.T) {
	cfg := DefaultConfig()
	sc, err := cfg.SimConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, *cfg.Seed, sc.Seed)
}

func TestSimConfig_RejectsBadTopology(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Topology.P = 2
	_, err := cfg.SimConfig()
	assert.ErrorIs(t, err, dynamo.ErrInvalidParameter)
}
