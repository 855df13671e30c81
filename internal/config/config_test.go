package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/percolath/experiment"
	"github.com/katalvlaran/percolath/montecarlo"
	"github.com/katalvlaran/percolath/percolation"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "percolate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "fractional-bond", cfg.Strategy)
	assert.True(t, cfg.Preprocess.StripSelfOnly)
	assert.Nil(t, cfg.Seed)
}

func TestLoadFromFile(t *testing.T) {
	path := writeFile(t, `
strategy: incremental-node
trials: 25
seed: 42
workers: 3
stop: fragmented
engine: recompute
preprocess:
  strip_self_loops: true
  retain_ratio: 0.75
input:
  edges: enron.csv
  date_column: Date
  start_month: 1999-05
  end_month: 2002-05
logging:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "incremental-node", cfg.Strategy)
	assert.Equal(t, 25, cfg.Trials)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, int64(42), *cfg.Seed)
	require.NotNil(t, cfg.Preprocess.RetainRatio)
	assert.Equal(t, 0.75, *cfg.Preprocess.RetainRatio)
	assert.True(t, cfg.Preprocess.StripSelfOnly, "unset keys keep their defaults")
	assert.Equal(t, "1999-05", cfg.Input.StartMonth)
	assert.Equal(t, "text", cfg.Logging.Format)

	exp, err := cfg.Experiment(montecarlo.NewRunner())
	require.NoError(t, err)
	assert.Equal(t, experiment.IncrementalNode, exp.Strategy)
	assert.Equal(t, percolation.StopWhenFragmented, exp.Stop)
	assert.Equal(t, percolation.EngineRecompute, exp.Engine)
	assert.Empty(t, exp.Grid.Points, "incremental strategies carry no grid")
	require.NotNil(t, exp.SpanningThreshold)
	assert.Equal(t, percolation.DefaultSpanningThreshold, *exp.SpanningThreshold)
}

func TestExperiment_ZeroSpanningThreshold(t *testing.T) {
	cfg, err := Parse([]byte("strategy: spanning-threshold\nspanning_threshold: 0\n"))
	require.NoError(t, err)
	exp, err := cfg.Experiment(montecarlo.NewRunner())
	require.NoError(t, err)
	require.NotNil(t, exp.SpanningThreshold)
	assert.Zero(t, *exp.SpanningThreshold, "an explicit 0 is passed through")
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Load(writeFile(t, "strategy: [unterminated"))
	require.Error(t, err)

	_, err = Load(writeFile(t, "trails: 10\n"))
	require.Error(t, err, "unknown keys are rejected")

	cfg, err := Load(writeFile(t, ""))
	require.NoError(t, err, "an empty file means defaults")
	assert.Equal(t, Default().Trials, cfg.Trials)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvSeed, "7")
	t.Setenv(EnvWorkers, "2")
	t.Setenv(EnvLogLevel, "TRACE")

	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, int64(7), *cfg.Seed)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "trace", cfg.Logging.Level)

	opts, err := cfg.RunnerOptions()
	require.NoError(t, err)
	r := montecarlo.NewRunner(opts...)
	seed, ok := r.Seed()
	assert.True(t, ok)
	assert.Equal(t, int64(7), seed)
	assert.Equal(t, 2, r.Workers())

	t.Setenv(EnvWorkers, "many")
	_, err = Load("")
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate_Rejects(t *testing.T) {
	ratio := 1.5
	cases := map[string]func(c *Config){
		"no strategy":        func(c *Config) { c.Strategy = "" },
		"unknown strategy":   func(c *Config) { c.Strategy = "random-walk" },
		"zero trials":        func(c *Config) { c.Trials = 0 },
		"negative workers":   func(c *Config) { c.Workers = -1 },
		"bad policy":         func(c *Config) { c.FailurePolicy = "retry" },
		"bad stop":           func(c *Config) { c.Stop = "never" },
		"bad engine":         func(c *Config) { c.Engine = "magic" },
		"bad threshold":      func(c *Config) { c.SpanningThreshold = 2 },
		"bad grid point":     func(c *Config) { c.Grid.Points = []float64{0.2, 1.2} },
		"zero grid step":     func(c *Config) { c.Grid.Step = 0 },
		"bad retain ratio":   func(c *Config) { c.Preprocess.RetainRatio = &ratio },
		"bad level":          func(c *Config) { c.Logging.Level = "loud" },
		"bad month":          func(c *Config) { c.Input.StartMonth = "May 2001" },
		"months reversed":    func(c *Config) { c.Input.StartMonth, c.Input.EndMonth = "2002-01", "2001-01" },
		"two inputs":         func(c *Config) { c.Input.Edges, c.Input.Synthetic = "a.csv", "cycle:10" },
		"bad metrics listen": func(c *Config) { c.Metrics.Addr = "nine thousand" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestGridBuild(t *testing.T) {
	g, err := GridConfig{Start: 0, End: 0.5, Step: 0.25}.Build()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.25, 0.5}, g.Points)

	g, err = GridConfig{Step: 0.5, Points: []float64{0.9}}.Build()
	require.NoError(t, err)
	assert.Equal(t, []float64{0.9}, g.Points, "explicit points win")
}
