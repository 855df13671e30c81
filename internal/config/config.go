// Package config loads the percolate run configuration from YAML with
// environment overrides, validates it, and turns it into an
// experiment.Experiment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/percolath/experiment"
	"github.com/katalvlaran/percolath/montecarlo"
	"github.com/katalvlaran/percolath/percolation"
	"github.com/katalvlaran/percolath/preprocess"
)

// Environment variables that override file values.
const (
	EnvSeed     = "PERCOLATE_SEED"
	EnvWorkers  = "PERCOLATE_WORKERS"
	EnvLogLevel = "PERCOLATE_LOG_LEVEL"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Config is the full run configuration.
type Config struct {
	// Strategy is one of experiment.Strategies().
	Strategy string `yaml:"strategy" validate:"required"`

	Trials int `yaml:"trials" validate:"gte=1"`

	// Seed makes a run reproducible; nil draws a fresh seed per batch.
	Seed *int64 `yaml:"seed,omitempty"`

	// Workers bounds concurrent trials; 0 means one per CPU.
	Workers int `yaml:"workers" validate:"gte=0"`

	// FailurePolicy is "fail-fast" (default) or "tolerate".
	FailurePolicy string `yaml:"failure_policy" validate:"omitempty,oneof=fail-fast tolerate"`

	Grid GridConfig `yaml:"grid"`

	// SpanningThreshold is the survivor share required by the spanning test.
	SpanningThreshold float64 `yaml:"spanning_threshold" validate:"gte=0,lte=1"`

	// Stop is "exhausted" (default) or "fragmented".
	Stop string `yaml:"stop" validate:"omitempty,oneof=exhausted fragmented"`

	// Engine is "replay" (default) or "recompute".
	Engine string `yaml:"engine" validate:"omitempty,oneof=replay recompute"`

	Preprocess preprocess.Options `yaml:"preprocess"`

	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// GridConfig describes the intensity grid either as a range or as an
// explicit list. Points wins when both are set.
type GridConfig struct {
	Start  float64   `yaml:"start" validate:"gte=0,lte=1"`
	End    float64   `yaml:"end" validate:"gte=0,lte=1"`
	Step   float64   `yaml:"step" validate:"gte=0,lte=1"`
	Points []float64 `yaml:"points,omitempty" validate:"omitempty,dive,gte=0,lte=1"`
}

// InputConfig selects where snapshots come from.
type InputConfig struct {
	// Edges is a CSV edge list; empty means a synthetic graph.
	Edges string `yaml:"edges,omitempty"`

	FromColumn     string `yaml:"from_column,omitempty"`
	ToColumn       string `yaml:"to_column,omitempty"`
	DateColumn     string `yaml:"date_column,omitempty"`
	BucketColumn   string `yaml:"bucket_column,omitempty"`
	FromAttrColumn string `yaml:"from_attr_column,omitempty"`
	ToAttrColumn   string `yaml:"to_attr_column,omitempty"`

	// StartMonth and EndMonth (YYYY-MM) restrict and order the snapshots.
	StartMonth string `yaml:"start_month,omitempty" validate:"omitempty,datetime=2006-01"`
	EndMonth   string `yaml:"end_month,omitempty" validate:"omitempty,datetime=2006-01"`

	// Synthetic names a builder constructor, e.g. "cycle:100".
	Synthetic string `yaml:"synthetic,omitempty"`
}

// OutputConfig selects the result sinks; both may be empty (stdout only).
type OutputConfig struct {
	CSV    string `yaml:"csv,omitempty"`
	SQLite string `yaml:"sqlite,omitempty"`
}

// LoggingConfig configures the stderr logger.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr,omitempty" validate:"omitempty,hostname_port"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Strategy:          string(experiment.FractionalBond),
		Trials:            100,
		FailurePolicy:     montecarlo.FailFast.String(),
		Grid:              GridConfig{Start: 0, End: 1, Step: 0.05},
		SpanningThreshold: percolation.DefaultSpanningThreshold,
		Stop:              percolation.StopWhenExhausted.String(),
		Engine:            percolation.EngineReplay.String(),
		Preprocess:        preprocess.Options{StripSelfOnly: true},
		Logging:           LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load returns the defaults overlaid by path (when non-empty) and then by
// the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile parses a YAML file on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML on top of the defaults. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// Validate checks struct tags first, then the cross-field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if _, err := experiment.ParseStrategy(c.Strategy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Preprocess.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if !experiment.Strategy(c.Strategy).Incremental() {
		if _, err := c.Grid.Build(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	if c.Input.Edges != "" && c.Input.Synthetic != "" {
		return fmt.Errorf("%w: input.edges and input.synthetic are exclusive", ErrInvalidConfig)
	}
	if c.Input.StartMonth != "" && c.Input.EndMonth != "" && c.Input.StartMonth > c.Input.EndMonth {
		return fmt.Errorf("%w: start_month %s after end_month %s", ErrInvalidConfig, c.Input.StartMonth, c.Input.EndMonth)
	}

	return nil
}

// Build returns the grid described by g.
func (g GridConfig) Build() (experiment.Grid, error) {
	if len(g.Points) > 0 {
		return experiment.Values(g.Points...)
	}

	return experiment.Range(g.Start, g.End, g.Step)
}

// RunnerOptions returns the montecarlo options implied by c. Callers
// append their logger and recorder.
func (c *Config) RunnerOptions() ([]montecarlo.Option, error) {
	opts := []montecarlo.Option{montecarlo.WithWorkers(c.Workers)}
	if c.Seed != nil {
		opts = append(opts, montecarlo.WithSeed(*c.Seed))
	}
	if c.FailurePolicy != "" {
		policy, err := montecarlo.ParseFailurePolicy(c.FailurePolicy)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		opts = append(opts, montecarlo.WithFailurePolicy(policy))
	}

	return opts, nil
}

// Experiment validates c and builds the experiment it describes around
// runner.
func (c *Config) Experiment(runner *montecarlo.Runner) (*experiment.Experiment, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	strategy := experiment.Strategy(c.Strategy)
	exp := &experiment.Experiment{
		Strategy:          strategy,
		Trials:            c.Trials,
		Preprocess:        c.Preprocess,
		SpanningThreshold: &c.SpanningThreshold,
		Runner:            runner,
	}
	if !strategy.Incremental() {
		grid, err := c.Grid.Build()
		if err != nil {
			return nil, err
		}
		exp.Grid = grid
	}
	if c.Stop != "" {
		stop, err := percolation.ParseStopPolicy(c.Stop)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		exp.Stop = stop
	}
	if c.Engine != "" {
		engine, err := percolation.ParseEngine(c.Engine)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		exp.Engine = engine
	}

	return exp, nil
}

// applyEnvOverrides applies PERCOLATE_* variables. Malformed numbers are
// errors rather than silently ignored.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, EnvSeed, v, err)
		}
		cfg.Seed = &seed
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, EnvWorkers, v, err)
		}
		cfg.Workers = n
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}

	return nil
}

// formatValidationError reports the first failing field.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	for _, e := range verrs {
		field := e.Namespace()
		switch e.Tag() {
		case "required":
			return fmt.Errorf("%w: %s: field is required", ErrInvalidConfig, field)
		case "gte":
			return fmt.Errorf("%w: %s: must be at least %s", ErrInvalidConfig, field, e.Param())
		case "lte":
			return fmt.Errorf("%w: %s: must not exceed %s", ErrInvalidConfig, field, e.Param())
		case "oneof":
			return fmt.Errorf("%w: %s: must be one of [%s], got %v", ErrInvalidConfig, field, e.Param(), e.Value())
		default:
			return fmt.Errorf("%w: %s: validation failed (%s)", ErrInvalidConfig, field, e.Tag())
		}
	}

	return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
}
