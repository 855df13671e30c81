package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/percolath/builder"
	"github.com/katalvlaran/percolath/edgelist"
	"github.com/katalvlaran/percolath/experiment"
	"github.com/katalvlaran/percolath/internal/config"
	"github.com/katalvlaran/percolath/internal/logging"
	"github.com/katalvlaran/percolath/metrics"
	"github.com/katalvlaran/percolath/montecarlo"
	"github.com/katalvlaran/percolath/store"
)

// defaultSynthetic is used when neither an edge list nor a topology is
// configured.
const defaultSynthetic = "messages:200:2000:0.02"

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one experiment and write its result table",
		Example: `  percolate run --synthetic cycle:100 --strategy fractional-bond --trials 200 --seed 1
  percolate run --edges enron.csv --date-column date --strategy incremental-bond --sqlite runs.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			label, _ := cmd.Flags().GetString("label")
			return runExperiment(cmd.Context(), cfg, label, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().String("strategy", "", fmt.Sprintf("Removal strategy %v", experiment.Strategies()))
	cmd.Flags().Int("trials", 0, "Monte Carlo trials per grid point")
	cmd.Flags().Int64("seed", 0, "Seed for reproducible runs")
	cmd.Flags().Int("workers", 0, "Concurrent trials (0 = one per CPU)")
	cmd.Flags().String("failure-policy", "", "fail-fast or tolerate")
	cmd.Flags().Float64Slice("grid", nil, "Explicit intensities, e.g. 0,0.25,0.5")
	cmd.Flags().String("stop", "", "Incremental stop policy: exhausted or fragmented")
	cmd.Flags().String("engine", "", "Incremental engine: replay or recompute")
	cmd.Flags().String("edges", "", "CSV edge list")
	cmd.Flags().String("from-column", "", "Sender column (default \"from\")")
	cmd.Flags().String("to-column", "", "Recipient column (default \"to\")")
	cmd.Flags().String("date-column", "", "Bucket rows by the month of this column")
	cmd.Flags().String("bucket-column", "", "Bucket rows by this column verbatim")
	cmd.Flags().String("start", "", "First month (YYYY-MM)")
	cmd.Flags().String("end", "", "Last month (YYYY-MM)")
	cmd.Flags().String("synthetic", "", "Synthetic topology, e.g. cycle:100 or complete:5+path:4")
	cmd.Flags().String("out", "", "CSV output file (default stdout)")
	cmd.Flags().String("sqlite", "", "Archive the result in this SQLite database")
	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address while running")
	cmd.Flags().String("label", "", "Free-form label stored with the run")

	return cmd
}

// loadConfig reads --config and applies explicitly set flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	str := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	str("strategy", &cfg.Strategy)
	str("failure-policy", &cfg.FailurePolicy)
	str("stop", &cfg.Stop)
	str("engine", &cfg.Engine)
	str("edges", &cfg.Input.Edges)
	str("from-column", &cfg.Input.FromColumn)
	str("to-column", &cfg.Input.ToColumn)
	str("date-column", &cfg.Input.DateColumn)
	str("bucket-column", &cfg.Input.BucketColumn)
	str("start", &cfg.Input.StartMonth)
	str("end", &cfg.Input.EndMonth)
	str("synthetic", &cfg.Input.Synthetic)
	str("out", &cfg.Output.CSV)
	str("sqlite", &cfg.Output.SQLite)
	str("metrics-addr", &cfg.Metrics.Addr)
	str("log-level", &cfg.Logging.Level)
	str("log-format", &cfg.Logging.Format)

	if flags.Changed("trials") {
		cfg.Trials, _ = flags.GetInt("trials")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("seed") {
		seed, _ := flags.GetInt64("seed")
		cfg.Seed = &seed
	}
	if flags.Changed("grid") {
		cfg.Grid.Points, _ = flags.GetFloat64Slice("grid")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func newLogger(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	if cfg.Format == "json" {
		return logging.NewJSONLogger(cfg.Level, w)
	}

	return logging.NewLogger(cfg.Level, w)
}

func runExperiment(ctx context.Context, cfg *config.Config, label string, stdout, stderr io.Writer) error {
	logger := newLogger(cfg.Logging, stderr)
	ctx = logging.WithLogger(ctx, logger)
	reg := metrics.NewRegistry()

	serveCtx, stopServe := context.WithCancel(ctx)
	defer stopServe()
	var eg errgroup.Group
	if cfg.Metrics.Addr != "" {
		eg.Go(func() error { return reg.Serve(serveCtx, cfg.Metrics.Addr, logger) })
	}

	err := execute(ctx, cfg, label, reg, logger, stdout)
	stopServe()
	if serveErr := eg.Wait(); serveErr != nil {
		logger.Warn("metrics server failed", "error", serveErr)
	}

	return err
}

func execute(ctx context.Context, cfg *config.Config, label string, reg *metrics.Registry, logger *slog.Logger, stdout io.Writer) error {
	snaps, err := loadSnapshots(cfg)
	if err != nil {
		return err
	}
	reg.RecordSnapshots(snaps)
	logger.Info("snapshots loaded", "count", len(snaps))

	opts, err := cfg.RunnerOptions()
	if err != nil {
		return err
	}
	opts = append(opts, montecarlo.WithLogger(logger), montecarlo.WithRecorder(reg.Trials(cfg.Strategy)))
	runner := montecarlo.NewRunner(opts...)

	exp, err := cfg.Experiment(runner)
	if err != nil {
		return err
	}
	exp.Logger = logger

	started := time.Now()
	table, err := exp.Run(ctx, snaps)
	if err != nil {
		return fmt.Errorf("running %s: %w", cfg.Strategy, err)
	}
	reg.RecordTable(table)
	logger.Info("experiment done", "strategy", cfg.Strategy, "rows", len(table.Rows), "elapsed", time.Since(started))

	if err := writeTable(cfg.Output.CSV, table, stdout); err != nil {
		return err
	}
	if cfg.Output.SQLite != "" {
		id, err := archive(ctx, cfg, runner, label, table)
		if err != nil {
			return err
		}
		logger.Info("run archived", "id", id, "db", cfg.Output.SQLite)
	}

	return nil
}

// loadSnapshots reads the configured edge list or builds the synthetic
// topology as a single snapshot named after its spec.
func loadSnapshots(cfg *config.Config) ([]experiment.Snapshot, error) {
	in := cfg.Input
	if in.Edges != "" {
		return edgelist.Load(in.Edges, edgelist.Options{
			From:     in.FromColumn,
			To:       in.ToColumn,
			Date:     in.DateColumn,
			Bucket:   in.BucketColumn,
			FromAttr: in.FromAttrColumn,
			ToAttr:   in.ToAttrColumn,
			Start:    in.StartMonth,
			End:      in.EndMonth,
		})
	}

	spec := in.Synthetic
	if spec == "" {
		spec = defaultSynthetic
	}
	seed := time.Now().UnixNano()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	g, err := builder.Build(spec, seed)
	if err != nil {
		return nil, err
	}

	return []experiment.Snapshot{{Name: spec, Graph: g}}, nil
}

func writeTable(path string, table *experiment.Table, stdout io.Writer) error {
	if path == "" || path == "-" {
		return store.WriteCSV(stdout, table)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := store.WriteCSV(f, table); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func archive(ctx context.Context, cfg *config.Config, runner *montecarlo.Runner, label string, table *experiment.Table) (string, error) {
	db, err := store.OpenSQLite(ctx, cfg.Output.SQLite)
	if err != nil {
		return "", err
	}
	defer db.Close()

	return db.SaveTable(ctx, table, store.RunMeta{
		Seed:    cfg.Seed,
		Trials:  cfg.Trials,
		Workers: runner.Workers(),
		Label:   label,
	})
}
