package montecarlo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/percolath/core"
	"github.com/katalvlaran/percolath/internal/logging"
)

// Runner holds the execution settings shared by every run it performs.
// A Runner is immutable after construction and safe for concurrent use.
type Runner struct {
	workers  int
	seed     int64
	seeded   bool
	policy   FailurePolicy
	logger   *slog.Logger
	recorder Recorder
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers bounds the number of concurrent trials. 0 means
// runtime.NumCPU(); 1 runs trials sequentially.
func WithWorkers(n int) Option {
	return func(r *Runner) { r.workers = n }
}

// WithSeed fixes the run seed, making results reproducible.
func WithSeed(seed int64) Option {
	return func(r *Runner) {
		r.seed = seed
		r.seeded = true
	}
}

// WithFailurePolicy selects FailFast (default) or Tolerate.
func WithFailurePolicy(p FailurePolicy) Option {
	return func(r *Runner) { r.policy = p }
}

// WithLogger sets the logger for run summaries and trial failures.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRecorder attaches a per-trial metrics sink.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// NewRunner builds a Runner from opts.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Workers returns the effective pool size.
func (r *Runner) Workers() int {
	if r.workers == 0 {
		return runtime.NumCPU()
	}

	return r.workers
}

// Seed returns the configured seed and whether one was set.
func (r *Runner) Seed() (int64, bool) { return r.seed, r.seeded }

// Policy returns the failure policy.
func (r *Runner) Policy() FailurePolicy { return r.policy }

// outcome is the slot a trial writes; slots are indexed by trial so the
// reduction never depends on completion order.
type outcome[T any] struct {
	value T
	err   error
	done  bool
}

// Collect executes trials runs of fn, each on its own clone of g, and
// returns the successful values in trial-index order.
//
// trials <= 0 returns ErrInvalidArgument before any work.
func Collect[T any](ctx context.Context, r *Runner, g *core.Graph, trials int, fn Trial[T]) ([]T, Report, error) {
	if trials <= 0 {
		return nil, Report{}, fmt.Errorf("trials=%d: %w", trials, ErrInvalidArgument)
	}
	if r.workers < 0 {
		return nil, Report{}, fmt.Errorf("workers=%d: %w", r.workers, ErrInvalidArgument)
	}

	seed := r.seed
	if !r.seeded {
		seed = freshSeed()
	}
	rep := Report{Seed: seed, Trials: trials, Workers: r.Workers()}
	start := time.Now()
	slots := make([]outcome[T], trials)

	runOne := func(ctx context.Context, i int) error {
		t0 := time.Now()
		v, err := safeTrial(ctx, fn, g.Clone(), trialRNG(seed, i))
		if r.recorder != nil {
			r.recorder.ObserveTrial(time.Since(t0), err)
		}
		slots[i] = outcome[T]{value: v, err: err, done: true}
		if err != nil {
			r.logger.Debug("trial failed", "trial", i, "error", err)
			if r.policy == FailFast {
				return err
			}
		}
		return nil
	}

	var runErr error
	if rep.Workers == 1 {
		runErr = runSequential(ctx, trials, runOne)
	} else {
		runErr = runPool(ctx, rep.Workers, trials, runOne)
	}

	values := make([]T, 0, trials)
	var errs []error
	for i := range slots {
		switch {
		case !slots[i].done:
		case slots[i].err != nil:
			rep.Failed++
			errs = append(errs, fmt.Errorf("trial %d: %w", i, slots[i].err))
		default:
			rep.Succeeded++
			values = append(values, slots[i].value)
		}
	}
	rep.Duration = time.Since(start)
	r.logger.Debug("monte carlo run finished",
		"trials", trials, "succeeded", rep.Succeeded, "failed", rep.Failed,
		"workers", rep.Workers, "seed", seed, "duration", rep.Duration)

	if err := ctx.Err(); err != nil {
		return values, rep, fmt.Errorf("run interrupted after %d of %d trials: %w", rep.Succeeded+rep.Failed, trials, err)
	}
	if rep.Failed > 0 && (r.policy == FailFast || rep.Succeeded == 0) {
		// errs[0] is the lowest-index failure, stable for a given seed
		return values, rep, fmt.Errorf("%w: %d of %d trials failed: %w", ErrTrialFailed, rep.Failed, trials, errs[0])
	}
	if runErr != nil {
		return values, rep, runErr
	}

	return values, rep, nil
}

// Run executes fn and reduces the values to their mean and spread.
func (r *Runner) Run(ctx context.Context, g *core.Graph, trials int, fn Trial[float64]) (Aggregate, error) {
	values, rep, err := Collect(ctx, r, g, trials, fn)
	if err != nil {
		return Aggregate{Trials: trials, Failed: rep.Failed}, err
	}
	agg := Summarize(values)
	agg.Trials = trials
	agg.Failed = rep.Failed

	return agg, nil
}

// runSequential runs every trial on the calling goroutine.
func runSequential(ctx context.Context, trials int, runOne func(context.Context, int) error) error {
	for i := 0; i < trials; i++ {
		if ctx.Err() != nil {
			return nil
		}
		if err := runOne(ctx, i); err != nil {
			return err
		}
	}

	return nil
}

// runPool schedules trials on at most workers goroutines. A FailFast error
// cancels the group context, which stops further scheduling.
func runPool(ctx context.Context, workers, trials int, runOne func(context.Context, int) error) error {
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := 0; i < trials; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		eg.Go(func() error { return runOne(gctx, i) })
	}
	err := eg.Wait()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return nil
	}

	return err
}

// safeTrial runs fn and turns a panic into an error.
func safeTrial[T any](ctx context.Context, fn Trial[T], g *core.Graph, rng *rand.Rand) (v T, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	return fn(ctx, g, rng)
}
