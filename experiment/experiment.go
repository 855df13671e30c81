package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/katalvlaran/percolath/core"
	"github.com/katalvlaran/percolath/internal/logging"
	"github.com/katalvlaran/percolath/montecarlo"
	"github.com/katalvlaran/percolath/percolation"
	"github.com/katalvlaran/percolath/preprocess"
)

// Experiment is one strategy configuration applied to a set of snapshots.
type Experiment struct {
	Strategy Strategy
	Trials   int
	Grid     Grid

	Preprocess preprocess.Options

	// SpanningThreshold is the survivor share of the spanning test;
	// nil selects percolation.DefaultSpanningThreshold.
	SpanningThreshold *float64

	Stop   percolation.StopPolicy
	Engine percolation.Engine

	// Runner executes the trials; nil means montecarlo.NewRunner().
	Runner *montecarlo.Runner

	// Logger receives one record per grid point; nil falls back to the
	// logger carried by the context.
	Logger *slog.Logger
}

// sample is what a single trial reports back.
type sample struct {
	value    float64
	initial  float64
	vertices float64
	observed bool
}

// Validate checks the settings without running anything.
func (e *Experiment) Validate() error {
	if _, err := ParseStrategy(string(e.Strategy)); err != nil {
		return err
	}
	if e.Trials <= 0 {
		return fmt.Errorf("trials=%d: %w", e.Trials, montecarlo.ErrInvalidArgument)
	}
	if !e.Strategy.Incremental() {
		if _, err := Values(e.Grid.Points...); err != nil {
			return err
		}
	}
	if th := e.SpanningThreshold; th != nil && (*th < 0 || *th > 1) {
		return fmt.Errorf("spanning threshold %v: %w", *th, ErrInvalidExperiment)
	}
	if _, err := percolation.ParseStopPolicy(e.Stop.String()); err != nil {
		return err
	}
	if _, err := percolation.ParseEngine(e.Engine.String()); err != nil {
		return err
	}

	return e.Preprocess.Validate()
}

// Run executes one Monte Carlo batch per snapshot and grid point and
// returns the rows in snapshot order, then grid order.
func (e *Experiment) Run(ctx context.Context, snapshots []Snapshot) (*Table, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	runner := e.Runner
	if runner == nil {
		runner = montecarlo.NewRunner()
	}
	logger := e.Logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	points := e.Grid.Points
	if e.Strategy.Incremental() {
		points = []float64{0}
	}

	table := &Table{Strategy: e.Strategy}
	for _, snap := range snapshots {
		if snap.Graph == nil {
			return table, fmt.Errorf("snapshot %q: nil graph: %w", snap.Name, ErrInvalidExperiment)
		}
		for _, p := range points {
			row, err := e.runPoint(ctx, runner, snap, p)
			if err != nil {
				return table, fmt.Errorf("snapshot %q, intensity %v: %w", snap.Name, p, err)
			}
			logger.Info("grid point done",
				"strategy", string(e.Strategy), "snapshot", snap.Name, "intensity", p,
				"mean", row.Mean, "normalized", row.Normalized, "trials", row.Trials, "failed", row.Failed)
			table.Rows = append(table.Rows, row)
		}
	}

	return table, nil
}

func (e *Experiment) runPoint(ctx context.Context, runner *montecarlo.Runner, snap Snapshot, p float64) (Row, error) {
	samples, rep, err := montecarlo.Collect(ctx, runner, snap.Graph, e.Trials, e.trial(p))
	if err != nil {
		return Row{}, err
	}

	values := make([]float64, len(samples))
	var initial, vertices float64
	observed := 0
	for i, s := range samples {
		values[i] = s.value
		initial += s.initial
		vertices += s.vertices
		if s.observed {
			observed++
		}
	}
	agg := montecarlo.Summarize(values)
	if n := float64(len(samples)); n > 0 {
		initial /= n
		vertices /= n
	}

	row := Row{
		Snapshot:  snap.Name,
		Intensity: p,
		Mean:      agg.Mean,
		StdDev:    agg.StdDev,
		Initial:   initial,
		Trials:    rep.Trials,
		Failed:    rep.Failed,
		Observed:  observed,
	}
	row.Normalized = e.normalize(row.Mean, initial, vertices, p)

	return row, nil
}

// normalize scales a row's mean by the strategy's reference size.
func (e *Experiment) normalize(mean, initial, vertices, p float64) float64 {
	switch e.Strategy {
	case FractionalNodeExactCount:
		// expected survivors of the initial largest component
		trueSize := math.Ceil(initial - vertices*p)
		if trueSize <= 0 {
			return 0
		}
		return mean / trueSize
	case FractionalBond, FractionalNodeCoinFlip, TargetedNode:
		if initial == 0 {
			return 0
		}
		return mean / initial
	default:
		return mean
	}
}

// trial returns the per-trial function of the strategy at intensity p.
func (e *Experiment) trial(p float64) montecarlo.Trial[sample] {
	return func(ctx context.Context, g *core.Graph, rng *rand.Rand) (sample, error) {
		unit := percolation.Bond
		if e.Strategy == IncrementalNode {
			unit = percolation.Site
		}
		denom := g.EdgeCount()
		if unit == percolation.Site {
			denom = g.VertexCount()
		}

		if _, err := preprocess.Apply(g, e.Preprocess, rng); err != nil {
			return sample{}, err
		}

		switch e.Strategy {
		case IncrementalBond, IncrementalNode:
			if denom == 0 {
				return sample{}, nil
			}
			res, err := percolation.Incremental(g, percolation.IncrementalOptions{
				Unit:        unit,
				Stop:        e.Stop,
				Engine:      e.Engine,
				Denominator: denom,
			}, rng)
			if err != nil {
				return sample{}, err
			}
			th, ok := res.Threshold()
			return sample{value: th, initial: float64(res.Initial), observed: ok}, nil

		case FractionalBond, FractionalNodeCoinFlip, FractionalNodeExactCount:
			pair, err := percolation.Fractional(g, fractionalKind(e.Strategy), p, rng)
			if err != nil {
				return sample{}, err
			}
			return sample{value: float64(pair.Final), initial: float64(pair.Initial), vertices: float64(pair.Vertices)}, nil

		case SpanningThreshold:
			th := percolation.DefaultSpanningThreshold
			if e.SpanningThreshold != nil {
				th = *e.SpanningThreshold
			}
			ok, err := percolation.Spanning(g, p, th, rng)
			if err != nil {
				return sample{}, err
			}
			s := sample{observed: ok}
			if ok {
				s.value = 1
			}
			return s, nil

		case TargetedNode:
			pair, _, err := percolation.TargetedRemoval(g, p)
			if err != nil {
				return sample{}, err
			}
			return sample{value: float64(pair.Final), initial: float64(pair.Initial), vertices: float64(pair.Vertices)}, nil
		}

		return sample{}, fmt.Errorf("%q: %w", e.Strategy, ErrUnknownStrategy)
	}
}

func fractionalKind(s Strategy) percolation.FractionalKind {
	switch s {
	case FractionalNodeCoinFlip:
		return percolation.FractionalSiteCoinFlip
	case FractionalNodeExactCount:
		return percolation.FractionalSiteExact
	default:
		return percolation.FractionalBond
	}
}
