package montecarlo_test

import (
	"context"
	"errors"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/percolath/core"
	"github.com/katalvlaran/percolath/montecarlo"
)

var errBoom = errors.New("boom")

func pathGraph(t *testing.T) *core.Graph {
	t.Helper()
	g := core.NewMultigraph()
	for _, p := range [][2]string{{"A", "B"}, {"B", "C"}, {"C", "D"}} {
		_, err := g.AddEdge(p[0], p[1], 0)
		require.NoError(t, err)
	}

	return g
}

func TestRun_ConstantStrategy(t *testing.T) {
	r := montecarlo.NewRunner(montecarlo.WithSeed(1), montecarlo.WithWorkers(3))
	agg, err := r.Run(context.Background(), pathGraph(t), 25, func(context.Context, *core.Graph, *rand.Rand) (float64, error) {
		return 0.42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0.42, agg.Mean)
	assert.Zero(t, agg.StdDev)
	assert.Equal(t, 0.42, agg.Min)
	assert.Equal(t, 0.42, agg.Max)
	assert.Len(t, agg.Values, 25)
	assert.Equal(t, 25, agg.Trials)
	assert.Zero(t, agg.Failed)
}

func TestRun_RejectsNonPositiveTrials(t *testing.T) {
	r := montecarlo.NewRunner()
	called := false
	fn := func(context.Context, *core.Graph, *rand.Rand) (float64, error) {
		called = true
		return 0, nil
	}
	for _, n := range []int{0, -3} {
		_, err := r.Run(context.Background(), pathGraph(t), n, fn)
		require.ErrorIs(t, err, montecarlo.ErrInvalidArgument)
	}
	assert.False(t, called)

	_, err := montecarlo.NewRunner(montecarlo.WithWorkers(-1)).Run(context.Background(), pathGraph(t), 1, fn)
	require.ErrorIs(t, err, montecarlo.ErrInvalidArgument)
}

func TestCollect_TrialsOwnTheirGraph(t *testing.T) {
	src := pathGraph(t)
	r := montecarlo.NewRunner(montecarlo.WithSeed(9), montecarlo.WithWorkers(4))
	counts, rep, err := montecarlo.Collect(context.Background(), r, src, 16, func(_ context.Context, g *core.Graph, _ *rand.Rand) (int, error) {
		n := g.VertexCount()
		for _, id := range g.Vertices() {
			if err := g.RemoveVertex(id); err != nil {
				return 0, err
			}
		}
		return n, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 16, rep.Succeeded)
	for _, c := range counts {
		assert.Equal(t, 4, c)
	}
	assert.Equal(t, 4, src.VertexCount())
	assert.Equal(t, 3, src.EdgeCount())
}

func TestCollect_SeedDeterminismAcrossWorkers(t *testing.T) {
	draw := func(_ context.Context, _ *core.Graph, rng *rand.Rand) (float64, error) {
		return rng.Float64(), nil
	}
	var runs [][]float64
	for _, w := range []int{1, 2, 8} {
		r := montecarlo.NewRunner(montecarlo.WithSeed(2024), montecarlo.WithWorkers(w))
		vals, rep, err := montecarlo.Collect(context.Background(), r, pathGraph(t), 40, draw)
		require.NoError(t, err)
		assert.Equal(t, int64(2024), rep.Seed)
		runs = append(runs, vals)
	}
	assert.Equal(t, runs[0], runs[1])
	assert.Equal(t, runs[0], runs[2])

	// different trials draw from different streams
	assert.NotEqual(t, runs[0][0], runs[0][1])

	other, _, err := montecarlo.Collect(context.Background(),
		montecarlo.NewRunner(montecarlo.WithSeed(2025), montecarlo.WithWorkers(1)), pathGraph(t), 40, draw)
	require.NoError(t, err)
	assert.NotEqual(t, runs[0], other)
}

func TestCollect_FailFast(t *testing.T) {
	for _, w := range []int{1, 4} {
		r := montecarlo.NewRunner(montecarlo.WithSeed(1), montecarlo.WithWorkers(w))
		var started int32
		_, rep, err := montecarlo.Collect(context.Background(), r, pathGraph(t), 50, func(context.Context, *core.Graph, *rand.Rand) (int, error) {
			if atomic.AddInt32(&started, 1) == 3 {
				return 0, errBoom
			}
			return 1, nil
		})
		require.ErrorIs(t, err, montecarlo.ErrTrialFailed)
		require.ErrorIs(t, err, errBoom)
		assert.GreaterOrEqual(t, rep.Failed, 1)
	}
}

func TestCollect_Tolerate(t *testing.T) {
	r := montecarlo.NewRunner(
		montecarlo.WithSeed(1),
		montecarlo.WithWorkers(3),
		montecarlo.WithFailurePolicy(montecarlo.Tolerate),
	)
	var calls int32
	agg, err := r.Run(context.Background(), pathGraph(t), 10, func(context.Context, *core.Graph, *rand.Rand) (float64, error) {
		if atomic.AddInt32(&calls, 1)%2 == 0 {
			return 0, errBoom
		}
		return 2, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 5, agg.Failed)
	assert.Len(t, agg.Values, 5)
	assert.Equal(t, 2.0, agg.Mean, "failed trials are not averaged in")

	_, err = r.Run(context.Background(), pathGraph(t), 4, func(context.Context, *core.Graph, *rand.Rand) (float64, error) {
		return 0, errBoom
	})
	require.ErrorIs(t, err, montecarlo.ErrTrialFailed, "all-failed run is an error")
}

func TestCollect_PanicBecomesError(t *testing.T) {
	r := montecarlo.NewRunner(montecarlo.WithSeed(1), montecarlo.WithWorkers(2))
	_, err := r.Run(context.Background(), pathGraph(t), 3, func(context.Context, *core.Graph, *rand.Rand) (float64, error) {
		panic("bad trial")
	})
	require.ErrorIs(t, err, montecarlo.ErrTrialFailed)
	assert.Contains(t, err.Error(), "bad trial")
}

func TestCollect_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := montecarlo.NewRunner(montecarlo.WithSeed(1), montecarlo.WithWorkers(2))
	_, err := r.Run(ctx, pathGraph(t), 5, func(context.Context, *core.Graph, *rand.Rand) (float64, error) {
		return 1, nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

type countingRecorder struct {
	ok, failed int64
}

func (c *countingRecorder) ObserveTrial(_ time.Duration, err error) {
	if err != nil {
		atomic.AddInt64(&c.failed, 1)
		return
	}
	atomic.AddInt64(&c.ok, 1)
}

func TestCollect_Recorder(t *testing.T) {
	rec := &countingRecorder{}
	r := montecarlo.NewRunner(
		montecarlo.WithSeed(1),
		montecarlo.WithWorkers(4),
		montecarlo.WithFailurePolicy(montecarlo.Tolerate),
		montecarlo.WithRecorder(rec),
	)
	_, _, err := montecarlo.Collect(context.Background(), r, pathGraph(t), 12, func(_ context.Context, _ *core.Graph, rng *rand.Rand) (int, error) {
		return 0, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), atomic.LoadInt64(&rec.ok))
	assert.Zero(t, atomic.LoadInt64(&rec.failed))
}

func TestParseFailurePolicy(t *testing.T) {
	p, err := montecarlo.ParseFailurePolicy("tolerate")
	require.NoError(t, err)
	assert.Equal(t, montecarlo.Tolerate, p)
	p, err = montecarlo.ParseFailurePolicy("")
	require.NoError(t, err)
	assert.Equal(t, montecarlo.FailFast, p)
	_, err = montecarlo.ParseFailurePolicy("ignore")
	require.ErrorIs(t, err, montecarlo.ErrInvalidArgument)
}
