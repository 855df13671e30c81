package experiment_test

import (
	"bytes"
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/percolath/core"
	"github.com/katalvlaran/percolath/experiment"
	"github.com/katalvlaran/percolath/internal/logging"
	"github.com/katalvlaran/percolath/montecarlo"
	"github.com/katalvlaran/percolath/percolation"
	"github.com/katalvlaran/percolath/preprocess"
)

func ring(t *testing.T, n int) *core.Graph {
	t.Helper()
	g := core.NewMultigraph()
	for i := 0; i < n; i++ {
		_, err := g.AddEdge(strconv.Itoa(i), strconv.Itoa((i+1)%n), 0)
		require.NoError(t, err)
	}

	return g
}

func ptr(v float64) *float64 { return &v }

// pairs builds n disjoint edges "a<i>"-"b<i>".
func pairs(t *testing.T, n int) *core.Graph {
	t.Helper()
	g := core.NewMultigraph()
	for i := 0; i < n; i++ {
		_, err := g.AddEdge("a"+strconv.Itoa(i), "b"+strconv.Itoa(i), 0)
		require.NoError(t, err)
	}

	return g
}

func runner() *montecarlo.Runner {
	return montecarlo.NewRunner(montecarlo.WithSeed(7), montecarlo.WithWorkers(2))
}

func TestGrid(t *testing.T) {
	g, err := experiment.Range(0, 1, 0.1)
	require.NoError(t, err)
	require.Len(t, g.Points, 11)
	assert.Equal(t, 0.3, g.Points[3])
	assert.Equal(t, 1.0, g.Points[10])

	g, err = experiment.Range(0.1, 1, 0.1)
	require.NoError(t, err)
	assert.Len(t, g.Points, 10)

	_, err = experiment.Range(0, 1, 0)
	require.ErrorIs(t, err, experiment.ErrInvalidGrid)
	_, err = experiment.Range(0.5, 0.2, 0.1)
	require.ErrorIs(t, err, experiment.ErrInvalidGrid)
	_, err = experiment.Range(0, 1.5, 0.5)
	require.ErrorIs(t, err, experiment.ErrInvalidGrid)
	_, err = experiment.Values()
	require.ErrorIs(t, err, experiment.ErrInvalidGrid)

	v, err := experiment.Values(0.9, 0.1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.9, 0.1}, v.Points, "explicit order is kept")
}

func TestParseStrategy(t *testing.T) {
	for _, s := range experiment.Strategies() {
		got, err := experiment.ParseStrategy(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := experiment.ParseStrategy("random-walk")
	require.ErrorIs(t, err, experiment.ErrUnknownStrategy)
	assert.True(t, experiment.IncrementalNode.Incremental())
	assert.False(t, experiment.SpanningThreshold.Incremental())
}

func TestRun_FractionalBondExtremes(t *testing.T) {
	grid, err := experiment.Values(0, 1)
	require.NoError(t, err)
	exp := &experiment.Experiment{
		Strategy: experiment.FractionalBond,
		Trials:   8,
		Grid:     grid,
		Runner:   runner(),
	}
	table, err := exp.Run(context.Background(), []experiment.Snapshot{{Name: "ring", Graph: ring(t, 10)}})
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, 10.0, table.Rows[0].Mean)
	assert.Equal(t, 1.0, table.Rows[0].Normalized)
	assert.Equal(t, 1.0, table.Rows[1].Mean, "only singletons are left")
	assert.InDelta(t, 0.1, table.Rows[1].Normalized, 1e-12)
	assert.Equal(t, 8, table.Rows[1].Trials)

	assert.Equal(t, []experiment.Point{{X: 0, Y: 1}, {X: 1, Y: 0.1}}, table.Series("ring"))
}

func TestRun_ExactCountNormalization(t *testing.T) {
	grid, err := experiment.Values(0, 1)
	require.NoError(t, err)
	exp := &experiment.Experiment{
		Strategy: experiment.FractionalNodeExactCount,
		Trials:   4,
		Grid:     grid,
		Runner:   runner(),
	}
	table, err := exp.Run(context.Background(), []experiment.Snapshot{{Name: "ring", Graph: ring(t, 10)}})
	require.NoError(t, err)
	assert.Equal(t, 1.0, table.Rows[0].Normalized)
	assert.Equal(t, 0.0, table.Rows[1].Mean)
	assert.Equal(t, 0.0, table.Rows[1].Normalized, "non-positive true size yields 0")
}

func TestRun_Spanning(t *testing.T) {
	grid, err := experiment.Values(0, 1)
	require.NoError(t, err)
	exp := &experiment.Experiment{
		Strategy: experiment.SpanningThreshold,
		Trials:   5,
		Grid:     grid,
		Runner:   runner(),
	}
	table, err := exp.Run(context.Background(), []experiment.Snapshot{{Name: "ring", Graph: ring(t, 6)}})
	require.NoError(t, err)
	assert.Equal(t, 1.0, table.Rows[0].Mean)
	assert.Equal(t, 5, table.Rows[0].Observed)
	assert.Equal(t, 0.0, table.Rows[1].Mean)
}

func TestRun_SpanningThresholdZeroIsKept(t *testing.T) {
	grid, err := experiment.Values(0)
	require.NoError(t, err)
	run := func(th *float64) experiment.Row {
		exp := &experiment.Experiment{
			Strategy:          experiment.SpanningThreshold,
			Trials:            4,
			Grid:              grid,
			SpanningThreshold: th,
			Runner:            runner(),
		}
		table, err := exp.Run(context.Background(), []experiment.Snapshot{{Name: "pairs", Graph: pairs(t, 4)}})
		require.NoError(t, err)
		require.Len(t, table.Rows, 1)
		return table.Rows[0]
	}

	// largest component is 2 of 8 survivors
	assert.Equal(t, 1.0, run(ptr(0)).Mean, "threshold 0 always spans")
	assert.Equal(t, 1.0, run(ptr(0.25)).Mean)
	assert.Equal(t, 0.0, run(nil).Mean, "nil falls back to the 0.5 default")
}

func TestRun_IncrementalIgnoresGrid(t *testing.T) {
	exp := &experiment.Experiment{
		Strategy:   experiment.IncrementalBond,
		Trials:     6,
		Runner:     runner(),
		Preprocess: preprocess.Options{StripSelfOnly: true},
	}
	snaps := []experiment.Snapshot{
		{Name: "2001-04", Graph: ring(t, 4)},
		{Name: "2001-05", Graph: core.NewMultigraph()},
	}
	table, err := exp.Run(context.Background(), snaps)
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"2001-04", "2001-05"}, table.Snapshots())

	// a 4-cycle never shows a decreasing second-largest component
	assert.Equal(t, 0.0, table.Rows[0].Mean)
	assert.Zero(t, table.Rows[0].Observed)
	assert.Equal(t, 4.0, table.Rows[0].Initial)

	// empty snapshot: zero statistics, no error
	assert.Equal(t, experiment.Row{Snapshot: "2001-05", Trials: 6}, table.Rows[1])
}

func TestRun_SeededRunsRepeat(t *testing.T) {
	grid, err := experiment.Range(0.2, 0.6, 0.2)
	require.NoError(t, err)
	mk := func() *experiment.Experiment {
		return &experiment.Experiment{
			Strategy: experiment.FractionalNodeCoinFlip,
			Trials:   20,
			Grid:     grid,
			Runner:   runner(),
		}
	}
	a, err := mk().Run(context.Background(), []experiment.Snapshot{{Name: "r", Graph: ring(t, 30)}})
	require.NoError(t, err)
	b, err := mk().Run(context.Background(), []experiment.Snapshot{{Name: "r", Graph: ring(t, 30)}})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestValidate(t *testing.T) {
	grid, _ := experiment.Values(0.5)
	bad := []*experiment.Experiment{
		{Strategy: "nope", Trials: 1, Grid: grid},
		{Strategy: experiment.FractionalBond, Trials: 0, Grid: grid},
		{Strategy: experiment.FractionalBond, Trials: 1},
		{Strategy: experiment.SpanningThreshold, Trials: 1, Grid: grid, SpanningThreshold: ptr(2)},
	}
	for i, e := range bad {
		assert.Error(t, e.Validate(), "case %d", i)
	}
	_, err := bad[1].Run(context.Background(), nil)
	require.ErrorIs(t, err, montecarlo.ErrInvalidArgument)

	badStop := &experiment.Experiment{Strategy: experiment.IncrementalBond, Trials: 1, Stop: percolation.StopPolicy(9)}
	require.ErrorIs(t, badStop.Validate(), percolation.ErrInvalidOption)
	badEngine := &experiment.Experiment{Strategy: experiment.IncrementalBond, Trials: 1, Engine: percolation.Engine(-1)}
	_, err = badEngine.Run(context.Background(), []experiment.Snapshot{{Name: "r", Graph: ring(t, 4)}})
	require.ErrorIs(t, err, percolation.ErrInvalidOption, "rejected before any trial runs")
	require.NotErrorIs(t, err, montecarlo.ErrTrialFailed)

	ok := &experiment.Experiment{Strategy: experiment.IncrementalNode, Trials: 1}
	require.NoError(t, ok.Validate(), "incremental strategies need no grid")
}

func TestRun_LogsThroughContext(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), logging.NewLogger("info", &buf))
	grid, err := experiment.Values(0.5)
	require.NoError(t, err)
	exp := &experiment.Experiment{
		Strategy: experiment.TargetedNode,
		Trials:   1,
		Grid:     grid,
		Runner:   runner(),
	}
	table, err := exp.Run(ctx, []experiment.Snapshot{{Name: "ring", Graph: ring(t, 8)}})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Contains(t, buf.String(), "grid point done")
	assert.Contains(t, buf.String(), "strategy=targeted-node")
}
