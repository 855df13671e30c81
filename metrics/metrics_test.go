package metrics

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"net/http/httptest"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/percolath/core"
	"github.com/katalvlaran/percolath/experiment"
	"github.com/katalvlaran/percolath/internal/logging"
	"github.com/katalvlaran/percolath/montecarlo"
)

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))

	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))

	return m.GetGauge().GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	require.NotNil(t, r.TrialsTotal)
	require.NotNil(t, r.TrialDuration)
	require.NotNil(t, r.RowsTotal)
	require.NotNil(t, r.SnapshotEdges)
	require.NotNil(t, r.GetPrometheusRegistry())

	// two registries never collide
	require.NotPanics(t, func() { NewRegistry() })
}

func TestRecordTrial(t *testing.T) {
	r := NewRegistry()
	rec := r.Trials("fractional-bond")
	rec.ObserveTrial(10*time.Millisecond, nil)
	rec.ObserveTrial(20*time.Millisecond, nil)
	rec.ObserveTrial(time.Millisecond, errors.New("boom"))

	ok, err := r.TrialsTotal.GetMetricWithLabelValues("fractional-bond", StatusOK)
	require.NoError(t, err)
	assert.Equal(t, 2.0, counterValue(t, ok))

	failed, err := r.TrialsTotal.GetMetricWithLabelValues("fractional-bond", StatusFailed)
	require.NoError(t, err)
	assert.Equal(t, 1.0, counterValue(t, failed))

	hist, err := r.TrialDuration.GetMetricWithLabelValues("fractional-bond")
	require.NoError(t, err)
	var m dto.Metric
	require.NoError(t, hist.(interface{ Write(*dto.Metric) error }).Write(&m))
	assert.Equal(t, uint64(3), m.GetHistogram().GetSampleCount())
}

func TestRecorderWiredIntoRunner(t *testing.T) {
	r := NewRegistry()
	runner := montecarlo.NewRunner(
		montecarlo.WithSeed(1),
		montecarlo.WithWorkers(2),
		montecarlo.WithRecorder(r.Trials("spanning-threshold")),
	)
	g := core.NewGraph()
	require.NoError(t, g.AddVertex("A"))

	_, err := runner.Run(context.Background(), g, 5, func(_ context.Context, _ *core.Graph, _ *rand.Rand) (float64, error) {
		return 1, nil
	})
	require.NoError(t, err)

	ok, err := r.TrialsTotal.GetMetricWithLabelValues("spanning-threshold", StatusOK)
	require.NoError(t, err)
	assert.Equal(t, 5.0, counterValue(t, ok))
}

func TestRecordTableAndSnapshots(t *testing.T) {
	r := NewRegistry()
	table := &experiment.Table{
		Strategy: experiment.FractionalBond,
		Rows: []experiment.Row{
			{Snapshot: "2001-05", Intensity: 0.25, Mean: 12, Normalized: 0.5},
			{Snapshot: "2001-05", Intensity: 0.5, Mean: 3, Normalized: 0.125},
		},
	}
	r.RecordTable(table)

	rows, err := r.RowsTotal.GetMetricWithLabelValues("fractional-bond")
	require.NoError(t, err)
	assert.Equal(t, 2.0, counterValue(t, rows))

	mean, err := r.RowMean.GetMetricWithLabelValues("fractional-bond", "2001-05", "0.25")
	require.NoError(t, err)
	assert.Equal(t, 12.0, gaugeValue(t, mean))

	g := core.NewMultigraph()
	_, err = g.AddEdge("a", "b", 0)
	require.NoError(t, err)
	_, err = g.AddEdge("a", "b", 0)
	require.NoError(t, err)
	r.RecordSnapshots([]experiment.Snapshot{{Name: "2001-05", Graph: g}})

	edges, err := r.SnapshotEdges.GetMetricWithLabelValues("2001-05")
	require.NoError(t, err)
	assert.Equal(t, 2.0, gaugeValue(t, edges))
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.RecordTrial("incremental-bond", time.Millisecond, nil)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `percolath_trials_total{status="ok",strategy="incremental-bond"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestServeStopsOnCancel(t *testing.T) {
	r := NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx, "127.0.0.1:0", logging.Discard()) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
