// Package metrics exposes Prometheus instrumentation for percolation runs:
// per-trial counters and latencies, per-row results and snapshot sizes.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/katalvlaran/percolath/experiment"
	"github.com/katalvlaran/percolath/montecarlo"
)

// Trial outcome label values.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Registry holds every collector on a private prometheus.Registry.
type Registry struct {
	TrialsTotal   *prometheus.CounterVec
	TrialDuration *prometheus.HistogramVec

	RowsTotal     *prometheus.CounterVec
	RowMean       *prometheus.GaugeVec
	RowNormalized *prometheus.GaugeVec

	SnapshotVertices *prometheus.GaugeVec
	SnapshotEdges    *prometheus.GaugeVec

	registry *prometheus.Registry
}

// NewRegistry creates a registry with all collectors registered, plus the
// Go runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{registry: reg}
	r.initTrialMetrics()
	r.initResultMetrics()

	return r
}

func (r *Registry) initTrialMetrics() {
	r.TrialsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "percolath_trials_total",
			Help: "Total number of Monte Carlo trials",
		},
		[]string{"strategy", "status"},
	)

	r.TrialDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "percolath_trial_duration_seconds",
			Help:    "Wall time of one trial in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
		[]string{"strategy"},
	)
}

func (r *Registry) initResultMetrics() {
	r.RowsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "percolath_rows_total",
			Help: "Total number of result rows produced",
		},
		[]string{"strategy"},
	)

	r.RowMean = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "percolath_row_mean",
			Help: "Mean of the most recent row per snapshot and intensity",
		},
		[]string{"strategy", "snapshot", "intensity"},
	)

	r.RowNormalized = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "percolath_row_normalized",
			Help: "Normalized mean of the most recent row per snapshot and intensity",
		},
		[]string{"strategy", "snapshot", "intensity"},
	)

	r.SnapshotVertices = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "percolath_snapshot_vertices",
			Help: "Vertex count of a loaded snapshot",
		},
		[]string{"snapshot"},
	)

	r.SnapshotEdges = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "percolath_snapshot_edges",
			Help: "Edge count of a loaded snapshot",
		},
		[]string{"snapshot"},
	)
}

// RecordTrial records one trial outcome.
func (r *Registry) RecordTrial(strategy string, d time.Duration, err error) {
	status := StatusOK
	if err != nil {
		status = StatusFailed
	}
	r.TrialsTotal.WithLabelValues(strategy, status).Inc()
	r.TrialDuration.WithLabelValues(strategy).Observe(d.Seconds())
}

// RecordTable records every row of t.
func (r *Registry) RecordTable(t *experiment.Table) {
	strategy := string(t.Strategy)
	for _, row := range t.Rows {
		intensity := formatIntensity(row.Intensity)
		r.RowsTotal.WithLabelValues(strategy).Inc()
		r.RowMean.WithLabelValues(strategy, row.Snapshot, intensity).Set(row.Mean)
		r.RowNormalized.WithLabelValues(strategy, row.Snapshot, intensity).Set(row.Normalized)
	}
}

// RecordSnapshots sets the size gauges of every snapshot.
func (r *Registry) RecordSnapshots(snaps []experiment.Snapshot) {
	for _, s := range snaps {
		r.SnapshotVertices.WithLabelValues(s.Name).Set(float64(s.Graph.VertexCount()))
		r.SnapshotEdges.WithLabelValues(s.Name).Set(float64(s.Graph.EdgeCount()))
	}
}

// Trials returns a montecarlo.Recorder bound to strategy.
func (r *Registry) Trials(strategy string) montecarlo.Recorder {
	return trialRecorder{reg: r, strategy: strategy}
}

type trialRecorder struct {
	reg      *Registry
	strategy string
}

func (t trialRecorder) ObserveTrial(d time.Duration, err error) {
	t.reg.RecordTrial(t.strategy, d, err)
}

// GetPrometheusRegistry returns the underlying registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (r *Registry) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func formatIntensity(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
