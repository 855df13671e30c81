package experiment

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/percolath/core"
)

var (
	// ErrUnknownStrategy indicates a strategy name outside the supported set.
	ErrUnknownStrategy = errors.New("experiment: unknown strategy")

	// ErrInvalidGrid indicates an empty grid, a bad step or a point outside [0,1].
	ErrInvalidGrid = errors.New("experiment: invalid grid")

	// ErrInvalidExperiment indicates inconsistent experiment settings.
	ErrInvalidExperiment = errors.New("experiment: invalid settings")
)

// Strategy names a removal strategy.
type Strategy string

// Supported strategies.
const (
	IncrementalBond          Strategy = "incremental-bond"
	IncrementalNode          Strategy = "incremental-node"
	FractionalBond           Strategy = "fractional-bond"
	FractionalNodeCoinFlip   Strategy = "fractional-node-coinflip"
	FractionalNodeExactCount Strategy = "fractional-node-exact-count"
	SpanningThreshold        Strategy = "spanning-threshold"
	TargetedNode             Strategy = "targeted-node"
)

// Strategies lists every supported strategy in a stable order.
func Strategies() []Strategy {
	return []Strategy{
		IncrementalBond, IncrementalNode,
		FractionalBond, FractionalNodeCoinFlip, FractionalNodeExactCount,
		SpanningThreshold, TargetedNode,
	}
}

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	for _, st := range Strategies() {
		if string(st) == s {
			return st, nil
		}
	}

	return "", fmt.Errorf("%q: %w", s, ErrUnknownStrategy)
}

// Incremental reports whether the strategy ignores the intensity grid.
func (s Strategy) Incremental() bool {
	return s == IncrementalBond || s == IncrementalNode
}

// gridPrecision is the rounding applied to generated grid points.
const gridPrecision = 1e9

// Grid is an ordered list of intensities in [0,1].
type Grid struct {
	Points []float64
}

// Range builds start, start+step, ... up to end inclusive. Points are
// rounded to 1e-9 so that 0.1 steps land on 0.3 rather than 0.30000000000000004.
func Range(start, end, step float64) (Grid, error) {
	if !(step > 0) || math.IsInf(step, 0) {
		return Grid{}, fmt.Errorf("step %v: %w", step, ErrInvalidGrid)
	}
	if start > end {
		return Grid{}, fmt.Errorf("start %v > end %v: %w", start, end, ErrInvalidGrid)
	}
	n := int(math.Floor((end-start)/step+1e-9)) + 1
	pts := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		pts = append(pts, math.Round((start+float64(i)*step)*gridPrecision)/gridPrecision)
	}

	return Values(pts...)
}

// Values builds a grid from an explicit list, keeping its order.
func Values(points ...float64) (Grid, error) {
	if len(points) == 0 {
		return Grid{}, fmt.Errorf("no points: %w", ErrInvalidGrid)
	}
	for _, p := range points {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return Grid{}, fmt.Errorf("point %v not in [0,1]: %w", p, ErrInvalidGrid)
		}
	}

	return Grid{Points: append([]float64(nil), points...)}, nil
}

// Snapshot is one named input graph, e.g. one month of messages.
type Snapshot struct {
	Name  string
	Graph *core.Graph
}

// Row is the reduction of one Monte Carlo batch.
type Row struct {
	Snapshot  string
	Intensity float64 // removal probability/fraction; 0 for incremental rows

	// Mean is the strategy's primary value: threshold (incremental),
	// final largest component (fractional, targeted) or success ratio
	// (spanning).
	Mean   float64
	StdDev float64

	// Initial is the mean largest component before removal (fractional,
	// targeted) or the mean element count (incremental).
	Initial float64

	// Normalized is Mean scaled by the strategy's reference size; equal to
	// Mean for incremental and spanning rows.
	Normalized float64

	Trials int
	Failed int

	// Observed counts trials that produced a transition (incremental) or a
	// spanning cluster (spanning).
	Observed int
}

// Table holds every row of one experiment run.
type Table struct {
	Strategy Strategy
	Rows     []Row
}

// Point is one (intensity, value) pair of a series.
type Point struct {
	X float64
	Y float64
}

// Series returns the (Intensity, Normalized) curve of one snapshot sorted
// by intensity.
func (t *Table) Series(snapshot string) []Point {
	var out []Point
	for _, r := range t.Rows {
		if r.Snapshot == snapshot {
			out = append(out, Point{X: r.Intensity, Y: r.Normalized})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].X < out[j].X })

	return out
}

// Snapshots returns the distinct snapshot names in row order.
func (t *Table) Snapshots() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range t.Rows {
		if !seen[r.Snapshot] {
			seen[r.Snapshot] = true
			out = append(out, r.Snapshot)
		}
	}

	return out
}
