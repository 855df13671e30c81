package montecarlo

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/katalvlaran/percolath/core"
)

var (
	// ErrInvalidArgument indicates a non-positive trial count, a negative
	// worker count or an empty value set.
	ErrInvalidArgument = errors.New("montecarlo: invalid argument")

	// ErrTrialFailed indicates one or more trials returned an error or panicked.
	ErrTrialFailed = errors.New("montecarlo: trial failed")
)

// Trial is one randomized experiment on an exclusively owned graph copy.
type Trial[T any] func(ctx context.Context, g *core.Graph, rng *rand.Rand) (T, error)

// FailurePolicy decides what a trial error does to the run.
type FailurePolicy int

const (
	// FailFast aborts the run at the first failing trial.
	FailFast FailurePolicy = iota
	// Tolerate keeps going and reports the failure count.
	Tolerate
)

// String implements fmt.Stringer.
func (p FailurePolicy) String() string {
	if p == Tolerate {
		return "tolerate"
	}

	return "fail-fast"
}

// ParseFailurePolicy maps "fail-fast" / "tolerate" to a FailurePolicy.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch s {
	case "", "fail-fast", "failfast":
		return FailFast, nil
	case "tolerate":
		return Tolerate, nil
	default:
		return 0, fmt.Errorf("failure policy %q: %w", s, ErrInvalidArgument)
	}
}

// Recorder receives the duration and outcome of every finished trial.
// Implementations must be safe for concurrent use.
type Recorder interface {
	ObserveTrial(d time.Duration, err error)
}

// Report describes how a run went, independent of the values produced.
type Report struct {
	Seed      int64
	Trials    int
	Succeeded int
	Failed    int
	Workers   int
	Duration  time.Duration
}

// Aggregate is the reduction of a float64 run.
type Aggregate struct {
	Mean   float64
	StdDev float64 // sample standard deviation, 0 for fewer than two values
	Min    float64
	Max    float64

	// Values holds the successful trial values in trial-index order.
	Values []float64

	Trials int
	Failed int
}
