package percolation

import (
	"errors"
	"fmt"
)

// Sentinel errors for the percolation strategies.
var (
	// ErrInvalidIntensity indicates a probability, fraction or threshold outside [0,1].
	ErrInvalidIntensity = errors.New("percolation: intensity out of range")

	// ErrInvalidOrder indicates an explicit removal order naming an unknown
	// or repeated element.
	ErrInvalidOrder = errors.New("percolation: invalid removal order")

	// ErrNeedRandSource indicates a random choice was required with a nil rng.
	ErrNeedRandSource = errors.New("percolation: rng is required")

	// ErrInvalidOption indicates an unknown enum value or negative denominator.
	ErrInvalidOption = errors.New("percolation: invalid option")
)

// DefaultSpanningThreshold is the share of surviving vertices the largest
// component must hold for Spanning to succeed.
const DefaultSpanningThreshold = 0.5

// Unit selects what a strategy removes.
type Unit int

const (
	// Bond removes edge instances.
	Bond Unit = iota
	// Site removes vertices with their incident edges.
	Site
)

// String implements fmt.Stringer.
func (u Unit) String() string {
	switch u {
	case Bond:
		return "bond"
	case Site:
		return "site"
	default:
		return fmt.Sprintf("Unit(%d)", int(u))
	}
}

// StopPolicy decides when an incremental run ends.
type StopPolicy int

const (
	// StopWhenExhausted runs until no removable element is left.
	StopWhenExhausted StopPolicy = iota
	// StopWhenFragmented ends at the first step leaving fewer than two
	// non-trivial components.
	StopWhenFragmented
)

// String implements fmt.Stringer.
func (s StopPolicy) String() string {
	switch s {
	case StopWhenExhausted:
		return "exhausted"
	case StopWhenFragmented:
		return "fragmented"
	default:
		return fmt.Sprintf("StopPolicy(%d)", int(s))
	}
}

// ParseStopPolicy maps "exhausted" / "fragmented" to a StopPolicy.
func ParseStopPolicy(s string) (StopPolicy, error) {
	switch s {
	case "", "exhausted":
		return StopWhenExhausted, nil
	case "fragmented":
		return StopWhenFragmented, nil
	default:
		return 0, fmt.Errorf("stop policy %q: %w", s, ErrInvalidOption)
	}
}

// Engine selects how component statistics are obtained after each removal.
type Engine int

const (
	// EngineReplay answers every step from one backwards union-find pass.
	EngineReplay Engine = iota
	// EngineRecompute mutates the graph and relabels components each step.
	EngineRecompute
)

// String implements fmt.Stringer.
func (e Engine) String() string {
	switch e {
	case EngineReplay:
		return "replay"
	case EngineRecompute:
		return "recompute"
	default:
		return fmt.Sprintf("Engine(%d)", int(e))
	}
}

// ParseEngine maps "replay" / "recompute" to an Engine.
func ParseEngine(s string) (Engine, error) {
	switch s {
	case "", "replay":
		return EngineReplay, nil
	case "recompute":
		return EngineRecompute, nil
	default:
		return 0, fmt.Errorf("engine %q: %w", s, ErrInvalidOption)
	}
}

// TransitionKind tells which way the second-largest size turned.
type TransitionKind int

const (
	// Decrease marks the first step of a decreasing run.
	Decrease TransitionKind = iota
	// Increase marks the first step of an increasing run.
	Increase
)

// String implements fmt.Stringer.
func (k TransitionKind) String() string {
	if k == Decrease {
		return "decrease"
	}

	return "increase"
}

// Transition records a latch event of the trend detector.
type Transition struct {
	Kind      TransitionKind
	Step      int     // 1-based removal step
	Remaining int     // elements left after the step
	Ratio     float64 // Remaining / Denominator
}

// Terminal is the state an incremental run ended in.
type Terminal int

const (
	// Exhausted: every element was removed.
	Exhausted Terminal = iota
	// Fragmented: StopWhenFragmented met a step with fewer than two
	// non-trivial components.
	Fragmented
)

// String implements fmt.Stringer.
func (t Terminal) String() string {
	if t == Fragmented {
		return "fragmented"
	}

	return "exhausted"
}

// Step describes one removal as seen by an Observer.
type Step struct {
	Index         int    // 1-based
	Removed       string // edge ID (Bond) or vertex ID (Site)
	Remaining     int
	Ratio         float64
	NonTrivial    int
	SecondLargest int
	Evaluated     bool // false when fewer than two non-trivial components
}

// IncrementalOptions configures Incremental. The zero value is a bond run
// to exhaustion on the replay engine with a random order.
type IncrementalOptions struct {
	Unit   Unit
	Stop   StopPolicy
	Engine Engine

	// Denominator is the element count ratios are taken against, usually
	// the count before preprocessing. Zero means the current count.
	Denominator int

	// Order lists elements to remove first, in this order. Elements not
	// listed follow in uniformly random order.
	Order []string

	// Observer, when set, sees every step.
	Observer func(Step)
}

// IncrementalResult is the outcome of one incremental run.
type IncrementalResult struct {
	Unit        Unit
	Terminal    Terminal
	Steps       int // removals applied to the graph
	Initial     int // elements present at the start
	Denominator int

	// Transitions lists every latch event in step order.
	Transitions []Transition

	// Series holds the starting second-largest size followed by the value
	// at every evaluated step.
	Series []int
}

// Threshold returns the ratio of the last recorded Decrease and true, or
// (0, false) when the second-largest component never started decreasing.
func (r *IncrementalResult) Threshold() (float64, bool) {
	for i := len(r.Transitions) - 1; i >= 0; i-- {
		if r.Transitions[i].Kind == Decrease {
			return r.Transitions[i].Ratio, true
		}
	}

	return 0, false
}

// FractionalKind selects the fractional removal variant.
type FractionalKind int

const (
	// FractionalBond flips a coin per edge.
	FractionalBond FractionalKind = iota
	// FractionalSiteCoinFlip flips a coin per vertex.
	FractionalSiteCoinFlip
	// FractionalSiteExact removes exactly floor(V·p) sampled vertices.
	FractionalSiteExact
)

// String implements fmt.Stringer.
func (k FractionalKind) String() string {
	switch k {
	case FractionalBond:
		return "bond"
	case FractionalSiteCoinFlip:
		return "site-coinflip"
	case FractionalSiteExact:
		return "site-exact"
	default:
		return fmt.Sprintf("FractionalKind(%d)", int(k))
	}
}

// SizePair reports largest-component sizes around one fractional removal.
type SizePair struct {
	Vertices int // vertex count before removal
	Initial  int // largest component before removal
	Final    int // largest component after removal
	Removed  int // elements removed
}
