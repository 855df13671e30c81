package preprocess

import "errors"

var (
	// ErrInvalidRatio indicates a retention ratio outside [0,1].
	ErrInvalidRatio = errors.New("preprocess: ratio out of range")

	// ErrNeedRandSource indicates a sampling step was requested with a nil rng.
	ErrNeedRandSource = errors.New("preprocess: rng is required")
)

// Options selects the preprocessing steps. The zero value does nothing.
type Options struct {
	// StripSelfLoops removes self-loop edges first.
	StripSelfLoops bool `yaml:"strip_self_loops"`

	// StripSelfOnly removes vertices connected to nothing but themselves.
	StripSelfOnly bool `yaml:"strip_self_only"`

	// RetainRatio, when set, keeps floor(E·ratio) uniformly sampled edges.
	RetainRatio *float64 `yaml:"retain_ratio,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// Report counts what Apply removed and the resulting sizes.
type Report struct {
	SelfLoopsRemoved int
	VerticesRemoved  int
	EdgesDropped     int
	Vertices         int
	Edges            int
}
