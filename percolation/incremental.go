package percolation

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/percolath/components"
	"github.com/katalvlaran/percolath/core"
)

const methodIncremental = "Incremental"

// Incremental removes elements of g one at a time until the stop policy
// ends the run and reports the trend transitions of the second-largest
// non-trivial component. g is mutated: every removal up to the terminal
// step is applied, whichever engine is selected.
//
// An empty element set is not an error: the result has zero steps and no
// threshold.
func Incremental(g *core.Graph, opts IncrementalOptions, rng *rand.Rand) (*IncrementalResult, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", methodIncremental, err)
	}

	view := g.Indexed()
	elements := view.EdgeIDs
	if opts.Unit == Site {
		elements = view.Vertices
	}
	order, err := resolveOrder(elements, opts.Order, rng)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodIncremental, err)
	}

	denom := opts.Denominator
	if denom == 0 {
		denom = len(elements)
	}
	res := &IncrementalResult{
		Unit:        opts.Unit,
		Terminal:    Exhausted,
		Initial:     len(elements),
		Denominator: denom,
	}

	switch opts.Engine {
	case EngineRecompute:
		err = runRecompute(g, view, elements, order, opts, res)
	default:
		err = runReplay(g, view, elements, order, opts, res)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodIncremental, err)
	}

	return res, nil
}

func (o IncrementalOptions) validate() error {
	if o.Unit != Bond && o.Unit != Site {
		return fmt.Errorf("unit %v: %w", o.Unit, ErrInvalidOption)
	}
	if o.Stop != StopWhenExhausted && o.Stop != StopWhenFragmented {
		return fmt.Errorf("stop policy %v: %w", o.Stop, ErrInvalidOption)
	}
	if o.Engine != EngineReplay && o.Engine != EngineRecompute {
		return fmt.Errorf("engine %v: %w", o.Engine, ErrInvalidOption)
	}
	if o.Denominator < 0 {
		return fmt.Errorf("denominator %d: %w", o.Denominator, ErrInvalidOption)
	}

	return nil
}

// resolveOrder returns the forward removal order as indices into elements:
// the explicit prefix first, then the rest shuffled by rng. Shuffling the
// whole tail up front is equivalent to a uniform choice among the remaining
// elements at every step.
func resolveOrder(elements, explicit []string, rng *rand.Rand) ([]int, error) {
	pos := make(map[string]int, len(elements))
	for i, id := range elements {
		pos[id] = i
	}

	order := make([]int, 0, len(elements))
	used := make([]bool, len(elements))
	for _, id := range explicit {
		i, ok := pos[id]
		if !ok {
			return nil, fmt.Errorf("unknown element %q: %w", id, ErrInvalidOrder)
		}
		if used[i] {
			return nil, fmt.Errorf("repeated element %q: %w", id, ErrInvalidOrder)
		}
		used[i] = true
		order = append(order, i)
	}

	start := len(order)
	for i := range elements {
		if !used[i] {
			order = append(order, i)
		}
	}
	tail := order[start:]
	if len(tail) > 1 {
		if rng == nil {
			return nil, ErrNeedRandSource
		}
		rng.Shuffle(len(tail), func(i, j int) { tail[i], tail[j] = tail[j], tail[i] })
	}

	return order, nil
}

// trend is the latch state machine shared by both engines.
type trend struct {
	opts       IncrementalOptions
	res        *IncrementalResult
	prev       int
	decreasing bool
	increasing bool
}

func newTrend(opts IncrementalOptions, res *IncrementalResult, start components.Summary) *trend {
	t := &trend{opts: opts, res: res}
	if start.NonTrivial >= 2 {
		t.prev = start.SecondLargest
	}
	res.Series = append(res.Series, t.prev)

	return t
}

// observe feeds the statistics after removal number step and reports whether
// the run must stop there.
func (t *trend) observe(step int, removed string, s components.Summary) bool {
	remaining := t.res.Initial - step
	st := Step{
		Index:         step,
		Removed:       removed,
		Remaining:     remaining,
		Ratio:         t.ratio(remaining),
		NonTrivial:    s.NonTrivial,
		SecondLargest: s.SecondLargest,
		Evaluated:     s.NonTrivial >= 2,
	}
	t.res.Steps = step
	if t.opts.Observer != nil {
		t.opts.Observer(st)
	}

	if !st.Evaluated {
		if t.opts.Stop == StopWhenFragmented {
			t.res.Terminal = Fragmented
			return true
		}
		return false
	}

	cur := s.SecondLargest
	t.res.Series = append(t.res.Series, cur)
	switch {
	case cur < t.prev:
		if !t.decreasing {
			t.decreasing = true
			t.record(Decrease, st)
		}
		t.increasing = false
	case cur > t.prev:
		if !t.increasing {
			t.increasing = true
			t.record(Increase, st)
		}
		t.decreasing = false
	}
	t.prev = cur

	return false
}

func (t *trend) record(kind TransitionKind, st Step) {
	t.res.Transitions = append(t.res.Transitions, Transition{
		Kind:      kind,
		Step:      st.Index,
		Remaining: st.Remaining,
		Ratio:     st.Ratio,
	})
}

func (t *trend) ratio(remaining int) float64 {
	if t.res.Denominator == 0 {
		return 0
	}

	return float64(remaining) / float64(t.res.Denominator)
}

// removeElement applies one removal to g.
func removeElement(g *core.Graph, unit Unit, id string) error {
	if unit == Site {
		return g.RemoveVertex(id)
	}

	return g.RemoveEdge(id)
}

// runRecompute mutates g step by step and relabels components every time.
func runRecompute(g *core.Graph, view *core.IndexedView, elements []string, order []int, opts IncrementalOptions, res *IncrementalResult) error {
	t := newTrend(opts, res, components.SummarizeView(view))
	for k, idx := range order {
		id := elements[idx]
		if err := removeElement(g, opts.Unit, id); err != nil {
			return fmt.Errorf("remove %s %s: %w", opts.Unit, id, err)
		}
		if t.observe(k+1, id, components.Summarize(g)) {
			break
		}
	}

	return nil
}
