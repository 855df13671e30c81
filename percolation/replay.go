package percolation

import (
	"fmt"

	"github.com/katalvlaran/percolath/components"
	"github.com/katalvlaran/percolath/core"
)

// runReplay computes the statistics of every intermediate state from one
// backwards pass: the state after k removals is the graph built from the
// elements order[k:], so inserting them in reverse into a union-find
// tracker yields the states m, m-1, ..., 0. A forward scan then drives the
// trend detector and the removals up to the terminal step are applied to g.
func runReplay(g *core.Graph, view *core.IndexedView, elements []string, order []int, opts IncrementalOptions, res *IncrementalResult) error {
	states := replayStates(view, order, opts.Unit)

	t := newTrend(opts, res, states[0])
	terminal := len(order)
	for k := 1; k <= len(order); k++ {
		if t.observe(k, elements[order[k-1]], states[k]) {
			terminal = k
			break
		}
	}

	for _, idx := range order[:terminal] {
		id := elements[idx]
		if err := removeElement(g, opts.Unit, id); err != nil {
			return fmt.Errorf("remove %s %s: %w", opts.Unit, id, err)
		}
	}

	return nil
}

// replayStates returns states[k] = summary after the first k removals.
func replayStates(view *core.IndexedView, order []int, unit Unit) []components.Summary {
	m := len(order)
	states := make([]components.Summary, m+1)

	if unit == Site {
		adj := view.Adjacency()
		tr := components.NewTracker(len(view.Vertices))
		states[m] = tr.Summary()
		for k := m - 1; k >= 0; k-- {
			v := order[k]
			tr.Activate(v)
			for _, w := range adj[v] {
				tr.Connect(v, w)
			}
			states[k] = tr.Summary()
		}
		return states
	}

	tr := components.NewActiveTracker(len(view.Vertices))
	states[m] = tr.Summary()
	for k := m - 1; k >= 0; k-- {
		ends := view.Ends[order[k]]
		tr.Connect(ends[0], ends[1])
		states[k] = tr.Summary()
	}

	return states
}
