package builder

import (
	"fmt"

	"github.com/katalvlaran/percolath/core"
)

// addVertices inserts idOf(0..n-1) in ascending order.
func addVertices(g *core.Graph, method string, n int, idOf func(int) string) error {
	for i := 0; i < n; i++ {
		id := idOf(i)
		if err := g.AddVertex(id); err != nil {
			return fmt.Errorf("%s: AddVertex(%s): %w", method, id, err)
		}
	}

	return nil
}

// addEdge adds u-v with a weight drawn from cfg on weighted graphs and 0
// otherwise, since unweighted graphs reject non-zero weights.
func addEdge(g *core.Graph, cfg builderConfig, method, u, v string) error {
	var w float64
	if g.Weighted() {
		w = cfg.weightFn(cfg.rng)
	}
	if _, err := g.AddEdge(u, v, w); err != nil {
		return fmt.Errorf("%s: AddEdge(%s, %s, w=%g): %w", method, u, v, w, err)
	}

	return nil
}

func checkMin(method, name string, got, min int) error {
	if got < min {
		return fmt.Errorf("%s: %s=%d < min=%d: %w", method, name, got, min, ErrTooFewVertices)
	}

	return nil
}

func checkProbability(method string, p float64) error {
	if !(p >= 0 && p <= 1) {
		return fmt.Errorf("%s: p=%g not in [0,1]: %w", method, p, ErrInvalidProbability)
	}

	return nil
}
