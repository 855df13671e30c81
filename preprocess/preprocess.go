package preprocess

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/katalvlaran/percolath/core"
)

const (
	methodRetainFraction = "RetainFraction"
	methodApply          = "Apply"
)

// StripSelfLoops removes every self-loop edge instance and returns how many
// were removed.
func StripSelfLoops(g *core.Graph) int {
	return g.FilterEdges(func(e *core.Edge) bool { return !e.IsLoop() })
}

// StripSelfOnlyVertices removes every vertex all of whose neighbours are the
// vertex itself. A vertex without edges qualifies, as does one carrying only
// self-loops. Returns the number of vertices removed.
//
// Removing such a vertex never changes another vertex's neighbour set, so
// one pass is enough.
func StripSelfOnlyVertices(g *core.Graph) int {
	removed := 0
	for _, id := range g.Vertices() {
		nbrs, err := g.NeighborIDs(id)
		if err != nil {
			continue
		}
		if len(nbrs) > 1 || (len(nbrs) == 1 && nbrs[0] != id) {
			continue
		}
		if err = g.RemoveVertex(id); err == nil {
			removed++
		}
	}

	return removed
}

// RetainFraction keeps k = floor(E·ratio) edge instances chosen uniformly
// without replacement and removes the rest. Vertices are never removed.
// It returns the number of edges removed.
//
// The ratio is validated before any mutation.
func RetainFraction(g *core.Graph, ratio float64, rng *rand.Rand) (int, error) {
	if math.IsNaN(ratio) || ratio < 0 || ratio > 1 {
		return 0, fmt.Errorf("%s: ratio=%v not in [0,1]: %w", methodRetainFraction, ratio, ErrInvalidRatio)
	}
	ids := g.EdgeIDs()
	keep := int(math.Floor(float64(len(ids)) * ratio))
	if keep == len(ids) {
		return 0, nil
	}
	if rng == nil && keep > 0 {
		return 0, fmt.Errorf("%s: %w", methodRetainFraction, ErrNeedRandSource)
	}
	if keep > 0 {
		rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	}

	removed := 0
	for _, eid := range ids[keep:] {
		if err := g.RemoveEdge(eid); err != nil {
			return removed, fmt.Errorf("%s: RemoveEdge(%s): %w", methodRetainFraction, eid, err)
		}
		removed++
	}

	return removed, nil
}

// Apply runs the steps selected by opts and reports the outcome.
func Apply(g *core.Graph, opts Options, rng *rand.Rand) (Report, error) {
	var rep Report
	if opts.StripSelfLoops {
		rep.SelfLoopsRemoved = StripSelfLoops(g)
	}
	if opts.StripSelfOnly {
		rep.VerticesRemoved = StripSelfOnlyVertices(g)
	}
	if opts.RetainRatio != nil {
		n, err := RetainFraction(g, *opts.RetainRatio, rng)
		if err != nil {
			return rep, fmt.Errorf("%s: %w", methodApply, err)
		}
		rep.EdgesDropped = n
	}
	rep.Vertices = g.VertexCount()
	rep.Edges = g.EdgeCount()

	return rep, nil
}

// Validate checks opts without touching a graph.
func (o Options) Validate() error {
	if o.RetainRatio != nil {
		r := *o.RetainRatio
		if math.IsNaN(r) || r < 0 || r > 1 {
			return fmt.Errorf("retain ratio %v: %w", r, ErrInvalidRatio)
		}
	}

	return nil
}
