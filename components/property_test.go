package components_test

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/katalvlaran/percolath/components"
	"github.com/katalvlaran/percolath/core"
)

func randomGraph(seed int64, n, m int) *core.Graph {
	rng := rand.New(rand.NewSource(seed))
	g := core.NewMultigraph()
	for i := 0; i < n; i++ {
		_ = g.AddVertex("v" + strconv.Itoa(i))
	}
	for i := 0; i < m; i++ {
		_, _ = g.AddEdge("v"+strconv.Itoa(rng.Intn(n)), "v"+strconv.Itoa(rng.Intn(n)), 0)
	}

	return g
}

// TestComponentInvariants checks labelling against the union-find tracker.
func TestComponentInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 60
	properties := gopter.NewProperties(parameters)

	properties.Property("components partition the vertex set", prop.ForAll(
		func(seed int64, n, m int) bool {
			g := randomGraph(seed, n, m)
			seen := make(map[string]bool)
			for _, comp := range components.All(g) {
				for _, id := range comp {
					if seen[id] {
						return false
					}
					seen[id] = true
				}
			}
			return len(seen) == g.VertexCount()
		},
		gen.Int64(), gen.IntRange(1, 40), gen.IntRange(0, 60),
	))

	properties.Property("tracker agrees with BFS labelling", prop.ForAll(
		func(seed int64, n, m int) bool {
			g := randomGraph(seed, n, m)
			view := g.Indexed()
			tr := components.NewActiveTracker(len(view.Vertices))
			for _, ends := range view.Ends {
				tr.Connect(ends[0], ends[1])
			}
			return tr.Summary() == components.Summarize(g)
		},
		gen.Int64(), gen.IntRange(1, 40), gen.IntRange(0, 60),
	))

	properties.Property("site activation agrees with induced subgraph", prop.ForAll(
		func(seed int64, n, m int) bool {
			g := randomGraph(seed, n, m)
			view := g.Indexed()
			adj := view.Adjacency()
			rng := rand.New(rand.NewSource(seed ^ 0x5a5a))
			order := rng.Perm(len(view.Vertices))

			tr := components.NewTracker(len(view.Vertices))
			half := len(order) / 2
			for _, v := range order[:half] {
				tr.Activate(v)
				for _, w := range adj[v] {
					tr.Connect(v, w)
				}
			}

			sub := g.Clone()
			for _, v := range order[half:] {
				_ = sub.RemoveVertex(view.Vertices[v])
			}
			return tr.Summary() == components.Summarize(sub)
		},
		gen.Int64(), gen.IntRange(1, 40), gen.IntRange(0, 60),
	))

	properties.TestingRun(t)
}
