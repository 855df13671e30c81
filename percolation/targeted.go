package percolation

import (
	"fmt"
	"math"

	"github.com/katalvlaran/percolath/components"
	"github.com/katalvlaran/percolath/core"
)

const methodTargeted = "TargetedRemoval"

// RemoveHighestDegree removes the vertex with the largest degree (ties go
// to the smallest ID) and returns its ID. An empty graph returns "".
func RemoveHighestDegree(g *core.Graph) (string, error) {
	best, bestDeg := "", -1
	for _, id := range g.Vertices() {
		d, err := g.Degree(id)
		if err != nil {
			return "", err
		}
		if d > bestDeg {
			best, bestDeg = id, d
		}
	}
	if best == "" {
		return "", nil
	}

	return best, g.RemoveVertex(best)
}

// TargetedRemoval removes floor(V·fraction) vertices, each time the current
// highest-degree one, and reports the largest component before and after.
// Degrees are recomputed after every removal.
func TargetedRemoval(g *core.Graph, fraction float64) (SizePair, []string, error) {
	if err := checkIntensity(methodTargeted, "fraction", fraction); err != nil {
		return SizePair{}, nil, err
	}
	pair := SizePair{Vertices: g.VertexCount()}
	pair.Initial = components.Summarize(g).Largest

	k := int(math.Floor(float64(pair.Vertices) * fraction))
	removed := make([]string, 0, k)
	for i := 0; i < k; i++ {
		id, err := RemoveHighestDegree(g)
		if err != nil {
			return SizePair{}, removed, fmt.Errorf("%s: %w", methodTargeted, err)
		}
		removed = append(removed, id)
	}
	pair.Removed = len(removed)
	pair.Final = components.Summarize(g).Largest

	return pair, removed, nil
}
