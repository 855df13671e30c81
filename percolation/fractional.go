package percolation

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/katalvlaran/percolath/components"
	"github.com/katalvlaran/percolath/core"
)

const (
	methodBond       = "BondPercolation"
	methodSite       = "SitePercolation"
	methodExactSite  = "ExactSiteRemoval"
	methodFractional = "Fractional"
	methodSpanning   = "Spanning"
)

// checkIntensity rejects values outside [0,1] (NaN included).
func checkIntensity(method, name string, p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%s: %s=%v not in [0,1]: %w", method, name, p, ErrInvalidIntensity)
	}

	return nil
}

// coin returns a removal decision function for probability p. p=0 and p=1
// are decided without consulting rng.
func coin(p float64, rng *rand.Rand) func() bool {
	switch {
	case p <= 0:
		return func() bool { return false }
	case p >= 1:
		return func() bool { return true }
	default:
		return func() bool { return rng.Float64() < p }
	}
}

// BondPercolation removes each edge instance independently with
// probability p, visiting edges in creation order. It returns the number of
// edges removed.
func BondPercolation(g *core.Graph, p float64, rng *rand.Rand) (int, error) {
	if err := checkIntensity(methodBond, "p", p); err != nil {
		return 0, err
	}
	if rng == nil && p > 0 && p < 1 {
		return 0, fmt.Errorf("%s: %w", methodBond, ErrNeedRandSource)
	}

	flip := coin(p, rng)
	removed := 0
	for _, eid := range g.EdgeIDs() {
		if !flip() {
			continue
		}
		if err := g.RemoveEdge(eid); err != nil {
			return removed, fmt.Errorf("%s: RemoveEdge(%s): %w", methodBond, eid, err)
		}
		removed++
	}

	return removed, nil
}

// SitePercolation removes each vertex independently with probability p,
// visiting vertices in sorted ID order. It returns the number of vertices
// removed.
func SitePercolation(g *core.Graph, p float64, rng *rand.Rand) (int, error) {
	if err := checkIntensity(methodSite, "p", p); err != nil {
		return 0, err
	}
	if rng == nil && p > 0 && p < 1 {
		return 0, fmt.Errorf("%s: %w", methodSite, ErrNeedRandSource)
	}

	flip := coin(p, rng)
	removed := 0
	for _, id := range g.Vertices() {
		if !flip() {
			continue
		}
		if err := g.RemoveVertex(id); err != nil {
			return removed, fmt.Errorf("%s: RemoveVertex(%s): %w", methodSite, id, err)
		}
		removed++
	}

	return removed, nil
}

// ExactSiteRemoval removes exactly floor(V·fraction) vertices sampled
// uniformly without replacement.
func ExactSiteRemoval(g *core.Graph, fraction float64, rng *rand.Rand) (int, error) {
	if err := checkIntensity(methodExactSite, "fraction", fraction); err != nil {
		return 0, err
	}
	ids := g.Vertices()
	k := int(math.Floor(float64(len(ids)) * fraction))
	if k == 0 {
		return 0, nil
	}
	if k < len(ids) {
		if rng == nil {
			return 0, fmt.Errorf("%s: %w", methodExactSite, ErrNeedRandSource)
		}
		// partial Fisher-Yates: the first k slots become the sample
		for i := 0; i < k; i++ {
			j := i + rng.Intn(len(ids)-i)
			ids[i], ids[j] = ids[j], ids[i]
		}
	}

	for _, id := range ids[:k] {
		if err := g.RemoveVertex(id); err != nil {
			return 0, fmt.Errorf("%s: RemoveVertex(%s): %w", methodExactSite, id, err)
		}
	}

	return k, nil
}

// Fractional applies one fractional variant to g and reports the largest
// component before and after. An empty graph yields a zero SizePair.
func Fractional(g *core.Graph, kind FractionalKind, p float64, rng *rand.Rand) (SizePair, error) {
	pair := SizePair{Vertices: g.VertexCount()}
	pair.Initial = components.Summarize(g).Largest

	var (
		n   int
		err error
	)
	switch kind {
	case FractionalBond:
		n, err = BondPercolation(g, p, rng)
	case FractionalSiteCoinFlip:
		n, err = SitePercolation(g, p, rng)
	case FractionalSiteExact:
		n, err = ExactSiteRemoval(g, p, rng)
	default:
		return SizePair{}, fmt.Errorf("%s: kind %v: %w", methodFractional, kind, ErrInvalidOption)
	}
	if err != nil {
		return SizePair{}, fmt.Errorf("%s: %w", methodFractional, err)
	}
	pair.Removed = n
	pair.Final = components.Summarize(g).Largest

	return pair, nil
}

// Spanning runs site percolation with removal probability p and reports
// whether the largest surviving component holds at least threshold of the
// surviving vertices. No survivors means no spanning cluster.
func Spanning(g *core.Graph, p, threshold float64, rng *rand.Rand) (bool, error) {
	if err := checkIntensity(methodSpanning, "threshold", threshold); err != nil {
		return false, err
	}
	if _, err := SitePercolation(g, p, rng); err != nil {
		return false, fmt.Errorf("%s: %w", methodSpanning, err)
	}

	s := components.Summarize(g)
	if s.Vertices == 0 {
		return false, nil
	}

	return float64(s.Largest) >= threshold*float64(s.Vertices), nil
}
