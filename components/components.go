package components

import (
	"sort"

	"github.com/katalvlaran/percolath/core"
)

// minNonTrivial is the smallest size of a component that counts as non-trivial.
const minNonTrivial = 2

// All returns every connected component of g, singletons included.
// Components are ordered by size descending (ties by smallest vertex ID)
// and vertex IDs are sorted inside each component.
func All(g *core.Graph) [][]string {
	view := g.Indexed()
	comps := label(view)

	out := make([][]string, len(comps))
	for i, comp := range comps {
		ids := make([]string, len(comp))
		for j, pos := range comp {
			ids[j] = view.Vertices[pos]
		}
		out[i] = ids
	}

	return out
}

// NonTrivial returns the components of g with at least two vertices, in the
// same order as All.
func NonTrivial(g *core.Graph) [][]string {
	all := All(g)
	n := 0
	for n < len(all) && len(all[n]) >= minNonTrivial {
		n++
	}

	return all[:n]
}

// Sizes returns the component sizes of g in descending order, singletons
// included.
func Sizes(g *core.Graph) []int {
	comps := label(g.Indexed())
	sizes := make([]int, len(comps))
	for i, c := range comps {
		sizes[i] = len(c)
	}

	return sizes
}

// NonTrivialSizes filters sizes down to entries of at least two.
// The input order is kept.
func NonTrivialSizes(sizes []int) []int {
	out := make([]int, 0, len(sizes))
	for _, s := range sizes {
		if s >= minNonTrivial {
			out = append(out, s)
		}
	}

	return out
}

// Largest returns the maximum of sizes, 0 for an empty list.
func Largest(sizes []int) int {
	best := 0
	for _, s := range sizes {
		if s > best {
			best = s
		}
	}

	return best
}

// SecondLargest returns the second entry of sizes sorted descending, 0 when
// sizes holds fewer than two entries. Equal sizes count separately, so
// [3, 3] yields 3.
func SecondLargest(sizes []int) int {
	if len(sizes) < 2 {
		return 0
	}
	first, second := 0, 0
	for _, s := range sizes {
		switch {
		case s > first:
			first, second = s, first
		case s > second:
			second = s
		}
	}

	return second
}

// Summarize computes every Summary statistic of g in a single labelling pass.
func Summarize(g *core.Graph) Summary {
	return SummarizeView(g.Indexed())
}

// SummarizeView is Summarize over an existing snapshot.
func SummarizeView(view *core.IndexedView) Summary {
	comps := label(view)
	sizes := make([]int, len(comps))
	for i, c := range comps {
		sizes[i] = len(c)
	}
	nt := NonTrivialSizes(sizes)

	return Summary{
		Vertices:      len(view.Vertices),
		Components:    len(comps),
		NonTrivial:    len(nt),
		Largest:       Largest(sizes),
		SecondLargest: SecondLargest(nt),
	}
}

// label runs a BFS from every unseen vertex and returns the components as
// sorted position lists, largest first.
//
// Time: O(V + E), Memory: O(V + E) for the adjacency lists and queue.
func label(view *core.IndexedView) [][]int {
	adj := view.Adjacency()
	seen := make([]bool, len(view.Vertices))
	var comps [][]int

	for start := range view.Vertices {
		if seen[start] {
			continue
		}
		queue := []int{start}
		seen[start] = true
		for qi := 0; qi < len(queue); qi++ {
			for _, w := range adj[queue[qi]] {
				if !seen[w] {
					seen[w] = true
					queue = append(queue, w)
				}
			}
		}
		sort.Ints(queue)
		comps = append(comps, queue)
	}

	// Positions follow sorted vertex IDs, so comp[0] is the smallest ID.
	sort.SliceStable(comps, func(i, j int) bool {
		if len(comps[i]) != len(comps[j]) {
			return len(comps[i]) > len(comps[j])
		}
		return comps[i][0] < comps[j][0]
	})

	return comps
}
