package components

// Summary collects the connectivity statistics of one graph state.
type Summary struct {
	// Vertices is the number of vertices considered.
	Vertices int

	// Components counts every component, singletons included.
	Components int

	// NonTrivial counts components with more than one vertex.
	NonTrivial int

	// Largest is the size of the largest component (1 for a graph of
	// isolated vertices, 0 for an empty graph).
	Largest int

	// SecondLargest is the size of the second-largest non-trivial
	// component, 0 when fewer than two exist.
	SecondLargest int
}
