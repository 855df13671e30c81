// Package builder assembles synthetic core.Graph fixtures for percolation
// experiments and tests.
//
// One orchestrator, BuildGraph, creates the graph, resolves the builder
// options and applies Constructors in order:
//
//	g, err := builder.BuildGraph(
//		[]core.GraphOption{core.WithMultiEdges(), core.WithLoops()},
//		[]builder.BuilderOption{builder.WithSeed(7)},
//		builder.Messages(50, 400, 0.02),
//	)
//
// Deterministic topologies: Cycle, Path, Star, Wheel, Complete,
// CompleteBipartite, Grid. Stochastic ones (RandomSparse, RandomRegular,
// Messages) need WithSeed or WithRand and are reproducible for a fixed
// seed. DisjointUnion places several constructors side by side under
// distinct ID prefixes, which is how multi-component fixtures are made.
//
// Parse turns a short textual spec such as "grid:10x10" or
// "messages:100:1000" into a Constructor plus the graph options it needs;
// the percolate CLI uses it for --synthetic.
//
// Errors are sentinels (ErrTooFewVertices, ErrInvalidProbability,
// ErrNeedRandSource, ErrConstructFailed, ErrUnknownTopology) wrapped with
// the constructor name; branch with errors.Is.
package builder
