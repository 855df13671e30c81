// Package percolath is a toolkit for percolation experiments on
// communication networks: remove edges or vertices from a graph at
// increasing intensity and watch the largest connected component break up.
//
// Layout:
//
//	core/        thread-safe undirected multigraph (messages as parallel edges)
//	components/  BFS labelling, disjoint sets and an incremental size tracker
//	preprocess/  self-loop stripping and uniform edge sampling
//	percolation/ incremental, fractional, spanning and targeted removal
//	montecarlo/  seeded, concurrent trial runner and batch statistics
//	experiment/  strategies × intensity grid × snapshots → result table
//	builder/     deterministic and seeded synthetic topologies
//	edgelist/    CSV edge lists bucketed into monthly snapshots
//	store/       CSV output and a SQLite run archive
//	metrics/     Prometheus instrumentation
//	cmd/percolate the command-line front end
//
// Quick ASCII example:
//
//	    A───B
//	    │   │
//	    D───C
//
// Removing any one edge of this 4-cycle leaves it connected; removing two
// splits it, which is the threshold the incremental strategy measures.
//
//	go install github.com/katalvlaran/percolath/cmd/percolate@latest
package percolath
