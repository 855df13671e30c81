// Package core provides a thread-safe in-memory undirected multigraph with a
// minimal, composable API surface, sized for removal-based percolation
// experiments.
//
// The Graph G = (V,E) supports:
//
//   - Weighted vs. unweighted edges (WithWeighted); weights are carried only.
//   - Parallel edges / multi-graphs (WithMultiEdges), each instance keyed by
//     its own Edge.ID.
//   - Self-loops (WithLoops).
//   - Opaque vertex and edge Metadata (message content, positions, labels...).
//   - Constant-time edge operations via nested maps:
//     adjacencyList[u][v][edgeID] = struct{}{}
//   - Collision-free atomic Edge.ID generation ("e1", "e2", ...).
//   - Separate sync.RWMutex for vertices (muVert) and edges+adjacency (muEdgeAdj).
//
// Removal semantics:
//
//	RemoveVertex(id)              // O(deg): drops id and every incident edge; absent id → no-op
//	RemoveEdge(edgeID)            // O(1): exactly one instance; absent → ErrEdgeNotFound
//	RemoveEdgeBetween(a, b, key)  // O(1): instance must join a and b → else ErrEdgeNotFound
//
// Snapshots:
//
//	Vertices() []string   // sorted IDs, caller-owned
//	Edges() []*Edge       // creation order, copies; safe to range while mutating g
//
// Cloning:
//
//	Clone() *Graph        // full deep copy, no aliasing with the source
//
// Quick ASCII example:
//
//	    A───B
//	    │   │
//	    D───C
//
// represents the 4-cycle used throughout the percolation tests.
package core
