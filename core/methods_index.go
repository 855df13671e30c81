// SPDX-License-Identifier: MIT
//
// File: methods_index.go
// Role: Dense integer view of a graph for array-based algorithms
//       (component labelling, union-find replay).
// Determinism:
//   - Vertices sorted lexicographically; edges in creation order.

package core

import "sort"

// IndexedView is an immutable, dense snapshot of a Graph.
//
// Vertex i of the view is Vertices[i]; edge j is EdgeIDs[j] and joins
// Ends[j][0] and Ends[j][1] (equal for a self-loop). The view does not
// follow later mutation of the source graph.
type IndexedView struct {
	Vertices []string
	Pos      map[string]int
	EdgeIDs  []string
	Ends     [][2]int
}

// Indexed builds an IndexedView under both read locks.
// Complexity: O(V log V + E log E).
func (g *Graph) Indexed() *IndexedView {
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	view := &IndexedView{
		Vertices: make([]string, 0, len(g.vertices)),
		Pos:      make(map[string]int, len(g.vertices)),
		EdgeIDs:  make([]string, 0, len(g.edges)),
	}
	for id := range g.vertices {
		view.Vertices = append(view.Vertices, id)
	}
	sort.Strings(view.Vertices)
	for i, id := range view.Vertices {
		view.Pos[id] = i
	}

	for eid := range g.edges {
		view.EdgeIDs = append(view.EdgeIDs, eid)
	}
	sort.Slice(view.EdgeIDs, func(i, j int) bool { return edgeIDLess(view.EdgeIDs[i], view.EdgeIDs[j]) })

	view.Ends = make([][2]int, len(view.EdgeIDs))
	var e *Edge
	for j, eid := range view.EdgeIDs {
		e = g.edges[eid]
		view.Ends[j] = [2]int{view.Pos[e.From], view.Pos[e.To]}
	}

	return view
}

// Adjacency returns, for every vertex position, the positions of its
// neighbours, one entry per non-loop edge instance. Self-loops are skipped
// because they never change connectivity.
func (v *IndexedView) Adjacency() [][]int {
	adj := make([][]int, len(v.Vertices))
	for _, ends := range v.Ends {
		if ends[0] == ends[1] {
			continue
		}
		adj[ends[0]] = append(adj[ends[0]], ends[1])
		adj[ends[1]] = append(adj[ends[1]], ends[0])
	}

	return adj
}

// IncidentEdgeIDs returns the IDs of every edge instance touching id, in
// creation order. A self-loop is listed once.
func (g *Graph) IncidentEdgeIDs(id string) ([]string, error) {
	if id == "" {
		return nil, ErrEmptyVertexID
	}
	if !g.HasVertex(id) {
		return nil, ErrVertexNotFound
	}

	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	var out []string
	for _, set := range g.adjacencyList[id] {
		for eid := range set {
			out = append(out, eid)
		}
	}
	sort.Slice(out, func(i, j int) bool { return edgeIDLess(out[i], out[j]) })

	return out, nil
}
