// SPDX-License-Identifier: MIT
//
// File: methods_vertices.go
// Role: Vertex lifecycle & queries: AddVertex/HasVertex/RemoveVertex/Vertices/
//       VertexCount/Degree.
// Determinism:
//   - Vertices() returns IDs sorted lexicographically.
// Concurrency:
//   - Mutations take muVert then muEdgeAdj (fixed lock order).
//   - Read queries take read locks only.

package core

import "sort"

// AddVertex inserts a new vertex with the given ID into the Graph.
// Returns ErrEmptyVertexID if id is empty.
// If the vertex already exists, this is a no-op (idempotent).
// Complexity: O(1) amortized.
func (g *Graph) AddVertex(id string) error {
	return g.AddVertexWithMetadata(id, nil)
}

// AddVertexWithMetadata inserts a vertex carrying caller attributes.
// For an existing vertex the metadata keys are merged in (later wins).
func (g *Graph) AddVertexWithMetadata(id string, md map[string]interface{}) error {
	if id == "" {
		return ErrEmptyVertexID
	}

	g.muVert.Lock()
	defer g.muVert.Unlock()

	if v, exists := g.vertices[id]; exists {
		if v.Metadata == nil && len(md) > 0 {
			v.Metadata = make(map[string]interface{}, len(md))
		}
		for k, val := range md {
			v.Metadata[k] = val
		}
		return nil
	}

	meta := make(map[string]interface{}, len(md))
	for k, val := range md {
		meta[k] = val
	}
	g.vertices[id] = &Vertex{ID: id, Metadata: meta}

	g.muEdgeAdj.Lock()
	ensureAdjacencyRow(g, id)
	g.muEdgeAdj.Unlock()

	return nil
}

// HasVertex reports whether a vertex with the given ID exists in the graph.
// Complexity: O(1).
func (g *Graph) HasVertex(id string) bool {
	if id == "" {
		return false
	}
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	_, ok := g.vertices[id]

	return ok
}

// GetVertex returns a copy of the vertex record or ErrVertexNotFound.
// Mutating the returned Metadata does not affect g.
func (g *Graph) GetVertex(id string) (*Vertex, error) {
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	v, ok := g.vertices[id]
	if !ok {
		return nil, ErrVertexNotFound
	}

	return &Vertex{ID: v.ID, Metadata: copyMetadata(v.Metadata)}, nil
}

// RemoveVertex deletes the vertex and all incident edges from the graph.
//
// Removing an absent vertex is a no-op and returns nil; only an empty id is
// rejected with ErrEmptyVertexID. This differs from RemoveEdge on purpose:
// vertex removal is idempotent, edge-instance removal is not.
//
// Complexity: O(deg(v)), walking only the adjacency row of id.
func (g *Graph) RemoveVertex(id string) error {
	if id == "" {
		return ErrEmptyVertexID
	}

	g.muVert.Lock()
	defer g.muVert.Unlock()

	g.muEdgeAdj.Lock()
	defer g.muEdgeAdj.Unlock()

	if _, exists := g.vertices[id]; !exists {
		return nil
	}

	var (
		nbr string
		set map[string]struct{}
		eid string
	)
	for nbr, set = range g.adjacencyList[id] {
		for eid = range set {
			delete(g.edges, eid)
		}
		if nbr != id {
			delete(g.adjacencyList[nbr], id)
		}
	}

	delete(g.adjacencyList, id)
	delete(g.vertices, id)

	return nil
}

// Vertices returns a sorted snapshot of all vertex IDs.
// The slice is owned by the caller and unaffected by later mutation.
// Complexity: O(V·log V)
func (g *Graph) Vertices() []string {
	g.muVert.RLock()
	defer g.muVert.RUnlock()

	ids := make([]string, 0, len(g.vertices))
	var id string
	for id = range g.vertices {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

// VertexCount returns total number of vertices. O(1).
func (g *Graph) VertexCount() int {
	g.muVert.RLock()
	defer g.muVert.RUnlock()

	return len(g.vertices)
}

// Degree returns the number of edge endpoints at id; a self-loop counts twice.
func (g *Graph) Degree(id string) (int, error) {
	if id == "" {
		return 0, ErrEmptyVertexID
	}

	g.muVert.RLock()
	defer g.muVert.RUnlock()

	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	if _, ok := g.vertices[id]; !ok {
		return 0, ErrVertexNotFound
	}

	deg := 0
	for nbr, set := range g.adjacencyList[id] {
		if nbr == id {
			deg += 2 * len(set)
			continue
		}
		deg += len(set)
	}

	return deg, nil
}
