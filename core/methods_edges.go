// File: methods_edges.go
// Role: Edge lifecycle & queries: AddEdge/RemoveEdge/RemoveEdgeBetween/HasEdge/
//       GetEdge/Edges/EdgeCount/Neighbors/NeighborIDs/FilterEdges.
// Determinism:
//   - Edges() and Neighbors() return edges sorted by creation order of Edge.ID.
//   - nextEdgeID() is monotonic and stable ("e" + decimal).
// Concurrency:
//   - Mutations under muEdgeAdj write lock.
//   - Read queries under muEdgeAdj read lock.

package core

import (
	"sort"
	"strconv"
	"sync/atomic"
)

// edgeIDPrefix is a private textual prefix for edge identifiers.
// Ensures stable human-readable IDs like "e1", "e2", ...
const edgeIDPrefix = 'e'

// AddEdge creates a new undirected edge instance between from and to and
// returns its ID. Missing endpoints are created.
//
// Steps:
//  1. Validate IDs, weight, loops.
//  2. Ensure endpoints via AddVertex.
//  3. Lock muEdgeAdj, check multi-edge constraint.
//  4. Generate eid atomically, store, link adjacency (mirrored unless loop).
//
// Complexity: O(1) amortized.
func (g *Graph) AddEdge(from, to string, weight float64, opts ...EdgeOption) (string, error) {
	if from == "" || to == "" {
		return "", ErrEmptyVertexID
	}
	if !g.weighted && weight != 0 {
		return "", ErrBadWeight
	}
	if from == to && !g.allowLoops {
		return "", ErrLoopNotAllowed
	}

	if err := g.AddVertex(from); err != nil {
		return "", err
	}
	if err := g.AddVertex(to); err != nil {
		return "", err
	}

	g.muEdgeAdj.Lock()
	defer g.muEdgeAdj.Unlock()

	if !g.allowMulti && len(g.adjacencyList[from][to]) > 0 {
		return "", ErrMultiEdgeNotAllowed
	}

	eid := nextEdgeID(g)
	e := &Edge{ID: eid, From: from, To: to, Weight: weight}
	for _, opt := range opts {
		opt(e)
	}

	g.edges[eid] = e
	ensureAdjacency(g, from, to)
	g.adjacencyList[from][to][eid] = struct{}{}
	if from != to {
		ensureAdjacency(g, to, from)
		g.adjacencyList[to][from][eid] = struct{}{}
	}

	return eid, nil
}

// RemoveEdge deletes exactly one edge instance.
// Removing an absent edge returns ErrEdgeNotFound (no silent ignore).
// Complexity: O(1).
func (g *Graph) RemoveEdge(eid string) error {
	g.muEdgeAdj.Lock()
	defer g.muEdgeAdj.Unlock()

	e, ok := g.edges[eid]
	if !ok {
		return ErrEdgeNotFound
	}
	delete(g.edges, eid)
	detachEdge(g, e)

	return nil
}

// RemoveEdgeBetween deletes the instance key connecting a and b. The
// endpoints may be given in either orientation; a key that exists but joins
// different endpoints is reported as ErrEdgeNotFound.
func (g *Graph) RemoveEdgeBetween(a, b, key string) error {
	g.muEdgeAdj.Lock()
	defer g.muEdgeAdj.Unlock()

	e, ok := g.edges[key]
	if !ok {
		return ErrEdgeNotFound
	}
	if !(e.From == a && e.To == b) && !(e.From == b && e.To == a) {
		return ErrEdgeNotFound
	}
	delete(g.edges, key)
	detachEdge(g, e)

	return nil
}

// HasEdge reports whether at least one edge joins from and to.
// Complexity: O(1).
func (g *Graph) HasEdge(from, to string) bool {
	if from == "" || to == "" {
		return false
	}
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	return len(g.adjacencyList[from][to]) > 0
}

// GetEdge returns a copy of the edge with the given ID, or ErrEdgeNotFound.
func (g *Graph) GetEdge(edgeID string) (*Edge, error) {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()
	e, ok := g.edges[edgeID]
	if !ok {
		return nil, ErrEdgeNotFound
	}

	cp := *e

	return &cp, nil
}

// Edges returns a snapshot of all edges sorted by creation order.
//
// The returned Edge values are copies: removing edges from the graph while
// ranging over the snapshot is safe. Metadata maps are shared read-only.
// Complexity: O(E·logE)
func (g *Graph) Edges() []*Edge {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()
	out := make([]*Edge, 0, len(g.edges))
	var e *Edge
	for _, e = range g.edges {
		cp := *e
		out = append(out, &cp)
	}
	sortEdges(out)

	return out
}

// EdgeIDs returns a snapshot of all edge IDs in creation order.
func (g *Graph) EdgeIDs() []string {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()
	ids := make([]string, 0, len(g.edges))
	for id := range g.edges {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return edgeIDLess(ids[i], ids[j]) })

	return ids
}

// EdgeCount returns total number of edge instances. O(1).
func (g *Graph) EdgeCount() int {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	return len(g.edges)
}

// Neighbors returns copies of all edges incident to id, sorted by ID.
// A self-loop appears once; parallel edges appear once per instance.
// Complexity: O(d log d).
func (g *Graph) Neighbors(id string) ([]*Edge, error) {
	if id == "" {
		return nil, ErrEmptyVertexID
	}
	if !g.HasVertex(id) {
		return nil, ErrVertexNotFound
	}

	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	var out []*Edge
	for _, set := range g.adjacencyList[id] {
		for eid := range set {
			cp := *g.edges[eid]
			out = append(out, &cp)
		}
	}
	sortEdges(out)

	return out, nil
}

// NeighborIDs returns the distinct vertices adjacent to id, sorted.
// id itself is included when it carries a self-loop.
func (g *Graph) NeighborIDs(id string) ([]string, error) {
	if id == "" {
		return nil, ErrEmptyVertexID
	}
	if !g.HasVertex(id) {
		return nil, ErrVertexNotFound
	}

	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	ids := make([]string, 0, len(g.adjacencyList[id]))
	for nbr, set := range g.adjacencyList[id] {
		if len(set) > 0 {
			ids = append(ids, nbr)
		}
	}
	sort.Strings(ids)

	return ids, nil
}

// FilterEdges removes all edges failing the predicate and reports how many
// were removed. The predicate sees the stored edge and must not retain it.
func (g *Graph) FilterEdges(pred func(*Edge) bool) int {
	g.muEdgeAdj.Lock()
	defer g.muEdgeAdj.Unlock()

	removed := 0
	var eid string
	var e *Edge
	for eid, e = range g.edges {
		if !pred(e) {
			delete(g.edges, eid)
			detachEdge(g, e)
			removed++
		}
	}

	return removed
}

// nextEdgeID reserves the next sequence number and renders it as "e<n>".
func nextEdgeID(g *Graph) string {
	n := atomic.AddUint64(&g.nextEdgeID, 1)
	buf := make([]byte, 0, 1+20)
	buf = append(buf, edgeIDPrefix)
	buf = strconv.AppendUint(buf, n, 10)

	return string(buf)
}

// edgeIDLess orders generated IDs by their numeric suffix ("e2" < "e10").
func edgeIDLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}

	return a < b
}

func sortEdges(es []*Edge) {
	sort.Slice(es, func(i, j int) bool { return edgeIDLess(es[i].ID, es[j].ID) })
}

// ensureAdjacencyRow makes adjacencyList[id] non-nil. Caller holds muEdgeAdj.
func ensureAdjacencyRow(g *Graph, id string) {
	if g.adjacencyList[id] == nil {
		g.adjacencyList[id] = make(map[string]map[string]struct{})
	}
}

// ensureAdjacency ensures adjacencyList[from][to] is initialized.
func ensureAdjacency(g *Graph, from, to string) {
	ensureAdjacencyRow(g, from)
	if g.adjacencyList[from][to] == nil {
		g.adjacencyList[from][to] = make(map[string]struct{})
	}
}

// detachEdge unlinks e from both adjacency directions and drops empty buckets.
// Rows of the endpoints stay allocated as long as the vertices exist.
func detachEdge(g *Graph, e *Edge) {
	unlink(g, e.From, e.To, e.ID)
	if e.From != e.To {
		unlink(g, e.To, e.From, e.ID)
	}
}

func unlink(g *Graph, from, to, eid string) {
	if m := g.adjacencyList[from][to]; m != nil {
		delete(m, eid)
		if len(m) == 0 {
			delete(g.adjacencyList[from], to)
		}
	}
}
