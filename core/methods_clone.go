package core

import "sync/atomic"

// Clone returns a deep copy of the Graph: configuration, vertices, edges,
// adjacency, metadata maps and the edge ID counter. The clone shares no
// mutable state with g, so each percolation trial may destroy its own copy.
// Complexity: O(V + E)
func (g *Graph) Clone() *Graph {
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	clone := cloneVerticesLocked(g)
	var (
		eid   string
		e, ne *Edge
	)
	for eid, e = range g.edges {
		ne = &Edge{ID: eid, From: e.From, To: e.To, Weight: e.Weight, Metadata: copyMetadata(e.Metadata)}
		clone.edges[eid] = ne
		ensureAdjacency(clone, e.From, e.To)
		clone.adjacencyList[e.From][e.To][eid] = struct{}{}
		if e.From != e.To {
			ensureAdjacency(clone, e.To, e.From)
			clone.adjacencyList[e.To][e.From][eid] = struct{}{}
		}
	}

	return clone
}

// ClearEdges removes every edge but keeps all vertices.
func (g *Graph) ClearEdges() {
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	g.muEdgeAdj.Lock()
	defer g.muEdgeAdj.Unlock()

	g.edges = make(map[string]*Edge)
	g.adjacencyList = make(map[string]map[string]map[string]struct{}, len(g.vertices))
	for id := range g.vertices {
		g.adjacencyList[id] = make(map[string]map[string]struct{})
	}
}

// Clear resets the graph to empty state (vertices, edges) but preserves flags.
func (g *Graph) Clear() {
	g.muVert.Lock()
	g.muEdgeAdj.Lock()
	g.vertices = make(map[string]*Vertex)
	g.edges = make(map[string]*Edge)
	g.adjacencyList = make(map[string]map[string]map[string]struct{})
	atomic.StoreUint64(&g.nextEdgeID, 0)
	g.muEdgeAdj.Unlock()
	g.muVert.Unlock()
}

// cloneVerticesLocked copies flags, counter and vertices. Caller holds both read locks.
func cloneVerticesLocked(g *Graph) *Graph {
	opts := make([]GraphOption, 0, 3)
	if g.weighted {
		opts = append(opts, WithWeighted())
	}
	if g.allowMulti {
		opts = append(opts, WithMultiEdges())
	}
	if g.allowLoops {
		opts = append(opts, WithLoops())
	}
	clone := NewGraph(opts...)
	atomic.StoreUint64(&clone.nextEdgeID, atomic.LoadUint64(&g.nextEdgeID))

	var id string
	var v *Vertex
	for id, v = range g.vertices {
		clone.vertices[id] = &Vertex{ID: v.ID, Metadata: copyMetadata(v.Metadata)}
		clone.adjacencyList[id] = make(map[string]map[string]struct{})
	}

	return clone
}

func copyMetadata(md map[string]interface{}) map[string]interface{} {
	if md == nil {
		return nil
	}
	out := make(map[string]interface{}, len(md))
	for k, v := range md {
		out[k] = v
	}

	return out
}
