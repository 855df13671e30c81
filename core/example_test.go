package core_test

import (
	"fmt"

	"github.com/katalvlaran/percolath/core"
)

// ExampleGraph demonstrates parallel edges, instance removal and vertex removal.
func ExampleGraph() {
	g := core.NewMultigraph()

	first, _ := g.AddEdge("alice", "bob", 0)
	_, _ = g.AddEdge("bob", "alice", 0) // a second message between the same pair
	_, _ = g.AddEdge("bob", "carol", 0)
	_, _ = g.AddEdge("carol", "carol", 0) // message to self

	fmt.Println("vertices:", g.Vertices(), "edges:", g.EdgeCount())

	_ = g.RemoveEdgeBetween("alice", "bob", first)
	fmt.Println("alice-bob still linked:", g.HasEdge("alice", "bob"))

	_ = g.RemoveVertex("carol")
	fmt.Println("after removing carol:", g.Vertices(), "edges:", g.EdgeCount())

	// Output:
	// vertices: [alice bob carol] edges: 4
	// alice-bob still linked: true
	// after removing carol: [alice bob] edges: 1
}
