// Package core_test verifies thread-safety of core.Graph under concurrent operations.
package core_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/percolath/core"
)

// TestConcurrentAddEdge ensures that concurrent AddEdge calls
// on a graph allowing multi-edges are safe and all edges appear.
func TestConcurrentAddEdge(t *testing.T) {
	g := core.NewGraph(core.WithMultiEdges())
	const num = 200
	var wg sync.WaitGroup
	wg.Add(num)
	errs := make(chan error, num)

	for i := 0; i < num; i++ {
		go func(id int) {
			defer wg.Done()
			_, err := g.AddEdge("X", fmt.Sprintf("V%d", id), 0)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	nbs, err := g.Neighbors("X")
	require.NoError(t, err)
	require.Len(t, nbs, num)
}

// TestConcurrentClonesOfSharedSource mirrors how trials use the source graph:
// many goroutines clone one read-only graph and destroy their own copies.
func TestConcurrentClonesOfSharedSource(t *testing.T) {
	g := core.NewMultigraph()
	for i := 0; i < 50; i++ {
		_, err := g.AddEdge(fmt.Sprintf("V%d", i), fmt.Sprintf("V%d", (i+1)%50), 0)
		require.NoError(t, err)
	}

	const cloners = 20
	var wg sync.WaitGroup
	wg.Add(cloners)
	counts := make([]int, cloners)
	for i := 0; i < cloners; i++ {
		go func(slot int) {
			defer wg.Done()
			c := g.Clone()
			counts[slot] = c.EdgeCount()
			for _, id := range c.Vertices() {
				_ = c.RemoveVertex(id)
			}
		}(i)
	}
	wg.Wait()

	for _, n := range counts {
		require.Equal(t, 50, n)
	}
	require.Equal(t, 50, g.EdgeCount())
	require.Equal(t, 50, g.VertexCount())
}
