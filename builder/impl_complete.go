// SPDX-License-Identifier: MIT
// Package: percolath/builder
//
// impl_complete.go - Complete (K_n), CompleteBipartite (K_{n1,n2}) and Grid.

package builder

import "github.com/katalvlaran/percolath/core"

const (
	methodComplete          = "Complete"
	methodCompleteBipartite = "CompleteBipartite"
	methodGrid              = "Grid"

	minCompleteNodes = 1
	minPartition     = 1
	minGridDim       = 1
)

// Complete builds K_n (n ≥ 1), emitting pairs (i,j), i<j, in lexical order.
func Complete(n int) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		if err := checkMin(methodComplete, "n", n, minCompleteNodes); err != nil {
			return err
		}
		if err := addVertices(g, methodComplete, n, cfg.id); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if err := addEdge(g, cfg, methodComplete, cfg.id(i), cfg.id(j)); err != nil {
					return err
				}
			}
		}
		return nil
	}
}

// CompleteBipartite builds K_{n1,n2} with IDs leftPrefix+i and rightPrefix+j.
func CompleteBipartite(n1, n2 int) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		if err := checkMin(methodCompleteBipartite, "n1", n1, minPartition); err != nil {
			return err
		}
		if err := checkMin(methodCompleteBipartite, "n2", n2, minPartition); err != nil {
			return err
		}
		left := SymbolNumberIDFn(cfg.fixedID(cfg.leftPrefix))
		right := SymbolNumberIDFn(cfg.fixedID(cfg.rightPrefix))
		if err := addVertices(g, methodCompleteBipartite, n1, left); err != nil {
			return err
		}
		if err := addVertices(g, methodCompleteBipartite, n2, right); err != nil {
			return err
		}
		for i := 0; i < n1; i++ {
			for j := 0; j < n2; j++ {
				if err := addEdge(g, cfg, methodCompleteBipartite, left(i), right(j)); err != nil {
					return err
				}
			}
		}
		return nil
	}
}

// Grid builds a rows×cols 4-neighbour lattice with IDs "r,c"; the ID
// scheme does not apply. Edges go right then down, row-major.
func Grid(rows, cols int) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		if err := checkMin(methodGrid, "rows", rows, minGridDim); err != nil {
			return err
		}
		if err := checkMin(methodGrid, "cols", cols, minGridDim); err != nil {
			return err
		}
		id := func(r, c int) string { return cfg.fixedID(gridVertexID(r, c)) }
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				if err := g.AddVertex(id(r, c)); err != nil {
					return err
				}
			}
		}
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				if c+1 < cols {
					if err := addEdge(g, cfg, methodGrid, id(r, c), id(r, c+1)); err != nil {
						return err
					}
				}
				if r+1 < rows {
					if err := addEdge(g, cfg, methodGrid, id(r, c), id(r+1, c)); err != nil {
						return err
					}
				}
			}
		}
		return nil
	}
}
