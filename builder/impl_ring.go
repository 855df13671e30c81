// SPDX-License-Identifier: MIT
// Package: percolath/builder
//
// impl_ring.go - Cycle, Path, Star and Wheel.
//
// Emission order:
//   - Cycle: i-(i+1)%n for i=0..n-1.
//   - Path:  i-(i+1) for i=0..n-2.
//   - Star:  Center-i for leaves i=0..n-2.
//   - Wheel: the rim cycle over n-1 vertices, then Center-i spokes.

package builder

import "github.com/katalvlaran/percolath/core"

const (
	methodCycle = "Cycle"
	methodPath  = "Path"
	methodStar  = "Star"
	methodWheel = "Wheel"

	minCycleNodes = 3
	minPathNodes  = 2
	minStarNodes  = 2
	minWheelNodes = 4
)

// CenterVertexID is the hub of Star and Wheel.
const CenterVertexID = "Center"

// Cycle builds the simple cycle C_n (n ≥ 3).
func Cycle(n int) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		if err := checkMin(methodCycle, "n", n, minCycleNodes); err != nil {
			return err
		}
		return ring(g, cfg, methodCycle, n)
	}
}

func ring(g *core.Graph, cfg builderConfig, method string, n int) error {
	if err := addVertices(g, method, n, cfg.id); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := addEdge(g, cfg, method, cfg.id(i), cfg.id((i+1)%n)); err != nil {
			return err
		}
	}

	return nil
}

// Path builds the simple path P_n (n ≥ 2).
func Path(n int) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		if err := checkMin(methodPath, "n", n, minPathNodes); err != nil {
			return err
		}
		if err := addVertices(g, methodPath, n, cfg.id); err != nil {
			return err
		}
		for i := 0; i+1 < n; i++ {
			if err := addEdge(g, cfg, methodPath, cfg.id(i), cfg.id(i+1)); err != nil {
				return err
			}
		}
		return nil
	}
}

// Star builds a hub CenterVertexID with n-1 leaves (n ≥ 2).
func Star(n int) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		if err := checkMin(methodStar, "n", n, minStarNodes); err != nil {
			return err
		}
		return spokes(g, cfg, methodStar, n-1)
	}
}

// Wheel builds W_n: a rim cycle of n-1 vertices plus a hub (n ≥ 4).
func Wheel(n int) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		if err := checkMin(methodWheel, "n", n, minWheelNodes); err != nil {
			return err
		}
		if err := ring(g, cfg, methodWheel, n-1); err != nil {
			return err
		}
		return spokes(g, cfg, methodWheel, n-1)
	}
}

func spokes(g *core.Graph, cfg builderConfig, method string, leaves int) error {
	hub := cfg.fixedID(CenterVertexID)
	if err := g.AddVertex(hub); err != nil {
		return err
	}
	if err := addVertices(g, method, leaves, cfg.id); err != nil {
		return err
	}
	for i := 0; i < leaves; i++ {
		if err := addEdge(g, cfg, method, hub, cfg.id(i)); err != nil {
			return err
		}
	}

	return nil
}
