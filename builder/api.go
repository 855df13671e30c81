// SPDX-License-Identifier: MIT
// Package: percolath/builder
//
// api.go - the BuildGraph orchestrator and the Constructor type.
//
// Contract:
//   - BuildGraph creates g, resolves cfg once, applies cons in order.
//   - Same inputs, options, seed and order ⇒ identical graphs, edge IDs included.
//   - Constructor errors are wrapped once as "BuildGraph: %w".

package builder

import (
	"fmt"

	"github.com/katalvlaran/percolath/core"
)

// Constructor applies a deterministic mutation to g using the resolved
// configuration. Implementations validate first and return sentinel errors.
type Constructor func(g *core.Graph, cfg builderConfig) error

// BuildGraph creates a graph with gopts and applies cons in order.
func BuildGraph(gopts []core.GraphOption, bopts []BuilderOption, cons ...Constructor) (*core.Graph, error) {
	g := core.NewGraph(gopts...)
	if err := Apply(g, bopts, cons...); err != nil {
		return nil, err
	}

	return g, nil
}

// Apply runs cons against an existing graph, e.g. to add noise edges to
// a loaded snapshot.
func Apply(g *core.Graph, bopts []BuilderOption, cons ...Constructor) error {
	if g == nil {
		return fmt.Errorf("BuildGraph: nil graph: %w", ErrConstructFailed)
	}
	cfg := newBuilderConfig(bopts...)
	for i, fn := range cons {
		if fn == nil {
			return fmt.Errorf("BuildGraph: nil constructor at index %d: %w", i, ErrConstructFailed)
		}
		if err := fn(g, cfg); err != nil {
			return fmt.Errorf("BuildGraph: %w", err)
		}
	}

	return nil
}
