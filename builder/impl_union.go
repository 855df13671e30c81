// SPDX-License-Identifier: MIT
// Package: percolath/builder
//
// impl_union.go - DisjointUnion places constructors side by side.

package builder

import (
	"fmt"

	"github.com/katalvlaran/percolath/core"
)

const methodDisjointUnion = "DisjointUnion"

// DisjointUnion applies each part with IDs prefixed "<k>:" (k = part
// index), so parts never share vertices and the result has one component
// per connected part.
func DisjointUnion(parts ...Constructor) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		for k, part := range parts {
			if part == nil {
				return fmt.Errorf("%s: nil part %d: %w", methodDisjointUnion, k, ErrConstructFailed)
			}
			if err := part(g, cfg.withPrefix(fmt.Sprintf("%d:", k))); err != nil {
				return fmt.Errorf("%s: part %d: %w", methodDisjointUnion, k, err)
			}
		}
		return nil
	}
}
