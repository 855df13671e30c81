// SPDX-License-Identifier: MIT
// Package: percolath/builder
//
// config.go - resolved builder configuration and its deterministic defaults:
//   - idFn     = DefaultIDFn ("0","1",...)
//   - rng      = nil (deterministic constructors only)
//   - weightFn = DefaultWeightFn (used only on weighted graphs)
//   - prefixes = "L" / "R" for CompleteBipartite

package builder

import "math/rand"

// builderConfig is passed by value to constructors.
type builderConfig struct {
	idFn     IDFn
	prefix   string // prepended to every ID; set by DisjointUnion
	rng      *rand.Rand
	weightFn WeightFn

	leftPrefix  string
	rightPrefix string
}

const (
	defaultLeftPrefix  = "L"
	defaultRightPrefix = "R"
)

// newBuilderConfig applies opts in order over the defaults; empty
// bipartite prefixes fall back to the defaults.
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{
		idFn:        DefaultIDFn,
		weightFn:    DefaultWeightFn,
		leftPrefix:  defaultLeftPrefix,
		rightPrefix: defaultRightPrefix,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.leftPrefix == "" {
		cfg.leftPrefix = defaultLeftPrefix
	}
	if cfg.rightPrefix == "" {
		cfg.rightPrefix = defaultRightPrefix
	}

	return cfg
}

// id returns the vertex ID of index i.
func (c builderConfig) id(i int) string {
	return c.prefix + c.idFn(i)
}

// fixedID prefixes a constructor-defined ID such as the hub or "r,c".
func (c builderConfig) fixedID(s string) string {
	return c.prefix + s
}

// withPrefix returns a copy of cfg whose IDs carry an extra prefix.
func (c builderConfig) withPrefix(prefix string) builderConfig {
	c.prefix += prefix
	return c
}
