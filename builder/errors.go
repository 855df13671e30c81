// SPDX-License-Identifier: MIT
// Package: percolath/builder
//
// errors.go - sentinel errors for the builder package.
//
// Error policy:
//   - Only package-level sentinels are exposed; callers branch with errors.Is.
//   - Constructors attach context as "<Method>: <detail>: %w".
//   - Constructors never panic; option constructors (WithX) panic on nil inputs.

package builder

import "errors"

// ErrTooFewVertices indicates a size parameter below the constructor minimum.
var ErrTooFewVertices = errors.New("builder: parameter too small")

// ErrInvalidProbability indicates a probability outside [0,1].
var ErrInvalidProbability = errors.New("builder: probability out of range")

// ErrNeedRandSource indicates a stochastic constructor without WithSeed/WithRand.
var ErrNeedRandSource = errors.New("builder: rng is required")

// ErrUnsupportedGraphMode indicates a constructor incompatible with the
// graph flags, e.g. Messages with self-loops on a graph built without WithLoops.
var ErrUnsupportedGraphMode = errors.New("builder: unsupported graph mode")

// ErrConstructFailed indicates exhausted retries or a nil constructor.
var ErrConstructFailed = errors.New("builder: construction failed")

// ErrUnknownTopology indicates a Parse spec naming no known constructor or
// carrying malformed arguments.
var ErrUnknownTopology = errors.New("builder: unknown topology")
