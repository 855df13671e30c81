// SPDX-License-Identifier: MIT
// Package: percolath/builder
//
// impl_random.go - stochastic constructors: RandomSparse, RandomRegular and
// Messages. All need cfg.rng and are reproducible for a fixed seed because
// every draw happens in a fixed loop order.

package builder

import (
	"fmt"

	"github.com/katalvlaran/percolath/core"
)

const (
	methodRandomSparse  = "RandomSparse"
	methodRandomRegular = "RandomRegular"
	methodMessages      = "Messages"

	minRandomVertices       = 1
	minMessagesVertices     = 2
	maxStubMatchingAttempts = 256
)

// RandomSparse samples G(n, p): each pair {i,j}, i<j, is joined with
// probability p. The rng may be omitted only for p ∈ {0,1}.
func RandomSparse(n int, p float64) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		if err := checkMin(methodRandomSparse, "n", n, minRandomVertices); err != nil {
			return err
		}
		if err := checkProbability(methodRandomSparse, p); err != nil {
			return err
		}
		if cfg.rng == nil && p > 0 && p < 1 {
			return fmt.Errorf("%s: %w", methodRandomSparse, ErrNeedRandSource)
		}
		if err := addVertices(g, methodRandomSparse, n, cfg.id); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				keep := p == 1
				if cfg.rng != nil && p > 0 && p < 1 {
					keep = cfg.rng.Float64() < p
				}
				if !keep {
					continue
				}
				if err := addEdge(g, cfg, methodRandomSparse, cfg.id(i), cfg.id(j)); err != nil {
					return err
				}
			}
		}
		return nil
	}
}

// RandomRegular builds a d-regular graph by stub matching, retrying a
// bounded number of times when a matching would create a loop or parallel
// edge the graph does not allow.
func RandomRegular(n, d int) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		if err := checkMin(methodRandomRegular, "n", n, minRandomVertices); err != nil {
			return err
		}
		if d < 0 || d >= n {
			return fmt.Errorf("%s: degree must be in [0,%d), got %d: %w", methodRandomRegular, n, d, ErrTooFewVertices)
		}
		if (n*d)%2 != 0 {
			return fmt.Errorf("%s: n*d must be even (n=%d, d=%d): %w", methodRandomRegular, n, d, ErrTooFewVertices)
		}
		if cfg.rng == nil {
			return fmt.Errorf("%s: %w", methodRandomRegular, ErrNeedRandSource)
		}
		if err := addVertices(g, methodRandomRegular, n, cfg.id); err != nil {
			return err
		}

		stubs := make([]int, 0, n*d)
		for i := 0; i < n; i++ {
			for k := 0; k < d; k++ {
				stubs = append(stubs, i)
			}
		}
		if len(stubs) == 0 {
			return nil
		}
		allowLoops, allowMulti := g.Looped(), g.Multigraph()

		for attempt := 1; attempt <= maxStubMatchingAttempts; attempt++ {
			cfg.rng.Shuffle(len(stubs), func(i, j int) { stubs[i], stubs[j] = stubs[j], stubs[i] })
			if !validMatching(stubs, allowLoops, allowMulti) {
				continue
			}
			for i := 0; i < len(stubs); i += 2 {
				if err := addEdge(g, cfg, methodRandomRegular, cfg.id(stubs[i]), cfg.id(stubs[i+1])); err != nil {
					return err
				}
			}
			return nil
		}

		return fmt.Errorf("%s: no valid matching after %d attempts: %w",
			methodRandomRegular, maxStubMatchingAttempts, ErrConstructFailed)
	}
}

func validMatching(stubs []int, allowLoops, allowMulti bool) bool {
	var seen map[[2]int]struct{}
	if !allowMulti {
		seen = make(map[[2]int]struct{}, len(stubs)/2)
	}
	for i := 0; i < len(stubs); i += 2 {
		u, v := stubs[i], stubs[i+1]
		if u == v && !allowLoops {
			return false
		}
		if allowMulti {
			continue
		}
		if u > v {
			u, v = v, u
		}
		if _, dup := seen[[2]int{u, v}]; dup {
			return false
		}
		seen[[2]int{u, v}] = struct{}{}
	}

	return true
}

// Messages simulates m messages among n correspondents on a multigraph.
// Each endpoint is drawn uniformly with probability 1/2 and otherwise in
// proportion to the messages already sent or received, which yields the
// heavy-tailed activity of mail traffic. A message is addressed to its
// sender with probability selfRatio; selfRatio > 0 requires WithLoops.
func Messages(n, m int, selfRatio float64) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		if err := checkMin(methodMessages, "n", n, minMessagesVertices); err != nil {
			return err
		}
		if err := checkMin(methodMessages, "m", m, 0); err != nil {
			return err
		}
		if err := checkProbability(methodMessages, selfRatio); err != nil {
			return err
		}
		if cfg.rng == nil {
			return fmt.Errorf("%s: %w", methodMessages, ErrNeedRandSource)
		}
		if !g.Multigraph() {
			return fmt.Errorf("%s: parallel messages need WithMultiEdges: %w", methodMessages, ErrUnsupportedGraphMode)
		}
		if selfRatio > 0 && !g.Looped() {
			return fmt.Errorf("%s: self-messages need WithLoops: %w", methodMessages, ErrUnsupportedGraphMode)
		}
		if err := addVertices(g, methodMessages, n, cfg.id); err != nil {
			return err
		}

		rng := cfg.rng
		endpoints := make([]int, 0, 2*m)
		pick := func() int {
			if len(endpoints) == 0 || rng.Intn(2) == 0 {
				return rng.Intn(n)
			}
			return endpoints[rng.Intn(len(endpoints))]
		}
		for k := 0; k < m; k++ {
			from := pick()
			to := from
			if selfRatio == 0 || rng.Float64() >= selfRatio {
				for to == from {
					to = pick()
				}
			}
			if err := addEdge(g, cfg, methodMessages, cfg.id(from), cfg.id(to)); err != nil {
				return err
			}
			endpoints = append(endpoints, from, to)
		}
		return nil
	}
}
