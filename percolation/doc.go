// Package percolation implements removal-based percolation strategies over a
// core.Graph.
//
// What:
//
//   - Incremental: remove edges (bond) or vertices (site) one at a time in a
//     random order and watch the size of the second-largest non-trivial
//     component. The remaining fraction at which that size starts to
//     decrease is the critical threshold estimate.
//   - BondPercolation / SitePercolation: independent coin flip per element.
//   - ExactSiteRemoval: remove exactly floor(V·fraction) sampled vertices.
//   - Fractional: one of the three above, reporting the largest component
//     before and after.
//   - Spanning: site percolation followed by a "largest component holds at
//     least a threshold share of the survivors" test.
//   - TargetedRemoval: attack the highest-degree vertices first.
//
// Intensity convention:
//
//	p is always the probability (or fraction) of REMOVING an element.
//	Keep-probability studies pass 1-p.
//
// Trend detection (Incremental):
//
//	prev ← second-largest non-trivial size before the first removal (0 if <2)
//	after every removal:
//	    fewer than two non-trivial components → no evaluation
//	        (StopWhenFragmented ends the run here)
//	    s < prev → latch "decreasing" once, record Decrease; clear "increasing"
//	    s > prev → latch "increasing" once, record Increase; clear "decreasing"
//	    prev ← s
//	threshold ← Ratio of the last recorded Decrease
//
// Engines:
//
//	EngineReplay    - union-find over the reversed removal order, O((V+E)·log V).
//	EngineRecompute - BFS after every removal, O(steps·(V+E)); reference baseline.
//
// Both engines take the same order for the same rng and leave the graph in
// the same state.
//
// Errors:
//
//	ErrInvalidIntensity - p, fraction or threshold outside [0,1].
//	ErrInvalidOrder     - explicit order names an unknown or repeated element.
//	ErrNeedRandSource   - a random choice is required but rng is nil.
//	ErrInvalidOption    - unknown unit, stop policy or engine, or a negative denominator.
package percolation
