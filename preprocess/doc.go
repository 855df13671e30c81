// Package preprocess cleans a trial's graph before a removal strategy runs.
//
// Operations (applied by Apply in this order):
//
//  1. StripSelfLoops        - drop every self-loop edge instance.
//  2. StripSelfOnlyVertices - drop vertices whose only neighbour is
//     themselves (isolated vertices included).
//  3. RetainFraction        - keep a uniform random sample of
//     floor(E·ratio) edges; vertices are untouched.
//
// All operations mutate the graph they are given; callers pass a clone.
//
// Errors:
//
//	ErrInvalidRatio   - retention ratio outside [0,1].
//	ErrNeedRandSource - a sampling step was requested without an rng.
package preprocess
