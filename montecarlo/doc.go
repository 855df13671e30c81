// Package montecarlo runs a randomized percolation trial many times and
// reduces the outcomes.
//
// Every trial receives:
//
//   - its own deep copy of the source graph (the source is only read), and
//   - its own *rand.Rand derived from (run seed, trial index) with a
//     SplitMix64 mix, so a seeded run gives identical results for any
//     worker count.
//
// Trials execute on a bounded pool (errgroup with SetLimit); one worker
// runs them sequentially on the calling goroutine. A panic inside a trial is
// converted into that trial's error.
//
// Failure policies:
//
//	FailFast - stop scheduling at the first failure and return ErrTrialFailed.
//	Tolerate - reduce over the successful trials and report Failed; an
//	           all-failed run still returns ErrTrialFailed.
//
// Context cancellation stops scheduling further trials; trials already
// running finish.
package montecarlo
