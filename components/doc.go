// Package components analyses connectivity of a core.Graph for percolation
// experiments.
//
// What:
//
//   - All / NonTrivial: connected components as sorted vertex-ID lists,
//     with or without singletons.
//   - Sizes / NonTrivialSizes / Largest / SecondLargest: size statistics.
//   - Summarize: one pass producing every statistic the removal strategies
//     read after a mutation.
//   - DisjointSet and Tracker: incremental union-find over dense indices for
//     replaying a removal sequence backwards as a sequence of insertions.
//
// Conventions:
//
//   - A component of size one (an isolated vertex) is "trivial".
//   - SecondLargest of a size list with fewer than two entries is 0.
//   - Summary.SecondLargest is taken over non-trivial components only.
//
// Complexity:
//
//   - All / Sizes / Summarize: O(V + E) after an O(V log V + E log E) snapshot.
//   - Tracker.Activate / Connect: amortised O(α(V) + log V).
//   - Tracker.Summary: amortised O(log V).
package components
