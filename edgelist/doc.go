// Package edgelist loads edge records (one row per message, transaction or
// contact) from CSV into per-bucket multigraph snapshots.
//
// Each row becomes one edge instance, so repeated contacts between the same
// pair stay parallel edges and self-addressed rows become self-loops.
// Rows are bucketed by month from a date column (YYYY-MM) or by a
// pre-computed bucket column; without either, every row lands in a single
// snapshot named DefaultBucket. Columns other than the endpoints, date
// and attribute columns are copied into the edge metadata by header name.
package edgelist
