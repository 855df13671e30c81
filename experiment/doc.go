// Package experiment sweeps a removal strategy over graph snapshots and an
// intensity grid, running one Monte Carlo batch per (snapshot, grid point),
// and collects the reductions into a Table.
//
// Strategies:
//
//	incremental-bond             threshold of random edge removal
//	incremental-node             threshold of random vertex removal
//	fractional-bond              largest component after coin-flip edge removal
//	fractional-node-coinflip     largest component after coin-flip vertex removal
//	fractional-node-exact-count  largest component after removing floor(V·p) vertices
//	spanning-threshold           share of trials with a spanning cluster
//	targeted-node                largest component after highest-degree attack
//
// Incremental strategies ignore the grid and produce one row per snapshot.
// Every trial works on its own clone: preprocessing happens inside the
// trial, so random edge retention is redrawn each time.
package experiment
