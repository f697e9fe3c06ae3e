// SPDX-License-Identifier: MIT

// Package closeness answers "are these two sequences close?" for the OTU
// optimizer.
//
// Two sequences are close when their pairwise distance is at or below a
// cutoff. The optimizer never looks at distances themselves: it consumes the
// Oracle interface, which exposes closeness, the split between reference and
// query ("fit") sequences, and a handful of population counts.
//
// Matrix is the in-memory Oracle. It is built once from a list of pairwise
// distances:
//
//	m, err := closeness.New(names, dists,
//		closeness.WithCutoff(0.03),
//		closeness.WithReferences(refNames),
//	)
//
// Construction drops every pair above the cutoff and removes "true singletons"
// (sequences without a single close neighbour) from the active index space;
// they are still reported by Singletons and FitSingletons so that callers can
// emit them as one-member OTUs. Active sequences get dense indices 0..NumSeqs()-1
// in the order their names were first seen.
//
// Storage is a sorted adjacency list per sequence, so IsClose is a binary
// search and CloseSeqs is a slice view. A Matrix is immutable after New and is
// safe for concurrent readers; ExtractSubset returns an independent Matrix.
//
// Complexity:
//   - New:           O(P log P + N) for P distances over N names.
//   - IsClose:       O(log d) with d the neighbour count of i.
//   - ExtractSubset: O(k + Σ d) over the k extracted sequences.
package closeness
