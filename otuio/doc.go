// SPDX-License-Identifier: MIT

// Package otuio reads and writes the line-oriented text files around an OTU
// clustering run.
//
// Supported formats:
//   - column distance files: "name1 name2 distance" per line, whitespace
//     separated. Pairs above the cutoff are dropped while reading; both names
//     are still recorded so that sequences without a close neighbour surface
//     as singletons.
//   - list files: an optional header "label numOtus Otu1 Otu2 ..." followed by
//     rows "label numOtus group1 group2 ...", each group a comma-joined name list.
//   - accnos files: one sequence name per line.
//   - step tables: one tab-separated row per convergence iteration.
//
// Open and Create treat "-" as stdin/stdout and a ".gz" suffix as gzip.
package otuio
