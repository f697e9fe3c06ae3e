// SPDX-License-Identifier: MIT

// Package mothur groups biological sequences into OTUs (operational
// taxonomic units) by greedy optimization of a pairwise quality metric.
//
// Every pair of sequences is classified twice: as "close" or not by a
// distance cutoff, and as "together" or not by the clustering. The resulting
// confusion tallies (tp, tn, fp, fn) feed a metric such as the Matthews
// correlation coefficient, and the optimizer moves one sequence at a time to
// whichever OTU raises that metric the most.
//
// Packages:
//
//	metric/    — Sensitivity, Specificity, PPV, NPV, FDR, Accuracy, MCC, F1
//	closeness/ — the closeness oracle and its sparse in-memory Matrix
//	optifit/   — cluster state, update passes, convergence, fitted reports
//	otuio/     — column distance, list, accnos and step-table files
//	telemetry/ — Prometheus collectors for clustering runs
//
// The optifit command (cmd/optifit) wires them together:
//
//	optifit cluster --column seqs.dist
//	optifit fit --column query.dist --reflist ref.list --method open
//
// Two regimes are supported. De novo clustering starts from singletons.
// Reference fitting starts from an existing clustering and places new query
// sequences into it; sequences that fit nowhere are either clustered among
// themselves (open) or reported as unplaced (closed).
package mothur
