// SPDX-License-Identifier: MIT

// Package metric scores a pairwise classification of sequences.
//
// A clustering of n sequences induces a classification of all n·(n−1)/2 pairs:
// a pair is "positive" when both members share an OTU and "condition positive"
// when the closeness oracle reports them as close. The four tallies of that
// classification (tp, tn, fp, fn) feed every quality metric in this package:
//
//	Sensitivity = tp/(tp+fn)
//	Specificity = tn/(tn+fp)
//	PPV         = tp/(tp+fp)
//	NPV         = tn/(tn+fn)
//	FDR         = fp/(fp+tp)
//	Accuracy    = (tp+tn)/(tp+tn+fp+fn)
//	MCC         = (tp·tn − fp·fn)/sqrt((tp+fp)(tp+fn)(tn+fp)(tn+fn))
//	F1          = 2tp/(2tp+fp+fn)
//
// Every variant returns 0 instead of NaN or ±Inf when a denominator vanishes,
// which is the normal situation for the all-singleton starting state.
//
// Metrics are stateless values. A Kind (or a Func) may be shared freely
// between goroutines and between clustering runs.
package metric
