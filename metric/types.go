// SPDX-License-Identifier: MIT

package metric

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMetric is returned by Parse for a name that maps to no Kind.
var ErrUnknownMetric = errors.New("metric: unknown metric")

// Metric maps confusion tallies to a scalar score. Larger is better for every
// variant except FDR; the optimizer always maximizes, so callers asking for FDR
// get exactly what they asked for.
type Metric interface {
	Value(tp, tn, fp, fn float64) float64
}

// Func adapts a plain function to the Metric interface.
type Func func(tp, tn, fp, fn float64) float64

// Value implements Metric.
func (f Func) Value(tp, tn, fp, fn float64) float64 { return f(tp, tn, fp, fn) }

// Kind enumerates the built-in metrics. The zero value is MCC, the default
// objective of the optimizer.
type Kind int

const (
	MCC Kind = iota
	Sensitivity
	Specificity
	PPV
	NPV
	FDR
	Accuracy
	F1Score
)

// kindNames holds the canonical short names, indexed by Kind.
var kindNames = [...]string{
	MCC:         "mcc",
	Sensitivity: "sens",
	Specificity: "spec",
	PPV:         "ppv",
	NPV:         "npv",
	FDR:         "fdr",
	Accuracy:    "accuracy",
	F1Score:     "f1score",
}

// aliases accepted by Parse in addition to the canonical names.
var aliases = map[string]Kind{
	"sensitivity": Sensitivity,
	"specificity": Specificity,
	"f1":          F1Score,
	"acc":         Accuracy,
}

// Kinds returns every built-in Kind in reporting order
// (sensitivity, specificity, ppv, npv, fdr, accuracy, mcc, f1score).
func Kinds() []Kind {
	return []Kind{Sensitivity, Specificity, PPV, NPV, FDR, Accuracy, MCC, F1Score}
}

// String returns the canonical short name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("metric(%d)", int(k))
	}

	return kindNames[k]
}

// Parse resolves a case-insensitive metric name.
func Parse(name string) (Kind, error) {
	var (
		key = strings.ToLower(strings.TrimSpace(name))
		i   int
	)
	for i = range kindNames {
		if kindNames[i] == key {
			return Kind(i), nil
		}
	}
	if k, ok := aliases[key]; ok {
		return k, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
}

// Counts is one confusion tally over a population of sequence pairs.
type Counts struct {
	TP, TN, FP, FN int64
}

// Pairs returns tp+tn+fp+fn.
func (c Counts) Pairs() int64 { return c.TP + c.TN + c.FP + c.FN }

// Score evaluates m on c.
func (c Counts) Score(m Metric) float64 {
	return m.Value(float64(c.TP), float64(c.TN), float64(c.FP), float64(c.FN))
}

// Summary holds every built-in metric for one tally, in reporting order.
type Summary struct {
	Sensitivity float64
	Specificity float64
	PPV         float64
	NPV         float64
	FDR         float64
	Accuracy    float64
	MCC         float64
	F1Score     float64
}

// Values returns the summary as a slice ordered like Kinds().
func (s Summary) Values() []float64 {
	return []float64{s.Sensitivity, s.Specificity, s.PPV, s.NPV, s.FDR, s.Accuracy, s.MCC, s.F1Score}
}
