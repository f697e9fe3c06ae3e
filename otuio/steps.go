// SPDX-License-Identifier: MIT

package otuio

import (
	"bufio"
	"io"
	"strconv"

	"github.com/Schaudge/mothur/optifit"
)

// StepColumns is the header of a step table.
var StepColumns = []string{
	"iter", "time", "label", "num_otus", "cutoff",
	"tp", "tn", "fp", "fn",
	"sensitivity", "specificity", "ppv", "npv", "fdr", "accuracy", "mcc", "f1score",
}

// StepWriter writes one tab-separated row per convergence iteration.
// It is not safe for concurrent use.
type StepWriter struct {
	bw     *bufio.Writer
	label  string
	cutoff string
	buf    []byte
}

// NewStepWriter writes the header to w and returns a writer for rows
// tagged with label and cutoff.
func NewStepWriter(w io.Writer, label, cutoff string) (*StepWriter, error) {
	sw := &StepWriter{bw: bufio.NewWriter(w), label: label, cutoff: cutoff}
	for i, c := range StepColumns {
		if i > 0 {
			sw.bw.WriteByte('\t')
		}
		sw.bw.WriteString(c)
	}
	if err := sw.bw.WriteByte('\n'); err != nil {
		return nil, err
	}

	return sw, nil
}

// Write appends the row for st.
func (sw *StepWriter) Write(st optifit.IterationStats) error {
	var (
		b = sw.buf[:0]
		c = st.Stats.Counts
	)
	b = strconv.AppendInt(b, int64(st.Iter), 10)
	b = append(b, '\t')
	b = strconv.AppendFloat(b, st.Elapsed.Seconds(), 'f', 2, 64)
	b = append(b, '\t')
	b = append(b, sw.label...)
	b = append(b, '\t')
	b = strconv.AppendInt(b, int64(st.NumBins), 10)
	b = append(b, '\t')
	b = append(b, sw.cutoff...)
	for _, n := range []int64{c.TP, c.TN, c.FP, c.FN} {
		b = append(b, '\t')
		b = strconv.AppendInt(b, n, 10)
	}
	for _, v := range st.Stats.Summary.Values() {
		b = append(b, '\t')
		b = strconv.AppendFloat(b, v, 'f', 6, 64)
	}
	b = append(b, '\n')
	sw.buf = b

	_, err := sw.bw.Write(b)

	return err
}

// SetLabel tags the rows written from now on with label.
func (sw *StepWriter) SetLabel(label string) { sw.label = label }

// Hook adapts Write to optifit.ConvergeOptions.OnIteration.
func (sw *StepWriter) Hook() func(optifit.IterationStats) error { return sw.Write }

// Flush writes buffered rows to the underlying writer.
func (sw *StepWriter) Flush() error { return sw.bw.Flush() }
