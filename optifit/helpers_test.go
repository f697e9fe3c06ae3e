// SPDX-License-Identifier: MIT

package optifit_test

import (
	"fmt"
	"math/rand"
	"slices"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Schaudge/mothur/closeness"
	"github.com/Schaudge/mothur/metric"
	"github.com/Schaudge/mothur/optifit"
)

const (
	near = 0.01
	far  = 0.5
)

var (
	refNames  = []string{"A", "B", "C", "D", "E"}
	refBins   = [][]string{{"A", "B", "C"}, {"D", "E"}}
	refLabels = []string{"Otu1", "Otu2"}
)

// fitOracle builds the reference scenario:
//
//	reference bins {A,B,C} and {D,E}, fully close inside
//	X close to A, B and C
//	Y close to nothing (true singleton)
//	Z close to D, E and X
//
// extra distances are appended as given.
func fitOracle(t *testing.T, extra ...closeness.Distance) *closeness.Matrix {
	t.Helper()
	dists := []closeness.Distance{
		{A: "A", B: "B", Value: near},
		{A: "A", B: "C", Value: near},
		{A: "B", B: "C", Value: near},
		{A: "D", B: "E", Value: near},
		{A: "C", B: "D", Value: far},
		{A: "X", B: "A", Value: near},
		{A: "X", B: "B", Value: near},
		{A: "X", B: "C", Value: near},
		{A: "Z", B: "D", Value: near},
		{A: "Z", B: "E", Value: near},
		{A: "Z", B: "X", Value: near},
		{A: "Y", B: "A", Value: far},
	}
	dists = append(dists, extra...)
	m, err := closeness.New([]string{"A", "B", "C", "D", "E", "X", "Y", "Z"}, dists,
		closeness.WithReferences(refNames))
	require.NoError(t, err)

	return m
}

func newState(t *testing.T, o closeness.Oracle, opts ...optifit.Option) *optifit.State {
	t.Helper()
	s, err := optifit.New(o, metric.MCC, opts...)
	require.NoError(t, err)

	return s
}

// randomOracle draws n sequences; each pair is close with probability p.
// The first refs names are declared references.
func randomOracle(t *testing.T, rng *rand.Rand, n, refs int, p float64) (*closeness.Matrix, []string) {
	t.Helper()
	var (
		names = make([]string, n)
		dists []closeness.Distance
	)
	for i := range names {
		names[i] = fmt.Sprintf("s%03d", i)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := far
			if rng.Float64() < p {
				v = near
			}
			dists = append(dists, closeness.Distance{A: names[i], B: names[j], Value: v})
		}
	}
	m, err := closeness.New(names, dists, closeness.WithReferences(names[:refs]))
	require.NoError(t, err)

	return m, names[:refs]
}

// chunkBins splits names into consecutive bins of at most size members.
func chunkBins(names []string, size int) ([][]string, []string) {
	var (
		bins   [][]string
		labels []string
	)
	for i := 0; i < len(names); i += size {
		end := min(i+size, len(names))
		bins = append(bins, slices.Clone(names[i:end]))
		labels = append(labels, fmt.Sprintf("ref%d", len(labels)+1))
	}

	return bins, labels
}

// recount classifies every pair of bin members from scratch.
func recount(s *optifit.State, o closeness.Oracle) (combo, fit metric.Counts) {
	type member struct{ id, bin int }
	var all []member
	for b, bin := range s.BinsForTest() {
		for _, id := range bin {
			all = append(all, member{id: id, bin: b})
		}
	}
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			var (
				a, b    = all[i], all[j]
				same    = a.bin == b.bin
				known   = a.id >= 0 && b.id >= 0
				isClose = known && o.IsClose(a.id, b.id)
			)
			tally(&combo, same, isClose)
			if known && !o.IsRef(a.id) && !o.IsRef(b.id) {
				tally(&fit, same, isClose)
			}
		}
	}

	return combo, fit
}

func tally(c *metric.Counts, same, isClose bool) {
	switch {
	case same && isClose:
		c.TP++
	case same:
		c.FP++
	case isClose:
		c.FN++
	default:
		c.TN++
	}
}

// requireConsistent checks the bin/seqBin/insert invariants and the
// incremental tallies against a full recount.
func requireConsistent(t *testing.T, s *optifit.State, o closeness.Oracle) {
	t.Helper()
	var (
		bins   = s.BinsForTest()
		seqBin = s.SeqBinForTest()
		seen   = make([]bool, len(seqBin))
	)
	require.Empty(t, bins[s.InsertForTest()], "insert slot must be empty")
	for b, l := range s.LabelsForTest() {
		require.NotEmpty(t, bins[b], "label %q kept on an empty bin", l)
	}
	for b, bin := range bins {
		for _, id := range bin {
			if id < 0 {
				continue
			}
			require.Equal(t, b, seqBin[id], "seq %d listed in bin %d", id, b)
			require.False(t, seen[id], "seq %d listed twice", id)
			seen[id] = true
		}
	}
	for id := range seen {
		require.True(t, seen[id], "seq %d in no bin", id)
	}

	combo, fit := recount(s, o)
	require.Equal(t, combo, s.ComboCounts())
	require.Equal(t, fit, s.FitCounts())
}

// groupsOf normalizes comma-joined groups: members sorted, groups sorted.
func groupsOf(list []string) []string {
	out := make([]string, len(list))
	for i, g := range list {
		names := strings.Split(g, ",")
		sort.Strings(names)
		out[i] = strings.Join(names, ",")
	}
	sort.Strings(out)

	return out
}

// sameBin reports, for every pair of ids, whether they share a bin.
func sameBin(s *optifit.State, ids []int) map[[2]int]bool {
	var (
		seqBin = s.SeqBinForTest()
		out    = make(map[[2]int]bool)
	)
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			out[[2]int{ids[i], ids[j]}] = seqBin[ids[i]] == seqBin[ids[j]]
		}
	}

	return out
}
