// SPDX-License-Identifier: MIT

package optifit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Schaudge/mothur/closeness"
	"github.com/Schaudge/mothur/metric"
	"github.com/Schaudge/mothur/optifit"
)

func TestNew_NilCollaborators(t *testing.T) {
	o := fitOracle(t)

	_, err := optifit.New(nil, metric.MCC)
	assert.ErrorIs(t, err, optifit.ErrNilOracle)

	_, err = optifit.New(o, nil)
	assert.ErrorIs(t, err, optifit.ErrNilMetric)
}

func TestInitialize_ReferenceCounts(t *testing.T) {
	o := fitOracle(t)
	s := newState(t, o)

	v, err := s.Initialize(context.Background(), refBins, refLabels, optifit.Closed, false)
	require.NoError(t, err)

	// 7 active sequences, 21 pairs, 10 close pairs of which 4 inside reference bins.
	want := metric.Counts{TP: 4, TN: 11, FP: 0, FN: 6}
	assert.Equal(t, want, s.ComboCounts())
	assert.InDelta(t, want.Score(metric.MCC), v, 1e-12)

	// X-Z is the only close query pair.
	assert.Equal(t, metric.Counts{TN: 0, FN: 1}, s.FitCounts())

	// every query sits alone; the insert slot follows them.
	bins := s.BinsForTest()
	require.Len(t, bins, 5)
	assert.Empty(t, bins[s.InsertForTest()])
	assert.Equal(t, 4, s.InsertForTest())

	requireConsistent(t, s, o)
}

func TestInitialize_UnknownReferenceCountsAsFalsePositive(t *testing.T) {
	o := fitOracle(t)
	s := newState(t, o)

	bins := [][]string{{"A", "B", "C", "R"}, {"D", "E"}}
	_, err := s.Initialize(context.Background(), bins, refLabels, optifit.Closed, false)
	require.NoError(t, err)

	c := s.ComboCounts()
	assert.EqualValues(t, 4, c.TP)
	assert.EqualValues(t, 3, c.FP, "R has no distances but is forced together with A, B, C")
	assert.EqualValues(t, 28, c.Pairs())

	requireConsistent(t, s, o)
}

func TestInitialize_StructuralErrors(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name   string
		bins   [][]string
		labels []string
		want   error
	}{
		{"label count", refBins, []string{"Otu1"}, optifit.ErrLabelMismatch},
		{"empty label", refBins, []string{"Otu1", ""}, optifit.ErrLabelMismatch},
		{"duplicate label", refBins, []string{"Otu1", "Otu1"}, optifit.ErrLabelMismatch},
		{"empty bin", [][]string{{"A", "B", "C"}, {}}, refLabels, optifit.ErrEmptyBin},
		{"query in reference bin", [][]string{{"A", "B", "C", "X"}, {"D", "E"}}, refLabels, closeness.ErrNotReference},
		{"reference left out", [][]string{{"A", "B", "C"}, {"D"}}, refLabels, closeness.ErrUnbinnedReference},
		{"reference twice", [][]string{{"A", "B", "C"}, {"D", "E", "A"}}, refLabels, closeness.ErrDuplicateSequence},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := newState(t, fitOracle(t))
			_, err := s.Initialize(ctx, c.bins, c.labels, optifit.Closed, false)
			assert.ErrorIs(t, err, c.want)
		})
	}

	s := newState(t, fitOracle(t))
	_, err := s.Initialize(ctx, refBins, refLabels, optifit.Mode(7), false)
	assert.ErrorIs(t, err, optifit.ErrUnknownMode)
}

func TestState_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := newState(t, fitOracle(t))

	_, err := s.Update(ctx)
	assert.ErrorIs(t, err, optifit.ErrNotInitialized)
	_, err = s.List()
	assert.ErrorIs(t, err, optifit.ErrNotInitialized)
	_, err = s.FittedList(ctx, "0.03", false)
	assert.ErrorIs(t, err, optifit.ErrNotInitialized)

	_, err = s.Initialize(ctx, refBins, refLabels, optifit.Closed, false)
	require.NoError(t, err)
	_, err = s.Initialize(ctx, refBins, refLabels, optifit.Closed, false)
	assert.ErrorIs(t, err, optifit.ErrAlreadyInitialized)
}

func TestState_CancelledIsTerminal(t *testing.T) {
	s := newState(t, fitOracle(t))
	_, err := s.Initialize(context.Background(), refBins, refLabels, optifit.Open, false)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Update(ctx)
	require.ErrorIs(t, err, optifit.ErrCancelled)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.Update(context.Background())
	assert.ErrorIs(t, err, optifit.ErrCancelled)
	_, err = s.List()
	assert.ErrorIs(t, err, optifit.ErrCancelled)
}

func TestInitialize_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := newState(t, fitOracle(t))

	_, err := s.Initialize(ctx, refBins, refLabels, optifit.Closed, false)
	assert.ErrorIs(t, err, optifit.ErrCancelled)
}

func TestInitialize_ProcessingOrder(t *testing.T) {
	o := fitOracle(t)
	ctx := context.Background()
	x, _ := o.Index("X")
	z, _ := o.Index("Z")

	s := newState(t, o, optifit.WithShuffle(false))
	_, err := s.Initialize(ctx, refBins, refLabels, optifit.Closed, false)
	require.NoError(t, err)
	assert.Equal(t, []int{x, z}, s.OrderForTest(), "references stay put without denovo")

	s = newState(t, o, optifit.WithShuffle(false))
	_, err = s.Initialize(ctx, refBins, refLabels, optifit.Closed, true)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{x, z, 0, 1, 2, 3, 4}, s.OrderForTest())
}

func TestFindInsert(t *testing.T) {
	o := fitOracle(t)
	s := newState(t, o)
	_, err := s.Initialize(context.Background(), refBins, refLabels, optifit.Closed, false)
	require.NoError(t, err)

	assert.Equal(t, s.InsertForTest(), s.FindInsertForTest(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, -1, s.FindInsertForTest(ctx))
}

func TestParseMode(t *testing.T) {
	m, err := optifit.ParseMode(" Open")
	require.NoError(t, err)
	assert.Equal(t, optifit.Open, m)

	m, err = optifit.ParseMode("closed")
	require.NoError(t, err)
	assert.Equal(t, optifit.Closed, m)

	_, err = optifit.ParseMode("ajar")
	assert.ErrorIs(t, err, optifit.ErrUnknownMode)
	assert.Equal(t, "mode(9)", optifit.Mode(9).String())
}
