// SPDX-License-Identifier: MIT

package optifit

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/Schaudge/mothur/closeness"
	"github.com/Schaudge/mothur/metric"
)

type phase uint8

const (
	phaseNew phase = iota
	phaseReady
	phaseCancelled
)

// State is a clustering under optimization: a partition of the oracle's
// active sequences into bins plus the confusion counts it induces.
//
// Two tallies are kept. The combo tally covers references and queries; the
// fit tally covers query/query pairs only. Both are updated incrementally.
//
// A State is not safe for concurrent use.
type State struct {
	oracle closeness.Oracle
	metric metric.Metric
	opts   Options

	phase  phase
	mode   Mode
	denovo bool

	bins   [][]int        // bin → members; negative ids stand for reference names unknown to the oracle
	seqBin []int          // active index → bin
	labels map[int]string // reference bin → label; dropped once the bin empties
	taken  []string       // every reference label, kept for label synthesis
	absent map[int]string // placeholder id → reference name
	insert int            // index of an empty bin
	order  []int          // sequences visited by Update
	fit    []int          // ascending query indices

	numRef          int // members of the reference bins, placeholders included
	numRefSingles   int // placeholders that are oracle singletons
	numFitSingles   int // queries without a close query neighbour
	candidatesByAll bool

	combo metric.Counts
	fitc  metric.Counts
	moves int
}

// New returns an uninitialized State over o that maximizes m.
func New(o closeness.Oracle, m metric.Metric, opts ...Option) (*State, error) {
	if o == nil {
		return nil, ErrNilOracle
	}
	if m == nil {
		return nil, ErrNilMetric
	}
	var cfg = DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &State{oracle: o, metric: m, opts: cfg, insert: -1}, nil
}

// Initialize seeds the clustering. bins are the reference OTUs by name,
// labels[g] names bins[g]; every query starts in a bin of its own. With no
// bins the State clusters de novo. With denovo set, references are also
// moved by Update.
//
// It returns the metric value of the initial partition.
//
// Errors: ErrAlreadyInitialized, ErrLabelMismatch, ErrEmptyBin,
// ErrUnknownMode, ErrCancelled, and the closeness errors of TranslateBins.
//
// Complexity: O(N + Σ|bin|²).
func (s *State) Initialize(ctx context.Context, bins [][]string, labels []string, mode Mode, denovo bool) (float64, error) {
	if err := s.ready(phaseNew); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, s.cancel(err)
	}
	if err := validateBins(bins, labels); err != nil {
		return 0, err
	}
	if mode != Closed && mode != Open {
		return 0, fmt.Errorf("%w: %v", ErrUnknownMode, mode)
	}

	translated, fit, err := s.oracle.TranslateBins(bins)
	if err != nil {
		return 0, fmt.Errorf("optifit: initialize: %w", err)
	}

	var (
		n       = s.oracle.NumSeqs()
		singles = make(map[string]bool, s.oracle.NumSingletons())
		nextPH  = -1
		reftp   int64
		reffp   int64
		g, k, l int
		id      int
		members []int
	)
	for _, name := range s.oracle.Singletons() {
		singles[name] = true
	}

	s.mode, s.denovo = mode, denovo
	s.seqBin = make([]int, n)
	for id = range s.seqBin {
		s.seqBin[id] = -1
	}
	s.bins = make([][]int, 0, len(translated)+len(fit)+1)
	s.labels = make(map[int]string, len(translated))
	s.taken = append(make([]string, 0, len(labels)), labels...)
	s.absent = make(map[int]string)

	for g, members = range translated {
		if err = ctx.Err(); err != nil {
			return 0, s.cancel(err)
		}
		for k = range members {
			if members[k] >= 0 {
				s.seqBin[members[k]] = g
				continue
			}
			members[k] = nextPH
			s.absent[nextPH] = bins[g][k]
			nextPH--
			if singles[bins[g][k]] {
				s.numRefSingles++
			}
		}
		for k = 0; k < len(members); k++ {
			for l = k + 1; l < len(members); l++ {
				if s.oracle.IsClose(members[k], members[l]) {
					reftp++
				} else {
					reffp++
				}
			}
		}
		s.bins = append(s.bins, members)
		s.labels[g] = labels[g]
		s.numRef += len(members)
	}

	var fitClose int64
	for _, id = range fit {
		s.seqBin[id] = len(s.bins)
		s.bins = append(s.bins, []int{id})
		c := s.oracle.NumFitClose(id)
		fitClose += int64(c)
		if c == 0 {
			s.numFitSingles++
		}
	}
	s.fit = fit

	s.combo.TP = reftp
	s.combo.FP = reffp
	s.combo.FN = int64(s.oracle.NumDists()) - reftp
	s.combo.TN = pairs(s.numRef+len(fit)) - (s.combo.TP + s.combo.FP + s.combo.FN)

	s.fitc.FN = fitClose / 2
	s.fitc.TN = pairs(len(fit)) - s.fitc.FN

	s.insert = len(s.bins)
	s.bins = append(s.bins, nil)

	s.order = append(make([]int, 0, len(fit)), fit...)
	if denovo {
		s.order = append(s.order, s.oracle.RefSeqs()...)
	}
	if s.opts.shuffle {
		shuffleInPlace(s.order, s.opts.rng)
	}
	s.candidatesByAll = denovo || len(translated) == 0
	s.phase = phaseReady

	s.opts.logger.Debug("optifit: initialized",
		"seqs", n, "refBins", len(translated), "queries", len(fit), "mode", mode.String(),
		"denovo", denovo, "metric", s.combo.Score(s.metric))

	return s.combo.Score(s.metric), nil
}

func validateBins(bins [][]string, labels []string) error {
	if len(bins) != len(labels) {
		return fmt.Errorf("%w: %d bins, %d labels", ErrLabelMismatch, len(bins), len(labels))
	}
	var seen = make(map[string]struct{}, len(labels))
	for g := range bins {
		if len(bins[g]) == 0 {
			return fmt.Errorf("%w: %q", ErrEmptyBin, labels[g])
		}
		if labels[g] == "" {
			return fmt.Errorf("%w: bin %d has no label", ErrLabelMismatch, g)
		}
		if _, dup := seen[labels[g]]; dup {
			return fmt.Errorf("%w: duplicate label %q", ErrLabelMismatch, labels[g])
		}
		seen[labels[g]] = struct{}{}
	}

	return nil
}

// ready fails unless the State is in phase want.
func (s *State) ready(want phase) error {
	switch {
	case s.phase == phaseCancelled:
		return ErrCancelled
	case s.phase == want:
		return nil
	case want == phaseNew:
		return ErrAlreadyInitialized
	default:
		return ErrNotInitialized
	}
}

func (s *State) cancel(cause error) error {
	s.phase = phaseCancelled

	return fmt.Errorf("%w: %w", ErrCancelled, cause)
}

// findInsert returns the first empty bin, or -1 if there is none or ctx
// is done.
//
// Complexity: O(B).
func (s *State) findInsert(ctx context.Context) int {
	for b := range s.bins {
		if ctx.Err() != nil {
			return -1
		}
		if len(s.bins[b]) == 0 {
			return b
		}
	}

	return -1
}

// closeFar counts the members of bin that are close and far from seq,
// seq itself excluded.
func (s *State) closeFar(seq, bin int) (nclose, nfar int64) {
	for _, m := range s.bins[bin] {
		if m == seq {
			continue
		}
		if s.oracle.IsClose(seq, m) {
			nclose++
		} else {
			nfar++
		}
	}

	return nclose, nfar
}

// closeFarFit is closeFar restricted to query members.
func (s *State) closeFarFit(seq, bin int) (nclose, nfar int64) {
	for _, m := range s.bins[bin] {
		if m == seq || m < 0 {
			continue
		}
		closeFit, isFit := s.oracle.IsCloseFit(seq, m)
		switch {
		case closeFit:
			nclose++
		case isFit:
			nfar++
		}
	}

	return nclose, nfar
}

// detach is c after a sequence with nclose/nfar bin mates leaves its bin.
func detach(c metric.Counts, nclose, nfar int64) metric.Counts {
	c.TP -= nclose
	c.FN += nclose
	c.FP -= nfar
	c.TN += nfar

	return c
}

// attach is c after a sequence joins a bin holding nclose/nfar mates.
func attach(c metric.Counts, nclose, nfar int64) metric.Counts {
	c.TP += nclose
	c.FN -= nclose
	c.FP += nfar
	c.TN -= nfar

	return c
}

// pairs is C(n, 2), zero below two.
func pairs(n int) int64 {
	if n < 2 {
		return 0
	}

	return int64(combin.Binomial(n, 2))
}
