// SPDX-License-Identifier: MIT

package optifit

import (
	"context"
	"slices"

	"github.com/tidwall/btree"

	"github.com/Schaudge/mothur/metric"
)

// toSingleton marks the "open a new bin" alternative.
const toSingleton = -1

type alternative struct {
	bin    int
	counts metric.Counts
}

// Update runs one pass over the processing order. Each visited sequence
// moves to whichever alternative (its own new bin, or the bin of a
// candidate neighbour) scores strictly better than staying; equal best
// alternatives are decided by the State's random source.
//
// It returns the metric value after the pass. On cancellation the State
// becomes unusable and the error wraps ErrCancelled and ctx.Err().
//
// Complexity: O(Σ_seq deg(seq)·|bin|) per pass.
func (s *State) Update(ctx context.Context) (float64, error) {
	if err := s.ready(phaseReady); err != nil {
		return 0, err
	}

	var (
		candidates = btree.NewBTreeG[int](func(a, b int) bool { return a < b })
		ties       = make([]alternative, 0, 4)
		moves      int
		seq        int
		cur        int
		best       float64
		left       metric.Counts
	)
	for _, seq = range s.order {
		if err := ctx.Err(); err != nil {
			return 0, s.cancel(err)
		}

		cur = s.seqBin[seq]
		cc, cf := s.closeFar(seq, cur)
		left = detach(s.combo, cc, cf)
		best = s.combo.Score(s.metric)
		ties = ties[:0]

		consider := func(bin int, c metric.Counts) {
			v := c.Score(s.metric)
			switch {
			case v > best:
				best = v
				ties = append(ties[:0], alternative{bin: bin, counts: c})
			case v == best && len(ties) > 0:
				ties = append(ties, alternative{bin: bin, counts: c})
			}
		}

		if len(s.bins[cur]) > 1 {
			consider(toSingleton, left)
		}

		candidates.Clear()
		for _, nb := range s.neighbours(seq) {
			if b := s.seqBin[nb]; b != cur {
				candidates.Set(b)
			}
		}
		candidates.Scan(func(b int) bool {
			nc, nf := s.closeFar(seq, b)
			consider(b, attach(left, nc, nf))
			return true
		})

		if len(ties) == 0 {
			continue
		}
		pick := ties[0]
		if len(ties) > 1 {
			pick = ties[s.opts.rng.Intn(len(ties))]
		}
		s.move(ctx, seq, cur, pick)
		moves++
	}

	s.moves = moves

	return s.combo.Score(s.metric), nil
}

func (s *State) neighbours(seq int) []int {
	if s.candidatesByAll {
		return s.oracle.CloseSeqs(seq)
	}

	return s.oracle.CloseRefSeqs(seq)
}

// move relocates seq from bin from to the chosen alternative and carries
// both tallies along.
func (s *State) move(ctx context.Context, seq, from int, to alternative) {
	var (
		dst      = to.bin
		opensBin = dst == toSingleton
	)
	if opensBin {
		dst = s.insert
	}

	if !s.oracle.IsRef(seq) {
		oc, of := s.closeFarFit(seq, from)
		nc, nf := s.closeFarFit(seq, dst)
		s.fitc = attach(detach(s.fitc, oc, of), nc, nf)
	}
	s.combo = to.counts

	s.bins[dst] = append(s.bins[dst], seq)
	s.bins[from] = removeMember(s.bins[from], seq)
	s.seqBin[seq] = dst

	if len(s.bins[from]) == 0 {
		// an emptied reference bin stops being one; a group later opened
		// in its slot is new.
		delete(s.labels, from)
	}
	if len(s.bins[from]) == 0 && !opensBin {
		s.insert = from
		return
	}
	if opensBin {
		if s.insert = s.findInsert(ctx); s.insert < 0 {
			s.insert = len(s.bins)
			s.bins = append(s.bins, nil)
		}
	}
}

// removeMember drops seq from bin, keeping the order of the others.
func removeMember(bin []int, seq int) []int {
	if k := slices.Index(bin, seq); k >= 0 {
		return slices.Delete(bin, k, k+1)
	}

	return bin
}
