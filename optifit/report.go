// SPDX-License-Identifier: MIT

package optifit

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// List returns the current partition: the oracle's singletons first, then
// every bin with at least one known member, in bin order. Each entry is a
// comma-joined name list.
func (s *State) List() ([]string, error) {
	if err := s.ready(phaseReady); err != nil {
		return nil, err
	}

	var out = s.oracle.Singletons()
	for _, bin := range s.bins {
		if names := s.joinNames(bin); names != "" {
			out = append(out, names)
		}
	}

	return out, nil
}

// FittedList reports the fitted clustering. Queries that joined a reference
// bin are grouped under that bin's label. A reference bin emptied by a
// denovo pass loses its label for good. References, including those the
// oracle does not know, are added when includeRefs or denovo is set.
// Queries left outside every reference bin, together with the oracle's query
// singletons, are clustered anew in Open mode or listed in FitResult.Unplaced
// in Closed mode. An empty label skips that step.
//
// New groups come first and receive synthesized labels; fitted groups
// follow in bin order.
//
// Errors: ErrNotInitialized, ErrCancelled, and any error of the open-mode
// sub-clustering.
func (s *State) FittedList(ctx context.Context, label string, includeRefs bool) (FitResult, error) {
	if err := s.ready(phaseReady); err != nil {
		return FitResult{}, err
	}

	var (
		groups   = make(map[int][]string)
		unfitted []int
		fitted   int
		seq      int
		b        int
		ok       bool
	)
	for _, seq = range s.fit {
		if err := ctx.Err(); err != nil {
			return FitResult{}, s.cancel(err)
		}
		b = s.seqBin[seq]
		if _, ok = s.labels[b]; ok {
			groups[b] = append(groups[b], s.oracle.Name(seq))
			fitted++
			continue
		}
		unfitted = append(unfitted, seq)
	}
	if s.denovo || includeRefs {
		for _, seq = range s.oracle.RefSeqs() {
			b = s.seqBin[seq]
			groups[b] = append(groups[b], s.oracle.Name(seq))
		}
		for b = range s.bins {
			for _, seq = range s.bins[b] {
				if seq < 0 {
					groups[b] = append(groups[b], s.absent[seq])
				}
			}
		}
	}

	var (
		res         FitResult
		fresh       []string
		fitSingles  = s.oracle.FitSingletons()
		hasUnfitted = len(unfitted) > 0 || len(fitSingles) > 0
		log         = s.opts.logger
	)
	switch {
	case label == "":
	case !hasUnfitted:
		log.Info("fitted all sequences to existing OTUs", "label", label, "fitted", fitted)
	default:
		log.Info("fitted sequences to existing OTUs", "label", label, "fitted", fitted, "otus", len(groups))
		if s.mode == Closed {
			res.Unplaced = make([]string, 0, len(unfitted)+len(fitSingles))
			for _, seq = range unfitted {
				res.Unplaced = append(res.Unplaced, s.oracle.Name(seq))
			}
			res.Unplaced = append(res.Unplaced, fitSingles...)
			log.Info("sequences unable to be fitted are reported as unplaced", "label", label, "unplaced", len(res.Unplaced))
			break
		}

		log.Info("clustering the unfitted sequences", "label", label,
			"unfitted", len(unfitted)+s.numFitSingles, "singletons", len(fitSingles))
		if len(unfitted) > 0 {
			sub, err := s.clusterUnfitted(ctx, unfitted, label)
			if err != nil {
				return FitResult{}, err
			}
			log.Info("unfitted sequences clustered into new OTUs", "label", label, "otus", len(sub))
			fresh = append(fresh, sub...)
		}
		fresh = append(fresh, fitSingles...)
	}

	var (
		keys  = slices.Sorted(maps.Keys(groups))
		taken = make(map[string]bool, len(s.taken))
	)
	for _, l := range s.taken {
		taken[l] = true
	}
	next := labeler(len(fresh)+len(keys), taken)

	res.OTUs = make([]OTU, 0, len(fresh)+len(keys))
	for _, names := range fresh {
		res.OTUs = append(res.OTUs, OTU{Label: next(), Names: names})
	}
	for _, b = range keys {
		l, known := s.labels[b]
		if !known {
			l = next()
		}
		res.OTUs = append(res.OTUs, OTU{Label: l, Names: strings.Join(groups[b], ",")})
	}

	return res, nil
}

// clusterUnfitted clusters ids de novo on an extracted sub-oracle and
// returns its List. The child is seeded from the State's fixed sub-seed, so
// s is left untouched and repeated calls agree.
func (s *State) clusterUnfitted(ctx context.Context, ids []int, label string) ([]string, error) {
	sub, err := s.oracle.ExtractSubset(ids)
	if err != nil {
		return nil, fmt.Errorf("optifit: extract unfitted: %w", err)
	}

	child, err := New(sub, s.metric,
		WithSeed(s.opts.subSeed),
		WithShuffle(s.opts.shuffle),
		WithLogger(s.opts.logger.With("label", label, "stage", "unfitted")),
		WithSubClustering(s.opts.converge),
	)
	if err != nil {
		return nil, err
	}
	if _, err = child.Initialize(ctx, nil, nil, Open, false); err != nil {
		return nil, s.propagate(err)
	}
	if _, err = Converge(ctx, child, s.opts.converge); err != nil {
		return nil, s.propagate(err)
	}

	return child.List()
}

// propagate marks s cancelled when a nested run was.
func (s *State) propagate(err error) error {
	if errors.Is(err, ErrCancelled) {
		s.phase = phaseCancelled
	}

	return err
}

func (s *State) joinNames(bin []int) string {
	var sb strings.Builder
	for _, m := range bin {
		if m < 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(s.oracle.Name(m))
	}

	return sb.String()
}
