// SPDX-License-Identifier: MIT

package optifit

import (
	"context"

	"github.com/Schaudge/mothur/metric"
)

// Value is the metric on the combo tally, the quantity Update maximizes.
func (s *State) Value() float64 { return s.combo.Score(s.metric) }

// ComboCounts is the raw combo tally over reference and query sequences.
func (s *State) ComboCounts() metric.Counts { return s.combo }

// FitCounts is the raw tally over query/query pairs.
func (s *State) FitCounts() metric.Counts { return s.fitc }

// Moves is the number of sequences relocated by the last Update.
func (s *State) Moves() int { return s.moves }

// Stats reports the combo tally with the oracle's singletons counted as
// true negatives, except in Closed mode.
func (s *State) Stats() Stats {
	var singles int
	if s.mode != Closed {
		singles = s.oracle.NumSingletons() - s.numRefSingles
	}

	return withSingletons(s.combo, s.numRef+len(s.fit)+singles)
}

// FitStats is Stats for the query population, with the oracle's query
// singletons counted as true negatives except in Closed mode.
func (s *State) FitStats() Stats {
	var singles int
	if s.mode != Closed {
		singles = s.oracle.NumFitTrueSingletons()
	}

	return withSingletons(s.fitc, len(s.fit)+singles)
}

func withSingletons(c metric.Counts, n int) Stats {
	c.TN = pairs(n) - (c.TP + c.FP + c.FN)

	return Stats{Counts: c, Summary: metric.Summarize(c)}
}

// NumBins counts the OTUs List would report.
func (s *State) NumBins() int {
	var n = s.oracle.NumSingletons()
	for _, bin := range s.bins {
		for _, m := range bin {
			if m >= 0 {
				n++
				break
			}
		}
	}

	return n
}

// NumFitBins counts the groups of FittedList without unfitted handling.
func (s *State) NumFitBins() (int, error) {
	res, err := s.FittedList(context.Background(), "", false)
	if err != nil {
		return 0, err
	}

	return len(res.OTUs), nil
}
