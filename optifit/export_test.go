// SPDX-License-Identifier: MIT

package optifit

import (
	"context"
	"maps"
	"slices"
)

// Test bridge: read-only views of private State fields for optifit_test.

// BinsForTest returns a deep copy of the bin array.
func (s *State) BinsForTest() [][]int {
	out := make([][]int, len(s.bins))
	for b := range s.bins {
		out[b] = slices.Clone(s.bins[b])
	}

	return out
}

// SeqBinForTest returns a copy of the sequence → bin mapping.
func (s *State) SeqBinForTest() []int { return slices.Clone(s.seqBin) }

// InsertForTest returns the current insert slot.
func (s *State) InsertForTest() int { return s.insert }

// FindInsertForTest exposes findInsert.
func (s *State) FindInsertForTest(ctx context.Context) int { return s.findInsert(ctx) }

// LabelsForTest returns a copy of the reference bin → label mapping.
func (s *State) LabelsForTest() map[int]string { return maps.Clone(s.labels) }

// OrderForTest returns a copy of the processing order.
func (s *State) OrderForTest() []int { return slices.Clone(s.order) }

// ExportedShuffleInPlace exposes shuffleInPlace.
var ExportedShuffleInPlace = shuffleInPlace
