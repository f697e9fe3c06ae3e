// SPDX-License-Identifier: MIT

package optifit_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Schaudge/mothur/optifit"
)

func TestShuffleInPlace_SeedDeterminism(t *testing.T) {
	base := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	a := slices.Clone(base)
	b := slices.Clone(base)
	optifit.ExportedShuffleInPlace(a, optifit.NewRand(17))
	optifit.ExportedShuffleInPlace(b, optifit.NewRand(17))
	assert.Equal(t, a, b)

	// permutation, not a resample
	sorted := slices.Clone(a)
	slices.Sort(sorted)
	assert.Equal(t, base, sorted)
}

func TestNewRand_ZeroSeedIsDefault(t *testing.T) {
	assert.Equal(t, optifit.NewRand(1).Int63(), optifit.NewRand(0).Int63())
}

func TestDeriveSeed_Decorrelates(t *testing.T) {
	seen := make(map[int64]bool)
	for stream := uint64(0); stream < 64; stream++ {
		s := optifit.DeriveSeed(42, stream)
		assert.False(t, seen[s], "stream %d collides", stream)
		seen[s] = true
	}
	assert.Equal(t, optifit.DeriveSeed(42, 3), optifit.DeriveSeed(42, 3))
	assert.NotEqual(t, optifit.DeriveSeed(42, 3), optifit.DeriveSeed(43, 3))
}
