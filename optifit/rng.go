// SPDX-License-Identifier: MIT

// Package optifit - RNG policy shared by the optimizer and its callers.
//
// Goals:
//   - Determinism: same seed ⇒ same processing order and same tie-breaks.
//   - Encapsulation: one factory; no time-based sources hidden anywhere.
//
// Concurrency:
//   - math/rand.Rand is NOT goroutine-safe. Every State owns its source;
//     use DeriveSeed for independent runs.
package optifit

import "math/rand"

// defaultRNGSeed is used when callers pass seed==0.
const defaultRNGSeed int64 = 1

// streamUnfitted identifies the substream handed to open-mode sub-clustering.
const streamUnfitted uint64 = 1

// NewRand returns a deterministic source. seed==0 selects the default seed.
func NewRand(seed int64) *rand.Rand { return rngFromSeed(seed) }

func rngFromSeed(seed int64) *rand.Rand {
	var s = seed
	if s == 0 {
		s = defaultRNGSeed
	}

	return rand.New(rand.NewSource(s))
}

// DeriveSeed mixes a parent seed and a stream id into a decorrelated seed,
// e.g. one seed per replicate run. The mixing is the SplitMix64 finalizer
// (Steele, Lea, Flood 2014; constants as in Vigna's splitmix64.c).
//
// Complexity: O(1).
func DeriveSeed(parent int64, stream uint64) int64 {
	var x uint64
	x = uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// shuffleInPlace is an unbiased Fisher–Yates shuffle of a.
//
// Complexity: O(n) time, O(1) extra space.
func shuffleInPlace(a []int, rng *rand.Rand) {
	var (
		n = len(a)
		i int
		j int
	)
	if n <= 1 {
		return
	}
	if rng == nil {
		rng = rngFromSeed(0)
	}
	for i = n - 1; i > 0; i-- {
		j = rng.Intn(i + 1)
		a[i], a[j] = a[j], a[i]
	}
}
