// SPDX-License-Identifier: MIT

package closeness

import (
	"errors"
	"math"
)

// Sentinel errors. Every error returned by this package matches one of these
// under errors.Is.
var (
	// ErrEmptyName is returned when a sequence name is the empty string.
	ErrEmptyName = errors.New("closeness: empty sequence name")

	// ErrDuplicateSequence is returned when a name is listed twice where
	// uniqueness is required (the name universe, a set of reference bins, a subset).
	ErrDuplicateSequence = errors.New("closeness: duplicate sequence")

	// ErrInvalidDistance is returned for a NaN or negative pairwise distance.
	ErrInvalidDistance = errors.New("closeness: invalid distance")

	// ErrUnknownIndex is returned when a sequence index is outside 0..NumSeqs()-1.
	ErrUnknownIndex = errors.New("closeness: unknown sequence index")

	// ErrEmptyGroup is returned by TranslateBins for a bin without members.
	ErrEmptyGroup = errors.New("closeness: empty bin")

	// ErrNotReference is returned by TranslateBins when a bin lists a query
	// sequence, i.e. an active sequence that was not declared a reference.
	ErrNotReference = errors.New("closeness: sequence in reference bin is not a reference")

	// ErrUnbinnedReference is returned by TranslateBins when an active
	// reference sequence is absent from every bin.
	ErrUnbinnedReference = errors.New("closeness: reference sequence missing from bins")
)

// Oracle is the closeness collaborator consumed by the optimizer.
//
// Indices are dense: 0 ≤ i < NumSeqs(). Methods taking indices may assume
// they are in range; TranslateBins and ExtractSubset validate their input.
type Oracle interface {
	// NumSeqs is the number of active (non-singleton) sequences.
	NumSeqs() int

	// IsClose reports whether i and j are within the cutoff. IsClose(i, i) is false.
	IsClose(i, j int) bool

	// IsCloseFit reports whether both i and j are query sequences (isFit) and,
	// if so, whether they are close (closeFit).
	IsCloseFit(i, j int) (closeFit, isFit bool)

	// CloseSeqs lists every close neighbour of i in ascending order.
	// The returned slice must not be modified.
	CloseSeqs(i int) []int

	// CloseRefSeqs lists the close neighbours of i that are references,
	// ascending. The returned slice must not be modified.
	CloseRefSeqs(i int) []int

	// NumFitClose counts the close neighbours of i that are query sequences.
	NumFitClose(i int) int

	// IsRef reports whether i is a reference sequence.
	IsRef(i int) bool

	// TranslateBins maps reference bins given by name onto indices. Names
	// without an active index map to -1. It also returns every query index
	// in ascending order.
	TranslateBins(groups [][]string) (bins [][]int, fit []int, err error)

	// RefSeqs lists the active reference indices in ascending order.
	RefSeqs() []int

	// Name returns the name of sequence i.
	Name(i int) string

	// ExtractSubset builds an independent oracle over exactly ids. Sequences
	// left without a close neighbour inside the subset become its singletons.
	ExtractSubset(ids []int) (Oracle, error)

	// NumSingletons counts the true singletons removed on construction.
	NumSingletons() int

	// NumFitTrueSingletons counts the true singletons that are query sequences.
	NumFitTrueSingletons() int

	// Singletons lists the names of all true singletons.
	Singletons() []string

	// FitSingletons lists the names of the query true singletons.
	FitSingletons() []string

	// NumRefDists counts close pairs with two reference members.
	NumRefDists() int

	// NumDists counts all close pairs.
	NumDists() int
}

// Distance is one entry of a pairwise distance list.
type Distance struct {
	A, B  string
	Value float64
}

// DefaultCutoff is the distance threshold used when WithCutoff is not given.
const DefaultCutoff = 0.03

const panicCutoffInvalid = "closeness: WithCutoff: cutoff must be finite, non-negative"

// Options configures New.
type Options struct {
	cutoff float64
	refs   []string
}

// Option mutates Options.
type Option func(*Options)

// WithCutoff sets the inclusive closeness threshold. It panics on a negative
// or non-finite value.
func WithCutoff(c float64) Option {
	if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
		panic(panicCutoffInvalid)
	}

	return func(o *Options) { o.cutoff = c }
}

// WithReferences declares the named sequences as references. Every other
// sequence is a query. Names outside the universe are ignored.
func WithReferences(names []string) Option {
	return func(o *Options) { o.refs = append(o.refs, names...) }
}

// DefaultOptions returns the construction defaults: DefaultCutoff and no
// references (every sequence is a query).
func DefaultOptions() Options {
	return Options{cutoff: DefaultCutoff}
}
