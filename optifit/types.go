// SPDX-License-Identifier: MIT

package optifit

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/Schaudge/mothur/metric"
)

// Sentinel errors for State operations.
var (
	// ErrNilOracle is returned by New for a nil closeness oracle.
	ErrNilOracle = errors.New("optifit: oracle is nil")

	// ErrNilMetric is returned by New for a nil metric.
	ErrNilMetric = errors.New("optifit: metric is nil")

	// ErrNotInitialized is returned when Update or a reporter runs before Initialize.
	ErrNotInitialized = errors.New("optifit: state not initialized")

	// ErrAlreadyInitialized is returned by a second Initialize call.
	ErrAlreadyInitialized = errors.New("optifit: state already initialized")

	// ErrLabelMismatch is returned when reference bins and their labels do not
	// pair up one to one, or a label is empty.
	ErrLabelMismatch = errors.New("optifit: reference bins and labels mismatch")

	// ErrEmptyBin is returned by Initialize for a reference bin without members.
	ErrEmptyBin = errors.New("optifit: empty reference bin")

	// ErrCancelled marks a run stopped by its context. The state is unusable
	// afterwards and every further call returns ErrCancelled.
	ErrCancelled = errors.New("optifit: run cancelled")

	// ErrUnknownMode is returned by ParseMode.
	ErrUnknownMode = errors.New("optifit: unknown fit mode")
)

// Mode selects what happens to query sequences that join no reference bin.
type Mode int

const (
	// Closed reports unfitted sequences as unplaced.
	Closed Mode = iota
	// Open clusters unfitted sequences de novo and reports the new OTUs.
	Open
)

// String returns "closed" or "open".
func (m Mode) String() string {
	switch m {
	case Closed:
		return "closed"
	case Open:
		return "open"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode resolves "open" or "closed", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "closed":
		return Closed, nil
	case "open":
		return Open, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// OTU is one reported group: its label and its comma-joined member names.
type OTU struct {
	Label string
	Names string
}

// Size counts the members of o.
func (o OTU) Size() int {
	if o.Names == "" {
		return 0
	}

	return strings.Count(o.Names, ",") + 1
}

// FitResult is the output of FittedList.
type FitResult struct {
	// OTUs lists new groups first (sub-clustered or singleton leftovers),
	// then fitted reference bins in bin order.
	OTUs []OTU

	// Unplaced holds the names of unfitted query sequences in closed mode.
	Unplaced []string
}

// Stats is a confusion tally together with every built-in metric on it.
type Stats struct {
	Counts  metric.Counts
	Summary metric.Summary
}

// IterationStats describes one convergence step. Iter 0 is the initialized state.
type IterationStats struct {
	Iter    int
	Elapsed time.Duration
	Metric  float64
	Delta   float64
	NumBins int
	Moves   int
	Stats   Stats
}

// ConvergeOptions drives Converge.
type ConvergeOptions struct {
	// Delta stops the loop once |metric(t) − metric(t−1)| ≤ Delta.
	Delta float64

	// MaxIters caps the number of Update passes.
	MaxIters int

	// OnIteration, if non-nil, observes every step including step 0.
	// Returning an error aborts Converge with that error.
	OnIteration func(IterationStats) error
}

// Convergence defaults of the classic mothur command.
const (
	DefaultDelta    = 0.0001
	DefaultMaxIters = 100
)

// DefaultConvergeOptions returns Delta=DefaultDelta, MaxIters=DefaultMaxIters, no hook.
func DefaultConvergeOptions() ConvergeOptions {
	return ConvergeOptions{Delta: DefaultDelta, MaxIters: DefaultMaxIters}
}

// Options configures a State.
type Options struct {
	rng      *rand.Rand
	subSeed  int64 // seeds the open-mode sub-clustering
	shuffle  bool
	logger   *slog.Logger
	converge ConvergeOptions
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns:
//   - a deterministic RNG seeded with the default seed,
//   - shuffled processing order,
//   - a discarding logger,
//   - DefaultConvergeOptions for open-mode sub-clustering.
func DefaultOptions() Options {
	return Options{
		rng:      rngFromSeed(0),
		subSeed:  DeriveSeed(defaultRNGSeed, streamUnfitted),
		shuffle:  true,
		logger:   slog.New(slog.DiscardHandler),
		converge: DefaultConvergeOptions(),
	}
}

// WithRand injects the tie-breaking and shuffling source. The State takes
// ownership; do not share r with another goroutine. nil is ignored.
// One value is drawn from r here to seed the open-mode sub-clustering.
func WithRand(r *rand.Rand) Option {
	return func(o *Options) {
		if r != nil {
			o.rng = r
			o.subSeed = DeriveSeed(r.Int63(), streamUnfitted)
		}
	}
}

// WithSeed seeds the State's source with NewRand(seed) and derives the
// sub-clustering seed from the same value.
func WithSeed(seed int64) Option {
	return func(o *Options) {
		if seed == 0 {
			seed = defaultRNGSeed
		}
		o.rng = rngFromSeed(seed)
		o.subSeed = DeriveSeed(seed, streamUnfitted)
	}
}

// WithShuffle toggles the random processing order of query sequences.
func WithShuffle(on bool) Option {
	return func(o *Options) { o.shuffle = on }
}

// WithLogger routes progress messages to l. nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSubClustering sets the convergence policy of the open-mode
// sub-clustering of unfitted sequences. The hook, if any, is kept.
func WithSubClustering(c ConvergeOptions) Option {
	return func(o *Options) { o.converge = c }
}
