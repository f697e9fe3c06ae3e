// SPDX-License-Identifier: MIT

package closeness

import (
	"fmt"
	"math"
	"slices"
)

// Matrix is a sparse, immutable closeness oracle.
type Matrix struct {
	names    []string       // active index → name
	index    map[string]int // name → active index
	isRef    []bool         // active index → reference flag
	close    [][]int        // active index → ascending close neighbours
	closeRef [][]int        // active index → ascending close reference neighbours
	fitClose []int          // active index → number of close query neighbours
	refs     []int          // ascending active reference indices
	single   []string       // true singletons, universe order
	fitSngl  []string       // query true singletons, universe order
	numDists int            // close pairs
	numRef   int            // close reference/reference pairs
}

var _ Oracle = (*Matrix)(nil)

// New builds a Matrix over names plus every name mentioned by dists.
// Pairs farther apart than the cutoff are discarded, self pairs are ignored
// and repeated pairs count once.
//
// Errors: ErrEmptyName, ErrDuplicateSequence (names repeats a name),
// ErrInvalidDistance (NaN or negative value).
//
// Complexity: O(P log P + N).
func New(names []string, dists []Distance, opts ...Option) (*Matrix, error) {
	var o = DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var (
		universe = make([]string, 0, len(names))
		pos      = make(map[string]int, len(names))
		name     string
		ok       bool
	)
	for _, name = range names {
		if name == "" {
			return nil, ErrEmptyName
		}
		if _, ok = pos[name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSequence, name)
		}
		pos[name] = len(universe)
		universe = append(universe, name)
	}

	intern := func(n string) int {
		if p, seen := pos[n]; seen {
			return p
		}
		pos[n] = len(universe)
		universe = append(universe, n)

		return pos[n]
	}

	var (
		pairs = make([][2]int, 0, len(dists))
		d     Distance
		a, b  int
	)
	for _, d = range dists {
		if d.A == "" || d.B == "" {
			return nil, ErrEmptyName
		}
		if math.IsNaN(d.Value) || d.Value < 0 {
			return nil, fmt.Errorf("%w: %s-%s=%v", ErrInvalidDistance, d.A, d.B, d.Value)
		}
		a, b = intern(d.A), intern(d.B)
		if a == b || d.Value > o.cutoff {
			continue
		}
		if a > b {
			a, b = b, a
		}
		pairs = append(pairs, [2]int{a, b})
	}

	refSet := make(map[string]bool, len(o.refs))
	for _, name = range o.refs {
		refSet[name] = true
	}

	return assemble(universe, refSet, pairs), nil
}

// assemble indexes the active part of universe. pairs hold universe
// positions with p[0] < p[1]; duplicates are tolerated.
func assemble(universe []string, refSet map[string]bool, pairs [][2]int) *Matrix {
	slices.SortFunc(pairs, func(x, y [2]int) int {
		if x[0] != y[0] {
			return x[0] - y[0]
		}
		return x[1] - y[1]
	})
	pairs = slices.Compact(pairs)

	// degree in universe space decides who is active
	var (
		degree = make([]int, len(universe))
		p      [2]int
	)
	for _, p = range pairs {
		degree[p[0]]++
		degree[p[1]]++
	}

	m := &Matrix{index: make(map[string]int)}
	active := make([]int, len(universe)) // universe position → active index or -1
	var u int
	for u = range universe {
		if degree[u] == 0 {
			active[u] = -1
			m.single = append(m.single, universe[u])
			if !refSet[universe[u]] {
				m.fitSngl = append(m.fitSngl, universe[u])
			}
			continue
		}
		active[u] = len(m.names)
		m.index[universe[u]] = len(m.names)
		m.names = append(m.names, universe[u])
		m.isRef = append(m.isRef, refSet[universe[u]])
	}

	var (
		n    = len(m.names)
		i, j int
	)
	m.close = make([][]int, n)
	for _, p = range pairs {
		i, j = active[p[0]], active[p[1]]
		m.close[i] = append(m.close[i], j)
		m.close[j] = append(m.close[j], i)
		m.numDists++
		if m.isRef[i] && m.isRef[j] {
			m.numRef++
		}
	}

	m.closeRef = make([][]int, n)
	m.fitClose = make([]int, n)
	for i = 0; i < n; i++ {
		slices.Sort(m.close[i])
		for _, j = range m.close[i] {
			if m.isRef[j] {
				m.closeRef[i] = append(m.closeRef[i], j)
			} else {
				m.fitClose[i]++
			}
		}
		if m.isRef[i] {
			m.refs = append(m.refs, i)
		}
	}

	return m
}

// NumSeqs implements Oracle.
func (m *Matrix) NumSeqs() int { return len(m.names) }

// IsClose implements Oracle.
func (m *Matrix) IsClose(i, j int) bool {
	if i < 0 || j < 0 || i >= len(m.close) {
		return false
	}
	_, found := slices.BinarySearch(m.close[i], j)

	return found
}

// IsCloseFit implements Oracle.
func (m *Matrix) IsCloseFit(i, j int) (closeFit, isFit bool) {
	if i < 0 || j < 0 || i >= len(m.isRef) || j >= len(m.isRef) {
		return false, false
	}
	if m.isRef[i] || m.isRef[j] {
		return false, false
	}

	return m.IsClose(i, j), true
}

// CloseSeqs implements Oracle.
func (m *Matrix) CloseSeqs(i int) []int { return m.close[i] }

// CloseRefSeqs implements Oracle.
func (m *Matrix) CloseRefSeqs(i int) []int { return m.closeRef[i] }

// NumFitClose implements Oracle.
func (m *Matrix) NumFitClose(i int) int { return m.fitClose[i] }

// IsRef implements Oracle.
func (m *Matrix) IsRef(i int) bool { return m.isRef[i] }

// RefSeqs implements Oracle.
func (m *Matrix) RefSeqs() []int { return slices.Clone(m.refs) }

// Name implements Oracle.
func (m *Matrix) Name(i int) string { return m.names[i] }

// Index returns the active index of name.
func (m *Matrix) Index(name string) (int, bool) {
	i, ok := m.index[name]
	return i, ok
}

// NumSingletons implements Oracle.
func (m *Matrix) NumSingletons() int { return len(m.single) }

// NumFitTrueSingletons implements Oracle.
func (m *Matrix) NumFitTrueSingletons() int { return len(m.fitSngl) }

// Singletons implements Oracle.
func (m *Matrix) Singletons() []string { return slices.Clone(m.single) }

// FitSingletons implements Oracle.
func (m *Matrix) FitSingletons() []string { return slices.Clone(m.fitSngl) }

// NumRefDists implements Oracle.
func (m *Matrix) NumRefDists() int { return m.numRef }

// NumDists implements Oracle.
func (m *Matrix) NumDists() int { return m.numDists }

// TranslateBins implements Oracle.
//
// Errors: ErrEmptyGroup, ErrDuplicateSequence, ErrNotReference,
// ErrUnbinnedReference.
func (m *Matrix) TranslateBins(groups [][]string) ([][]int, []int, error) {
	var (
		bins   = make([][]int, len(groups))
		seen   = make(map[string]struct{})
		binned = make([]bool, len(m.names))
		g      int
		name   string
		idx    int
		ok     bool
	)
	for g = range groups {
		if len(groups[g]) == 0 {
			return nil, nil, fmt.Errorf("%w: bin %d", ErrEmptyGroup, g)
		}
		bins[g] = make([]int, 0, len(groups[g]))
		for _, name = range groups[g] {
			if name == "" {
				return nil, nil, ErrEmptyName
			}
			if _, ok = seen[name]; ok {
				return nil, nil, fmt.Errorf("%w: %q", ErrDuplicateSequence, name)
			}
			seen[name] = struct{}{}

			if idx, ok = m.index[name]; !ok {
				bins[g] = append(bins[g], -1)
				continue
			}
			if !m.isRef[idx] {
				return nil, nil, fmt.Errorf("%w: %q", ErrNotReference, name)
			}
			binned[idx] = true
			bins[g] = append(bins[g], idx)
		}
	}

	var fit []int
	for idx = range m.names {
		if !m.isRef[idx] {
			fit = append(fit, idx)
			continue
		}
		if !binned[idx] {
			return nil, nil, fmt.Errorf("%w: %q", ErrUnbinnedReference, m.names[idx])
		}
	}

	return bins, fit, nil
}

// ExtractSubset implements Oracle. The subset keeps reference flags and
// visits ids in the given order.
//
// Errors: ErrUnknownIndex, ErrDuplicateSequence.
func (m *Matrix) ExtractSubset(ids []int) (Oracle, error) {
	sub, err := m.Subset(ids)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

// Subset is ExtractSubset with a concrete result type.
func (m *Matrix) Subset(ids []int) (*Matrix, error) {
	var (
		universe = make([]string, len(ids))
		pos      = make(map[int]int, len(ids))
		refSet   = make(map[string]bool)
		k, id    int
		ok       bool
	)
	for k, id = range ids {
		if id < 0 || id >= len(m.names) {
			return nil, fmt.Errorf("%w: %d", ErrUnknownIndex, id)
		}
		if _, ok = pos[id]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSequence, m.names[id])
		}
		pos[id] = k
		universe[k] = m.names[id]
		if m.isRef[id] {
			refSet[m.names[id]] = true
		}
	}

	var (
		pairs [][2]int
		j, pj int
	)
	for k, id = range ids {
		for _, j = range m.close[id] {
			if pj, ok = pos[j]; ok && k < pj {
				pairs = append(pairs, [2]int{k, pj})
			}
		}
	}

	return assemble(universe, refSet, pairs), nil
}
