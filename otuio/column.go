// SPDX-License-Identifier: MIT

package otuio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Schaudge/mothur/closeness"
)

// Column is a parsed column distance file.
type Column struct {
	// Names lists every sequence mentioned, in first-seen order.
	Names []string

	// Dists holds the pairs at or below the cutoff.
	Dists []closeness.Distance
}

// maxLine bounds a single input line.
const maxLine = 1 << 20

// ReadColumn parses a column distance file, keeping only pairs with a
// distance at or below cutoff. Blank lines and lines starting with '#' are
// skipped.
//
// Errors: ErrMalformedLine with the 1-based line number, or the reader's error.
//
// Complexity: O(L) over L lines; memory O(N + kept pairs).
func ReadColumn(r io.Reader, cutoff float64) (Column, error) {
	var (
		col  Column
		seen = make(map[string]struct{})
		sc   = bufio.NewScanner(r)
		line int
	)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	remember := func(name string) {
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			col.Names = append(col.Names, name)
		}
	}

	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] == '#' {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 3 {
			return Column{}, fmt.Errorf("%w: line %d: want 3 fields, got %d", ErrMalformedLine, line, len(fields))
		}
		v, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return Column{}, fmt.Errorf("%w: line %d: %v", ErrMalformedLine, line, err)
		}
		remember(fields[0])
		remember(fields[1])
		if v <= cutoff {
			col.Dists = append(col.Dists, closeness.Distance{A: fields[0], B: fields[1], Value: v})
		}
	}
	if err := sc.Err(); err != nil {
		return Column{}, err
	}

	return col, nil
}
