// SPDX-License-Identifier: MIT

package otuio

import "errors"

// Sentinel errors.
var (
	// ErrMalformedLine is returned for a line that does not fit its format.
	ErrMalformedLine = errors.New("otuio: malformed line")

	// ErrNoList is returned by ReadList for an input without data rows.
	ErrNoList = errors.New("otuio: no list rows")

	// ErrLabelNotFound is returned by List.Find when no row carries the label.
	ErrLabelNotFound = errors.New("otuio: label not found")
)

// Stdio is the path that selects stdin or stdout.
const Stdio = "-"
