// SPDX-License-Identifier: MIT

package optifit

import (
	"fmt"
	"strconv"
)

// LabelPrefix starts every synthesized OTU label.
const LabelPrefix = "Otu"

// labeler yields LabelPrefix plus a zero-padded ordinal, widened to the
// digits of total, skipping labels in taken.
func labeler(total int, taken map[string]bool) func() string {
	var (
		width = len(strconv.Itoa(total))
		n     int
	)

	return func() string {
		for {
			n++
			l := fmt.Sprintf("%s%0*d", LabelPrefix, width, n)
			if !taken[l] {
				taken[l] = true
				return l
			}
		}
	}
}

// Label names groups in order Otu1..OtuN, zero-padded to the width of N.
func Label(groups []string) []OTU {
	var (
		next = labeler(len(groups), make(map[string]bool))
		out  = make([]OTU, len(groups))
	)
	for i, names := range groups {
		out[i] = OTU{Label: next(), Names: names}
	}

	return out
}
