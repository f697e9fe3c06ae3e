// SPDX-License-Identifier: MIT

package otuio

import (
	"bufio"
	"io"
	"strings"
)

// ReadAccnos returns the first field of every non-blank line.
func ReadAccnos(r io.Reader) ([]string, error) {
	var (
		out []string
		sc  = bufio.NewScanner(r)
	)
	for sc.Scan() {
		if fields := strings.Fields(sc.Text()); len(fields) > 0 {
			out = append(out, fields[0])
		}
	}

	return out, sc.Err()
}

// WriteAccnos writes one name per line.
func WriteAccnos(w io.Writer, names []string) error {
	bw := bufio.NewWriter(w)
	for _, name := range names {
		bw.WriteString(name)
		bw.WriteByte('\n')
	}

	return bw.Flush()
}
