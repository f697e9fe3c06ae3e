// SPDX-License-Identifier: MIT

package otuio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Schaudge/mothur/optifit"
)

// List is one row of a list file.
type List struct {
	Label string
	OTUs  []optifit.OTU
}

// Groups splits every OTU into its member names.
func (l List) Groups() [][]string {
	out := make([][]string, len(l.OTUs))
	for i, otu := range l.OTUs {
		out[i] = strings.Split(otu.Names, ",")
	}

	return out
}

// Labels returns the OTU labels in order.
func (l List) Labels() []string {
	out := make([]string, len(l.OTUs))
	for i, otu := range l.OTUs {
		out[i] = otu.Label
	}

	return out
}

// Lists is the content of a list file.
type Lists []List

// Find returns the row labelled label. An empty label selects the first row.
func (ls Lists) Find(label string) (List, error) {
	for _, l := range ls {
		if label == "" || l.Label == label {
			return l, nil
		}
	}

	return List{}, fmt.Errorf("%w: %q", ErrLabelNotFound, label)
}

// ReadList parses a list file. A header line ("label numOtus ...") names the
// OTUs of every row; without one, OTUs are labelled Otu1..OtuN.
//
// Errors: ErrMalformedLine, ErrNoList.
func ReadList(r io.Reader) (Lists, error) {
	var (
		out    Lists
		header []string
		sc     = bufio.NewScanner(r)
		line   int
	)
	sc.Buffer(make([]byte, 0, 64*1024), 64*maxLine)

	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: line %d: want label and OTU count", ErrMalformedLine, line)
		}
		if line == 1 && strings.EqualFold(fields[0], "label") {
			header = fields[2:]
			continue
		}

		n, err := strconv.Atoi(fields[1])
		if err != nil || n != len(fields)-2 {
			return nil, fmt.Errorf("%w: line %d: OTU count %q does not match %d groups",
				ErrMalformedLine, line, fields[1], len(fields)-2)
		}
		groups := fields[2:]
		var otus []optifit.OTU
		if len(header) == len(groups) {
			otus = make([]optifit.OTU, len(groups))
			for i := range groups {
				otus[i] = optifit.OTU{Label: header[i], Names: groups[i]}
			}
		} else {
			otus = optifit.Label(groups)
		}
		out = append(out, List{Label: fields[0], OTUs: otus})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNoList
	}

	return out, nil
}

// WriteList writes a header and a single row for l.
func WriteList(w io.Writer, l List) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("label\tnumOtus")
	for _, otu := range l.OTUs {
		bw.WriteByte('\t')
		bw.WriteString(otu.Label)
	}
	fmt.Fprintf(bw, "\n%s\t%d", l.Label, len(l.OTUs))
	for _, otu := range l.OTUs {
		bw.WriteByte('\t')
		bw.WriteString(otu.Names)
	}
	bw.WriteByte('\n')

	return bw.Flush()
}
