// SPDX-License-Identifier: MIT

package otuio_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Schaudge/mothur/closeness"
	"github.com/Schaudge/mothur/metric"
	"github.com/Schaudge/mothur/optifit"
	"github.com/Schaudge/mothur/otuio"
)

func TestReadColumn_CutoffAndNames(t *testing.T) {
	in := strings.NewReader(`# comment
A	B	0.01
A C 0.20

B	C	0.03
D	A	0.5
`)
	col, err := otuio.ReadColumn(in, 0.03)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D"}, col.Names)
	assert.Equal(t, []closeness.Distance{
		{A: "A", B: "B", Value: 0.01},
		{A: "B", B: "C", Value: 0.03},
	}, col.Dists)
}

func TestReadColumn_Malformed(t *testing.T) {
	_, err := otuio.ReadColumn(strings.NewReader("A B\n"), 0.03)
	assert.ErrorIs(t, err, otuio.ErrMalformedLine)

	_, err = otuio.ReadColumn(strings.NewReader("A B 0.01\nA C x\n"), 0.03)
	require.ErrorIs(t, err, otuio.ErrMalformedLine)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadList_WithHeader(t *testing.T) {
	in := strings.NewReader("label\tnumOtus\tOtu01\tOtu02\n0.03\t2\tA,B,C\tD,E\n0.05\t2\tA,B,C\tD,E\n")
	ls, err := otuio.ReadList(in)
	require.NoError(t, err)
	require.Len(t, ls, 2)

	l, err := ls.Find("0.05")
	require.NoError(t, err)
	assert.Equal(t, []string{"Otu01", "Otu02"}, l.Labels())
	assert.Equal(t, [][]string{{"A", "B", "C"}, {"D", "E"}}, l.Groups())

	first, err := ls.Find("")
	require.NoError(t, err)
	assert.Equal(t, "0.03", first.Label)

	_, err = ls.Find("0.10")
	assert.ErrorIs(t, err, otuio.ErrLabelNotFound)
}

func TestReadList_WithoutHeader(t *testing.T) {
	ls, err := otuio.ReadList(strings.NewReader("unique 3 A B C,D\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Otu1", "Otu2", "Otu3"}, ls[0].Labels())

	_, err = otuio.ReadList(strings.NewReader("unique 4 A B\n"))
	assert.ErrorIs(t, err, otuio.ErrMalformedLine)

	_, err = otuio.ReadList(strings.NewReader("\n\n"))
	assert.ErrorIs(t, err, otuio.ErrNoList)
}

func TestWriteList_RoundTrip(t *testing.T) {
	want := otuio.List{Label: "0.03", OTUs: []optifit.OTU{
		{Label: "Otu3", Names: "W,V"},
		{Label: "Otu1", Names: "X,A,B,C"},
	}}
	var buf bytes.Buffer
	require.NoError(t, otuio.WriteList(&buf, want))
	assert.Equal(t, "label\tnumOtus\tOtu3\tOtu1\n0.03\t2\tW,V\tX,A,B,C\n", buf.String())

	got, err := otuio.ReadList(&buf)
	require.NoError(t, err)
	assert.Equal(t, otuio.Lists{want}, got)
}

func TestAccnos(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, otuio.WriteAccnos(&buf, []string{"W", "V"}))
	names, err := otuio.ReadAccnos(strings.NewReader(buf.String() + "\nY\textra\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"W", "V", "Y"}, names)
}

func TestStepWriter(t *testing.T) {
	var buf bytes.Buffer
	sw, err := otuio.NewStepWriter(&buf, "0.03", "0.03")
	require.NoError(t, err)

	c := metric.Counts{TP: 9, TN: 11, FN: 1}
	hook := sw.Hook()
	require.NoError(t, hook(optifit.IterationStats{
		Iter:    1,
		Elapsed: 1500 * time.Millisecond,
		NumBins: 3,
		Stats:   optifit.Stats{Counts: c, Summary: metric.Summarize(c)},
	}))
	sw.SetLabel("0.03-unfitted")
	require.NoError(t, sw.Write(optifit.IterationStats{NumBins: 2}))
	require.NoError(t, sw.Flush())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[2], "0\t0.00\t0.03-unfitted\t2\t0.03\t"))
	assert.Equal(t, strings.Join(otuio.StepColumns, "\t"), lines[0])
	row := strings.Split(lines[1], "\t")
	require.Len(t, row, len(otuio.StepColumns))
	assert.Equal(t, []string{"1", "1.50", "0.03", "3", "0.03", "9", "11", "0", "1"}, row[:9])
	assert.Equal(t, "0.908295", row[15])
}

func TestOpenCreate_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.list.gz")
	w, err := otuio.Create(path)
	require.NoError(t, err)
	_, err = io.WriteString(w, "hello\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, "hello\n", string(raw))

	r, err := otuio.Open(path)
	require.NoError(t, err)
	defer r.Close()
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(got))

	_, err = otuio.Open(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
