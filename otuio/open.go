// SPDX-License-Identifier: MIT

package otuio

import (
	"compress/gzip"
	"io"
	"os"
	"strings"
)

// Open returns a reader for path: stdin for Stdio, a gzip stream for
// "*.gz", the plain file otherwise.
func Open(path string) (io.ReadCloser, error) {
	if path == Stdio {
		return io.NopCloser(os.Stdin), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return fh, nil
	}
	gr, err := gzip.NewReader(fh)
	if err != nil {
		fh.Close()
		return nil, err
	}

	return struct {
		io.Reader
		io.Closer
	}{Reader: gr, Closer: multiCloser{gr, fh}}, nil
}

// Create returns a writer for path, mirroring Open. Closing a gzip writer
// flushes the stream before the file is closed.
func Create(path string) (io.WriteCloser, error) {
	if path == Stdio {
		return nopWriteCloser{os.Stdout}, nil
	}
	fh, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return fh, nil
	}
	gw := gzip.NewWriter(fh)

	return struct {
		io.Writer
		io.Closer
	}{Writer: gw, Closer: multiCloser{gw, fh}}, nil
}

// multiCloser closes in order and reports the first error.
type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var first error
	for _, c := range m {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}

	return first
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
