// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package caseio

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// RowWriter persists one whitespace-separated row of floats per call to
// Write, matching the original solvers' np.savetxt(datafile, [vector])
// convention: one row per finalized step per persisted quantity, under
// <datapath>/<component-id>/output.dat.
type RowWriter struct {
	file *os.File
	buf  *bufio.Writer
}

// NewRowWriter creates <datapath>/<component>/output.dat, truncating any
// previous contents, and returns a writer over it.
func NewRowWriter(datapath, component string) (*RowWriter, error) {
	dir := filepath.Join(datapath, component)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, chk.Err("cannot create output directory %q:\n%v", dir, err)
	}
	path := filepath.Join(dir, "output.dat")
	f, err := os.Create(path)
	if err != nil {
		return nil, chk.Err("cannot create output file %q:\n%v", path, err)
	}
	return &RowWriter{file: f, buf: bufio.NewWriter(f)}, nil
}

// Write appends one row containing v's entries separated by single spaces.
func (w *RowWriter) Write(v la.Vector) error {
	for i, val := range v {
		if i > 0 {
			if _, err := w.buf.WriteByte(' '); err != nil {
				return chk.Err("cannot write output row:\n%v", err)
			}
		}
		if _, err := fmt.Fprintf(w.buf, "%.15e", val); err != nil {
			return chk.Err("cannot write output row:\n%v", err)
		}
	}
	_, err := w.buf.WriteString("\n")
	if err != nil {
		return chk.Err("cannot write output row:\n%v", err)
	}
	return w.buf.Flush()
}

// Close flushes and closes the underlying file.
func (w *RowWriter) Close() error {
	if err := w.buf.Flush(); err != nil {
		return chk.Err("cannot flush output file:\n%v", err)
	}
	return w.file.Close()
}
