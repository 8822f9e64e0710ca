// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package iqnils implements the Interface Quasi-Newton with Inverse
// Least-Squares coupler: a secant-like Jacobian approximation built from
// observed (Delta r, Delta xt) column pairs, with rank-revealing QR
// column filtering.
package iqnils

import (
	"encoding/json"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"gonum.org/v1/gonum/mat"

	"github.com/cpmech/tango/coupling"
)

func init() {
	coupling.RegisterCoupler("IQNILS", func(params json.RawMessage, datapath string) (coupling.Coupler, error) {
		var p Params
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, chk.Err("iqnils: cannot parse parameters:\n%v", err)
		}
		return New(p), nil
	})
}

// Params holds the settings recognised for an IQNILS instance.
type Params struct {
	MinSignificant float64 `json:"minsignificant"`
	Omega          float64 `json:"omega"`
}

// IQNILS implements coupling.Coupler. v and w hold the column history with
// the newest column at index 0: a deque of column vectors rather than an
// in-place matrix, so pruning deletes by column index, not by position
// from a fixed end.
type IQNILS struct {
	minSignificant float64
	omega          float64

	rRef  la.Vector
	xtRef la.Vector
	v     []la.Vector // each entry is a Delta r column
	w     []la.Vector // each entry is a Delta xt column

	added bool
}

// New allocates an IQN-ILS coupler with empty history.
func New(p Params) *IQNILS {
	return &IQNILS{minSignificant: p.MinSignificant, omega: p.Omega}
}

// Add absorbs an observation (x, xt) made within the current step:
// computes r = xt - x, and, if this is not the first Add since the last
// InitializeStep, prepends Delta r = r - r_ref and Delta xt = xt - xt_ref
// as new leftmost (newest) columns.
func (o *IQNILS) Add(x, xt la.Vector) error {
	r := la.NewVector(len(x))
	for i := range r {
		r[i] = xt[i] - x[i]
	}
	if o.added {
		dr := la.NewVector(len(r))
		dxt := la.NewVector(len(r))
		for i := range r {
			dr[i] = r[i] - o.rRef[i]
			dxt[i] = xt[i] - o.xtRef[i]
		}
		o.v = prepend(o.v, dr)
		o.w = prepend(o.w, dxt)
	}
	o.rRef = cloneVector(r)
	o.xtRef = cloneVector(xt)
	o.added = true
	return nil
}

// Predict runs column filtering by rank-revealing QR, then a
// least-squares quasi-Newton update, falling back to under-relaxation
// when no history survives filtering, and failing when there has been no
// Add at all.
func (o *IQNILS) Predict(r la.Vector) (la.Vector, error) {

	// 1. column filtering: drop columns causing a too-small R diagonal.
	for len(o.v) > 0 {
		diag := qrDiag(o.v)
		idx, minAbs := argMinAbs(diag)
		if minAbs >= o.minSignificant {
			break
		}
		io.Pfyel("iqnils: removing column %d: %g < minsignificant\n", idx, minAbs)
		o.v = deleteAt(o.v, idx)
		o.w = deleteAt(o.w, idx)
	}

	// 2. least-squares quasi-Newton update.
	if len(o.v) > 0 {
		m := len(r)
		c := len(o.v)

		vDense := mat.NewDense(m, c, nil)
		for j, col := range o.v {
			vDense.SetCol(j, col)
		}

		var qr mat.QR
		qr.Factorize(vDense)

		negR := mat.NewDense(m, 1, nil)
		for i := 0; i < m; i++ {
			negR.Set(i, 0, -r[i])
		}

		var cSol mat.Dense
		if err := qr.SolveTo(&cSol, false, negR); err != nil {
			return nil, chk.Err("iqnils: least-squares solve failed:\n%v", err)
		}

		dx := la.NewVector(m)
		for j, col := range o.w {
			cj := cSol.At(j, 0)
			for i := 0; i < m; i++ {
				dx[i] += col[i] * cj
			}
		}
		for i := 0; i < m; i++ {
			dx[i] += r[i]
		}
		return dx, nil
	}

	// 3. fallback relaxation.
	if o.added {
		dx := la.NewVector(len(r))
		for i := range dx {
			dx[i] = o.omega * r[i]
		}
		return dx, nil
	}

	// 4. no information at all.
	return nil, chk.Err("iqnils: no information to predict")
}

// InitializeStep clears the column history and last-seen vectors.
func (o *IQNILS) InitializeStep() error {
	o.rRef = nil
	o.xtRef = nil
	o.v = nil
	o.w = nil
	o.added = false
	return nil
}

// FinalizeStep fails if no Add happened during the step.
func (o *IQNILS) FinalizeStep() error {
	if !o.added {
		return chk.Err("iqnils: no information added during step")
	}
	o.added = false
	return nil
}

// qrDiag returns the diagonal of the upper-triangular R factor of the
// matrix whose columns are cols (newest first), used only to test for
// rank deficiency before committing to a full economy QR solve.
func qrDiag(cols []la.Vector) []float64 {
	m := len(cols[0])
	c := len(cols)
	v := mat.NewDense(m, c, nil)
	for j, col := range cols {
		v.SetCol(j, col)
	}
	var qr mat.QR
	qr.Factorize(v)
	var r mat.Dense
	qr.RTo(&r)
	diag := make([]float64, c)
	for i := 0; i < c; i++ {
		diag[i] = r.At(i, i)
	}
	return diag
}

// argMinAbs returns the index and value of the smallest-magnitude entry,
// breaking ties by the lowest index (deterministic).
func argMinAbs(diag []float64) (idx int, minAbs float64) {
	minAbs = math.Abs(diag[0])
	idx = 0
	for i := 1; i < len(diag); i++ {
		a := math.Abs(diag[i])
		if a < minAbs {
			minAbs = a
			idx = i
		}
	}
	return
}

func prepend(cols []la.Vector, v la.Vector) []la.Vector {
	out := make([]la.Vector, 0, len(cols)+1)
	out = append(out, v)
	out = append(out, cols...)
	return out
}

func deleteAt(cols []la.Vector, idx int) []la.Vector {
	out := make([]la.Vector, 0, len(cols)-1)
	out = append(out, cols[:idx]...)
	out = append(out, cols[idx+1:]...)
	return out
}

func cloneVector(v la.Vector) la.Vector {
	c := la.NewVector(len(v))
	copy(c, v)
	return c
}
