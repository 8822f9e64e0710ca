// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linear

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

func ones(n int, scale float64) la.Vector {
	v := la.NewVector(n)
	for i := range v {
		v[i] = scale
	}
	return v
}

// Test_linear_S4 checks the extrapolation arithmetic: push x0=1, update(2)
// within step 1, finalize, then step 2's predict() must equal 3.
func Test_linear_S4(tst *testing.T) {

	chk.PrintTitle("linear extrapolator S4")

	e := New()
	e.Initialize(ones(3, 1.0))

	if err := e.InitializeStep(); err != nil {
		tst.Fatalf("initializestep: %v", err)
	}
	e.Update(ones(3, 2.0))
	if err := e.FinalizeStep(); err != nil {
		tst.Fatalf("finalizestep: %v", err)
	}

	if err := e.InitializeStep(); err != nil {
		tst.Fatalf("initializestep: %v", err)
	}
	got := e.Predict()
	chk.Vector(tst, "predict after step 2 initializestep", 1e-12, got, ones(3, 3.0))
}

// Test_linear_finalizestep_without_update checks the contract violation.
func Test_linear_finalizestep_without_update(tst *testing.T) {

	chk.PrintTitle("linear extrapolator finalizestep without update is fatal")

	e := New()
	e.Initialize(ones(3, 1.0))
	if err := e.InitializeStep(); err != nil {
		tst.Fatalf("initializestep: %v", err)
	}
	if err := e.FinalizeStep(); err == nil {
		tst.Fatalf("expected error finalizing a step with no update")
	}
}

// Test_linear_exact checks invariant 5: along a line, predict recovers
// the next point to machine precision.
func Test_linear_exact(tst *testing.T) {

	chk.PrintTitle("linear extrapolator is linear-exact")

	e := New()
	x0 := la.Vector{1, 2, 3}
	e.Initialize(x0)

	if err := e.InitializeStep(); err != nil {
		tst.Fatalf("initializestep: %v", err)
	}
	x1 := la.Vector{1.5, 2.5, 3.5}
	e.Update(x1)
	if err := e.FinalizeStep(); err != nil {
		tst.Fatalf("finalizestep: %v", err)
	}

	if err := e.InitializeStep(); err != nil {
		tst.Fatalf("initializestep: %v", err)
	}
	got := e.Predict()
	want := la.Vector{2.0, 3.0, 4.0}
	chk.Vector(tst, "predict recovers next point on a line", 1e-14, got, want)
}
