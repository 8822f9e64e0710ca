// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linear

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// Test_linear_noop_on_identical_grids checks that when input and output
// grids coincide, Map returns the input unchanged rather than interpolating.
func Test_linear_noop_on_identical_grids(tst *testing.T) {

	chk.PrintTitle("linear mapper is a no-op on identical grids")

	z := la.Vector{0.0, 0.25, 0.5, 0.75, 1.0}
	m := New()
	m.SetInputGrid(z)
	m.SetOutputGrid(z)
	if err := m.Initialize(); err != nil {
		tst.Fatalf("initialize: %v", err)
	}

	a := la.Vector{1.0, 2.0, 3.0, 4.0, 5.0}
	got := m.Map(a)
	chk.Vector(tst, "map is identity", 1e-15, got, a)
}

// Test_linear_interpolates_between_grids checks piecewise-linear
// interpolation onto a finer grid.
func Test_linear_interpolates_between_grids(tst *testing.T) {

	chk.PrintTitle("linear mapper interpolates onto a different grid")

	zIn := la.Vector{0.0, 1.0, 2.0}
	a := la.Vector{0.0, 10.0, 20.0}

	m := New()
	m.SetInputGrid(zIn)
	m.SetOutputGrid(la.Vector{0.5, 1.5})
	if err := m.Initialize(); err != nil {
		tst.Fatalf("initialize: %v", err)
	}

	got := m.Map(a)
	want := la.Vector{5.0, 15.0}
	chk.Vector(tst, "interpolated midpoints", 1e-14, got, want)
}

// Test_linear_extrapolates_outside_range checks linear extrapolation past
// both ends of the input grid.
func Test_linear_extrapolates_outside_range(tst *testing.T) {

	chk.PrintTitle("linear mapper extrapolates outside the input range")

	zIn := la.Vector{0.0, 1.0, 2.0}
	a := la.Vector{0.0, 10.0, 20.0}

	m := New()
	m.SetInputGrid(zIn)
	m.SetOutputGrid(la.Vector{-1.0, 3.0})
	if err := m.Initialize(); err != nil {
		tst.Fatalf("initialize: %v", err)
	}

	got := m.Map(a)
	want := la.Vector{-10.0, 30.0}
	chk.Vector(tst, "linear extrapolation both ends", 1e-14, got, want)
}
