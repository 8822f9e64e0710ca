// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package linear implements a grid mapper: one-dimensional piecewise-
// linear interpolation between an input grid and an output grid, with
// linear extrapolation outside the input range.
package linear

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// epsilon is the machine-epsilon tolerance used to detect that the input
// and output grids already coincide, so mapping can be skipped entirely.
const epsilon = 1e-15

// Mapper implements coupling.Mapper.
type Mapper struct {
	zIn  la.Vector
	zOut la.Vector

	identity bool
}

// New allocates a mapper with unset grids; call SetInputGrid, SetOutputGrid
// and Initialize before Map.
func New() *Mapper {
	return &Mapper{}
}

// SetInputGrid records the source grid's coordinates.
func (o *Mapper) SetInputGrid(z la.Vector) {
	o.zIn = cloneVector(z)
}

// SetOutputGrid records the target grid's coordinates.
func (o *Mapper) SetOutputGrid(z la.Vector) {
	o.zOut = cloneVector(z)
}

// Initialize checks both grids are set and detects the no-op case where
// the relative difference between the grids is below machine epsilon.
func (o *Mapper) Initialize() error {
	if o.zIn == nil || o.zOut == nil {
		return chk.Err("linear mapper: input and output grids must be set before initialize")
	}
	if len(o.zIn) == len(o.zOut) {
		var diffNorm, normIn float64
		for i := range o.zIn {
			d := o.zOut[i] - o.zIn[i]
			diffNorm += d * d
			normIn += o.zIn[i] * o.zIn[i]
		}
		if normIn == 0 || diffNorm/normIn < epsilon*epsilon {
			o.identity = true
		}
	}
	return nil
}

// Map interpolates a (defined on zIn) onto zOut, extrapolating linearly
// using the two nearest grid points outside the input range.
func (o *Mapper) Map(a la.Vector) la.Vector {
	if o.identity {
		return cloneVector(a)
	}
	out := la.NewVector(len(o.zOut))
	n := len(o.zIn)
	for i, z := range o.zOut {
		out[i] = interpolate(o.zIn, a, n, z)
	}
	return out
}

// interpolate evaluates the piecewise-linear function defined by (zIn, a)
// at z, extrapolating linearly past either end using the boundary segment.
func interpolate(zIn, a la.Vector, n int, z float64) float64 {
	if n == 1 {
		return a[0]
	}

	// locate the bracketing segment, clamping the search to the first and
	// last segments so points outside [zIn[0], zIn[n-1]] extrapolate along
	// them.
	j := 0
	for j < n-2 && z > zIn[j+1] {
		j++
	}

	z0, z1 := zIn[j], zIn[j+1]
	a0, a1 := a[j], a[j+1]
	t := (z - z0) / (z1 - z0)
	return a0 + t*(a1-a0)
}

func cloneVector(v la.Vector) la.Vector {
	c := la.NewVector(len(v))
	copy(c, v)
	return c
}
