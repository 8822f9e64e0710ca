// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package relativenorm implements a relative-norm convergence monitor: a
// stopping rule based on the residual norm's ratio to its value at the
// start of the step.
package relativenorm

import (
	"encoding/json"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/cpmech/tango/coupling"
)

func init() {
	coupling.RegisterConvergence("RelativeNorm", func(params json.RawMessage, datapath string) (coupling.Convergence, error) {
		var p Params
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, chk.Err("relativenorm: cannot parse parameters:\n%v", err)
		}
		return New(p), nil
	})
}

// Params holds the settings recognised for a RelativeNorm instance.
type Params struct {
	KMin   int     `json:"kmin"`
	MinTol float64 `json:"mintol"`
	RelTol float64 `json:"reltol"`
}

// RelativeNorm implements coupling.Convergence. issatisfied holds when
// r < max(reltol*r0, mintol) and k >= kmin.
type RelativeNorm struct {
	kmin   int
	minTol float64
	relTol float64

	k     int
	r     float64
	r0    float64
	added bool
}

// New allocates a RelativeNorm monitor.
func New(p Params) *RelativeNorm {
	return &RelativeNorm{kmin: p.KMin, minTol: p.MinTol, relTol: p.RelTol}
}

// Add absorbs a residual observation: the first Add in a step records r0,
// subsequent calls update the current residual norm; k increments on every
// call.
func (o *RelativeNorm) Add(r la.Vector) error {
	o.k++
	if o.added {
		o.r = norm(r)
	} else {
		o.r0 = norm(r)
		o.r = o.r0
		o.added = true
	}
	return nil
}

// IsSatisfied reports whether the stopping criterion currently holds.
func (o *RelativeNorm) IsSatisfied() bool {
	return o.r < math.Max(o.relTol*o.r0, o.minTol) && o.k >= o.kmin
}

// InitializeStep resets the iteration counter and residual norms.
func (o *RelativeNorm) InitializeStep() error {
	o.k = 0
	o.r = 0
	o.r0 = 0
	o.added = false
	return nil
}

// FinalizeStep fails if no Add happened during the step.
func (o *RelativeNorm) FinalizeStep() error {
	if !o.added {
		return chk.Err("relativenorm: no residual added during step")
	}
	o.added = false
	return nil
}

func norm(v la.Vector) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
