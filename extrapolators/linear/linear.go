// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package linear implements a linear time-extrapolator: the first guess
// for the next time step's coupling variable, built from the last two
// accepted states.
package linear

import (
	"encoding/json"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/cpmech/tango/coupling"
)

func init() {
	coupling.RegisterExtrapolator("Linear", func(params json.RawMessage, datapath string) (coupling.Extrapolator, error) {
		return New(), nil
	})
}

// Linear holds the rolling triple (prev, curr, next-candidate) used to
// extrapolate the next time step's starting guess.
type Linear struct {
	xPrev la.Vector // x_{n-1}
	xCurr la.Vector // x_n
	xNext la.Vector // x_{n+1} candidate / latest accepted

	added bool
}

// New allocates an extrapolator with empty state; call Initialize before use.
func New() *Linear {
	return &Linear{}
}

// Initialize seeds all three stored states with x0.
func (o *Linear) Initialize(x0 la.Vector) {
	o.xPrev = cloneVector(x0)
	o.xCurr = cloneVector(x0)
	o.xNext = cloneVector(x0)
}

// Predict returns x_{n+1} := 2*x_n - x_{n-1}.
func (o *Linear) Predict() la.Vector {
	o.xNext = la.NewVector(len(o.xCurr))
	for i := range o.xNext {
		o.xNext[i] = 2.0*o.xCurr[i] - o.xPrev[i]
	}
	return cloneVector(o.xNext)
}

// Update records x as the latest accepted state for the current step.
func (o *Linear) Update(x la.Vector) {
	o.xNext = cloneVector(x)
	o.added = true
}

// InitializeStep shifts (x_{n-1}, x_n, x_{n+1}) <- (x_n, x_{n+1}, .).
func (o *Linear) InitializeStep() error {
	o.xPrev = o.xCurr
	o.xCurr = o.xNext
	o.added = false
	return nil
}

// FinalizeStep fails if no Update happened since the last InitializeStep.
func (o *Linear) FinalizeStep() error {
	if !o.added {
		return chk.Err("linear extrapolator: no state added during step")
	}
	o.added = false
	return nil
}

func cloneVector(v la.Vector) la.Vector {
	c := la.NewVector(len(v))
	copy(c, v)
	return c
}
