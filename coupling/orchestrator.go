// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coupling

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
)

// Settings holds the global coupling-loop control read from a case's
// settings file.
type Settings struct {
	NStart int     // first time step (step 0 is the initial condition)
	NStop  int     // final time step (exclusive)
	KStop  int     // iteration bound: coupling iterations run k = 1 .. KStop-1 per step
	Dt     float64 // time step size
}

// Orchestrator drives the two-level time-step / coupling-iteration loop.
// It owns no physics; it only sequences calls to the five components in
// the fixed lifecycle order flow, structure, coupler, extrapolator,
// convergence, without knowing their internals.
type Orchestrator struct {
	Flow         Solver
	Structure    Solver
	Coupler      Coupler
	Extrapolator Extrapolator
	Convergence  Convergence
	Settings     Settings
	Verbose      bool

	// FlowToStructure and StructureToFlow are optional; set them only when
	// the flow solver's output grid differs from the structure solver's
	// input grid (and vice versa). nil means the grids already coincide
	// and no mapping step runs.
	FlowToStructure Mapper
	StructureToFlow Mapper
}

// components returns the five components in the fixed lifecycle order.
func (o *Orchestrator) components() []StepLifecycle {
	return []StepLifecycle{o.Flow, o.Structure, o.Coupler, o.Extrapolator, o.Convergence}
}

// Run executes the full time-step loop and returns the first error
// encountered by any component or contract check.
func (o *Orchestrator) Run() (err error) {

	o.Flow.SetTimeStep(o.Settings.Dt)
	o.Structure.SetTimeStep(o.Settings.Dt)

	if err = o.Flow.Initialize(); err != nil {
		return chk.Err("flow solver initialize failed:\n%v", err)
	}
	if err = o.Structure.Initialize(); err != nil {
		return chk.Err("structure solver initialize failed:\n%v", err)
	}
	defer func() {
		if ferr := o.Flow.Finalize(); ferr != nil && err == nil {
			err = chk.Err("flow solver finalize failed:\n%v", ferr)
		}
		if ferr := o.Structure.Finalize(); ferr != nil && err == nil {
			err = chk.Err("structure solver finalize failed:\n%v", ferr)
		}
	}()

	x := o.Flow.InputData()
	o.Extrapolator.Initialize(x)
	r := la.NewVector(len(x))

	for n := o.Settings.NStart; n < o.Settings.NStop; n++ {

		for _, c := range o.components() {
			if err = c.InitializeStep(); err != nil {
				return chk.Err("initializestep failed at step %d:\n%v", n, err)
			}
		}

		converged := false
		for k := 1; k < o.Settings.KStop; k++ {

			if k == 1 {
				x = o.Extrapolator.Predict()
			} else {
				var dx la.Vector
				dx, err = o.Coupler.Predict(r)
				if err != nil {
					return chk.Err("coupler predict failed at step %d iteration %d:\n%v", n, k, err)
				}
				xnext := la.NewVector(len(x))
				for i := range xnext {
					xnext[i] = x[i] + dx[i]
				}
				x = xnext
			}

			y, ferr := o.Flow.Calculate(x)
			if ferr != nil {
				return chk.Err("flow solver calculate failed at step %d iteration %d:\n%v", n, k, ferr)
			}
			if o.FlowToStructure != nil {
				y = o.FlowToStructure.Map(y)
			}
			xt, serr := o.Structure.Calculate(y)
			if serr != nil {
				return chk.Err("structure solver calculate failed at step %d iteration %d:\n%v", n, k, serr)
			}
			if o.StructureToFlow != nil {
				xt = o.StructureToFlow.Map(xt)
			}
			r = la.NewVector(len(x))
			for i := range r {
				r[i] = xt[i] - x[i]
			}

			if err = o.Coupler.Add(x, xt); err != nil {
				return chk.Err("coupler add failed at step %d iteration %d:\n%v", n, k, err)
			}
			if err = o.Convergence.Add(r); err != nil {
				return chk.Err("convergence add failed at step %d iteration %d:\n%v", n, k, err)
			}

			if o.Verbose {
				io.Pf("> step %d iteration %d |r| status\n", n, k)
			}

			if o.Convergence.IsSatisfied() {
				converged = true
				break
			}
		}
		if !converged && o.Verbose {
			io.Pfyel("> step %d did not converge within kstop iterations\n", n)
		}

		o.Extrapolator.Update(x)

		for _, c := range o.components() {
			if err = c.FinalizeStep(); err != nil {
				return chk.Err("finalizestep failed at step %d:\n%v", n, err)
			}
		}
	}
	return
}
