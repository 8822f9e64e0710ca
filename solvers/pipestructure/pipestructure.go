// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pipestructure implements an independent-ring pipe-structure
// solver: a per-cell algebraic map from pressure to cross-sectional area,
// with no coupling between cells.
package pipestructure

import (
	"encoding/json"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/utl"

	"github.com/cpmech/tango/caseio"
	"github.com/cpmech/tango/coupling"
)

// register this solver under the class name "PipeStructure", following
// the allocator-map registration idiom used throughout this module
// (compare mdl/solid/linelast.go's own init-time class registration).
func init() {
	coupling.RegisterStructureSolver("PipeStructure", func(params json.RawMessage, datapath string) (coupling.Solver, error) {
		var p Params
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, chk.Err("pipestructure: cannot parse parameters:\n%v", err)
		}
		return New(p, datapath)
	})
}

// Params holds the settings recognised for a PipeStructure instance.
type Params struct {
	L    float64 `json:"l"`
	D    float64 `json:"d"`
	Rhof float64 `json:"rhof"`
	E    float64 `json:"e"`
	H    float64 `json:"h"`
	M    int     `json:"m"`
}

var nextID int

// PipeStructure implements coupling.Solver over the ring law
//
//	a_i = a0 * (2 / (2 + (p0 - p_i)/c0^2))^2
type PipeStructure struct {
	id int

	l, d, rhof float64
	m          int
	dz         float64
	z          la.Vector

	cmk2 float64
	p0   float64
	a0   float64
	c02  float64

	dt float64
	n  int

	p la.Vector
	a la.Vector

	initialized     bool
	initializedStep bool
	added           bool

	writer *caseio.RowWriter
}

// New allocates a PipeStructure solver and opens its output file.
func New(p Params, datapath string) (*PipeStructure, error) {
	o := &PipeStructure{id: nextID}
	nextID++

	o.l, o.d, o.rhof = p.L, p.D, p.Rhof
	o.m = p.M
	o.dz = o.l / float64(o.m)
	o.z = la.NewVector(o.m)
	for i := 0; i < o.m; i++ {
		o.z[i] = (float64(i) + 0.5) * o.dz
	}

	o.cmk2 = (p.E * p.H) / (o.rhof * o.d)
	o.p0 = 0.0
	o.a0 = math.Pi * o.d * o.d / 4.0
	o.c02 = o.cmk2 - o.p0/2.0

	o.p = la.NewVector(o.m)
	o.a = la.NewVector(o.m)
	for i := 0; i < o.m; i++ {
		o.p[i] = 2.0 * o.cmk2
		o.a[i] = o.a0
	}

	writer, err := caseio.NewRowWriter(datapath, utl.Sf("pipestructure%d", o.id))
	if err != nil {
		return nil, err
	}
	o.writer = writer
	return o, nil
}

// InputGrid returns a copy of the cell-center grid this solver was built on.
func (o *PipeStructure) InputGrid() la.Vector { return cloneVector(o.z) }

// OutputGrid returns a copy of the cell-center grid this solver was built on.
func (o *PipeStructure) OutputGrid() la.Vector { return o.InputGrid() }

// SetInputGrid is a no-op unless the supplied grid mismatches this
// solver's own grid, in which case it is a configuration error: a mapper,
// not this solver, must bridge mismatched grids.
func (o *PipeStructure) SetInputGrid(z la.Vector) {
	checkSameGrid(o.z, z)
}

// SetOutputGrid mirrors SetInputGrid.
func (o *PipeStructure) SetOutputGrid(z la.Vector) {
	checkSameGrid(o.z, z)
}

func checkSameGrid(have, want la.Vector) {
	if len(have) != len(want) {
		chk.Panic("pipestructure: mismatched grid length: have %d, want %d (use a mapper)", len(have), len(want))
	}
	num, den := 0.0, 0.0
	for i := range have {
		d := have[i] - want[i]
		num += d * d
		den += have[i] * have[i]
	}
	if den > 0 && math.Sqrt(num/den) > 1e-12 {
		chk.Panic("pipestructure: mismatched grid (use a mapper)")
	}
}

// InputData returns a copy of the current pressure vector.
func (o *PipeStructure) InputData() la.Vector {
	return cloneVector(o.p)
}

// SetTimeStep sets the time step size; fails if a step is in progress.
func (o *PipeStructure) SetTimeStep(dt float64) {
	if o.initializedStep {
		chk.Panic("pipestructure: cannot set time step while a step is ongoing")
	}
	o.dt = dt
}

// GetTimeStep returns the current time step size.
func (o *PipeStructure) GetTimeStep() float64 { return o.dt }

// Initialize marks the solver ready to run.
func (o *PipeStructure) Initialize() error {
	if o.initialized {
		return chk.Err("pipestructure: already initialized")
	}
	o.initialized = true
	return nil
}

// InitializeStep advances the step counter.
func (o *PipeStructure) InitializeStep() error {
	if !o.initialized {
		return chk.Err("pipestructure: not initialized")
	}
	if o.initializedStep {
		return chk.Err("pipestructure: step already ongoing")
	}
	o.n++
	o.initializedStep = true
	o.added = false
	return nil
}

// Calculate maps pressure p to area via the ring law, rejecting
// unphysical pressure.
func (o *PipeStructure) Calculate(p la.Vector) (la.Vector, error) {
	for i := 0; i < o.m; i++ {
		if p[i] > 2.0*o.c02+o.p0 {
			return nil, chk.Err("pipestructure: unphysical pressure at cell %d: %g > %g", i, p[i], 2.0*o.c02+o.p0)
		}
	}
	copy(o.p, p)
	for i := 0; i < o.m; i++ {
		o.a[i] = o.a0 * math.Pow(2.0/(2.0+(o.p0-o.p[i])/o.c02), 2)
	}
	o.added = true
	return cloneVector(o.a), nil
}

// FinalizeStep persists (p, a) and ends the step.
func (o *PipeStructure) FinalizeStep() error {
	if !o.initialized {
		return chk.Err("pipestructure: not initialized")
	}
	if !o.initializedStep {
		return chk.Err("pipestructure: no step ongoing")
	}
	if !o.added {
		return chk.Err("pipestructure: no calculate performed during step")
	}
	o.initializedStep = false
	o.added = false
	if err := o.writer.Write(o.p); err != nil {
		return err
	}
	if err := o.writer.Write(o.a); err != nil {
		return err
	}
	return nil
}

// Finalize closes the output file.
func (o *PipeStructure) Finalize() error {
	if !o.initialized {
		return chk.Err("pipestructure: not initialized")
	}
	o.initialized = false
	return o.writer.Close()
}

func cloneVector(v la.Vector) la.Vector {
	c := la.NewVector(len(v))
	copy(c, v)
	return c
}
