// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pipeflow implements the unsteady 1-D incompressible pipe-flow
// solver: a staggered, Newton-solved area-to-pressure map with a
// characteristic-based non-reflecting outlet and an inlet velocity
// boundary condition selectable among four shapes.
package pipeflow

import (
	"encoding/json"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/utl"

	"github.com/cpmech/tango/caseio"
	"github.com/cpmech/tango/coupling"
)

func init() {
	coupling.RegisterFlowSolver("PipeFlow", func(params json.RawMessage, datapath string) (coupling.Solver, error) {
		var p Params
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, chk.Err("pipeflow: cannot parse parameters:\n%v", err)
		}
		return New(p, datapath)
	})
}

// Params holds the settings recognised for a PipeFlow instance.
type Params struct {
	L          float64 `json:"l"`
	D          float64 `json:"d"`
	Rhof       float64 `json:"rhof"`
	UReference float64 `json:"ureference"`
	UAmplitude float64 `json:"uamplitude"`
	UPeriod    float64 `json:"uperiod"`
	UType      int     `json:"utype"`
	E          float64 `json:"e"`
	H          float64 `json:"h"`
	M          int     `json:"m"`
	NewtonMax  int     `json:"newtonmax"`
	NewtonTol  float64 `json:"newtontol"`
}

var nextID int

// PipeFlow implements coupling.Solver. State vectors have length m+2, with
// ghost cells at index 0 (inlet) and m+1 (outlet); interior cells are
// 1..m, matching the cell-center grid z[0..m-1].
type PipeFlow struct {
	id int

	l, d, rhof float64
	uref       float64
	uamp       float64
	uperiod    float64
	utype      int
	cmk2       float64

	m  int
	dz float64
	z  la.Vector

	newtonMax int
	newtonTol float64

	dt    float64
	n     int
	alpha float64

	u, uPrev la.Vector
	p, pPrev la.Vector
	a, aPrev la.Vector

	initialized     bool
	initializedStep bool
	added           bool

	writer *caseio.RowWriter
}

// New allocates a PipeFlow solver and opens its output file.
func New(p Params, datapath string) (*PipeFlow, error) {
	o := &PipeFlow{id: nextID}
	nextID++

	o.l, o.d, o.rhof = p.L, p.D, p.Rhof
	o.uref, o.uamp, o.uperiod, o.utype = p.UReference, p.UAmplitude, p.UPeriod, p.UType
	o.cmk2 = (p.E * p.H) / (o.rhof * o.d)

	o.m = p.M
	o.dz = o.l / float64(o.m)
	o.z = la.NewVector(o.m)
	for i := 0; i < o.m; i++ {
		o.z[i] = (float64(i) + 0.5) * o.dz
	}

	o.newtonMax = p.NewtonMax
	o.newtonTol = p.NewtonTol

	a0 := math.Pi * o.d * o.d / 4.0
	n := o.m + 2
	o.u, o.uPrev = la.NewVector(n), la.NewVector(n)
	o.p, o.pPrev = la.NewVector(n), la.NewVector(n)
	o.a, o.aPrev = la.NewVector(n), la.NewVector(n)
	for i := 0; i < n; i++ {
		o.u[i], o.uPrev[i] = o.uref, o.uref
		o.a[i], o.aPrev[i] = a0, a0
	}

	writer, err := caseio.NewRowWriter(datapath, utl.Sf("pipeflow%d", o.id))
	if err != nil {
		return nil, err
	}
	o.writer = writer
	return o, nil
}

// InputGrid returns a copy of the cell-center grid this solver was built on.
func (o *PipeFlow) InputGrid() la.Vector { return cloneVector(o.z) }

// OutputGrid returns a copy of the cell-center grid this solver was built on.
func (o *PipeFlow) OutputGrid() la.Vector { return cloneVector(o.z) }

// SetInputGrid is a no-op unless the supplied grid mismatches this
// solver's own grid: bridging mismatched grids is a mapper's job, not
// this solver's.
func (o *PipeFlow) SetInputGrid(z la.Vector) { checkSameGrid(o.z, z) }

// SetOutputGrid mirrors SetInputGrid.
func (o *PipeFlow) SetOutputGrid(z la.Vector) { checkSameGrid(o.z, z) }

func checkSameGrid(have, want la.Vector) {
	if len(have) != len(want) {
		chk.Panic("pipeflow: mismatched grid length: have %d, want %d (use a mapper)", len(have), len(want))
	}
	num, den := 0.0, 0.0
	for i := range have {
		d := have[i] - want[i]
		num += d * d
		den += have[i] * have[i]
	}
	if den > 0 && math.Sqrt(num/den) > 1e-12 {
		chk.Panic("pipeflow: mismatched grid (use a mapper)")
	}
}

// InputData returns a copy of the current interior area vector: this is
// the coupling variable x the orchestrator seeds the extrapolator with.
func (o *PipeFlow) InputData() la.Vector {
	x := la.NewVector(o.m)
	for i := 0; i < o.m; i++ {
		x[i] = o.a[i+1]
	}
	return x
}

// SetTimeStep sets the time step size; fails if a step is in progress.
func (o *PipeFlow) SetTimeStep(dt float64) {
	if o.initializedStep {
		chk.Panic("pipeflow: cannot set time step while a step is ongoing")
	}
	o.dt = dt
}

// GetTimeStep returns the current time step size.
func (o *PipeFlow) GetTimeStep() float64 { return o.dt }

// Initialize marks the solver ready to run.
func (o *PipeFlow) Initialize() error {
	if o.initialized {
		return chk.Err("pipeflow: already initialized")
	}
	o.initialized = true
	return nil
}

// InitializeStep snapshots the previous-step state and advances the step
// counter.
func (o *PipeFlow) InitializeStep() error {
	if !o.initialized {
		return chk.Err("pipeflow: not initialized")
	}
	if o.initializedStep {
		return chk.Err("pipeflow: step already ongoing")
	}
	o.n++
	o.initializedStep = true
	o.added = false
	copy(o.uPrev, o.u)
	copy(o.pPrev, o.p)
	copy(o.aPrev, o.a)
	return nil
}

// uBoundary evaluates the inlet velocity boundary condition at the
// current step's time.
func (o *PipeFlow) uBoundary() float64 {
	t := float64(o.n) * o.dt
	switch o.utype {
	case 1:
		return o.uref + o.uamp*math.Sin(2.0*math.Pi*t/o.uperiod)
	case 2:
		return o.uref + o.uamp
	case 3:
		s := math.Sin(math.Pi * t / o.uperiod)
		return o.uref + o.uamp*s*s
	default:
		return o.uref + o.uamp*t/o.uperiod
	}
}

// residual assembles f from the mass/momentum balance over each interior
// cell plus the four boundary equations (inlet velocity, inlet pressure
// extrapolation, outlet velocity extrapolation, characteristic outlet).
func (o *PipeFlow) residual() la.Vector {
	m := o.m
	f := la.NewVector(2*m + 4)

	f[0] = o.u[0] - o.uBoundary()
	f[1] = o.p[0] - (2.0*o.p[1] - o.p[2])

	o.alpha = math.Pi * o.d * o.d / 4.0 / (o.uref + o.dz/o.dt)

	for i := 1; i <= m; i++ {
		var ur, ul float64
		if o.u[i] > 0 {
			ur, ul = o.u[i], o.u[i-1]
		} else {
			ur, ul = o.u[i+1], o.u[i]
		}

		f[2*i] = o.dz/o.dt*(o.a[i]-o.aPrev[i]) +
			(o.u[i]+o.u[i+1])*(o.a[i]+o.a[i+1])/4.0 -
			(o.u[i]+o.u[i-1])*(o.a[i]+o.a[i-1])/4.0 -
			o.alpha*(o.p[i+1]-2.0*o.p[i]+o.p[i-1])

		f[2*i+1] = o.dz/o.dt*(o.u[i]*o.a[i]-o.uPrev[i]*o.aPrev[i]) +
			ur*(o.u[i]+o.u[i+1])*(o.a[i]+o.a[i+1])/4.0 -
			ul*(o.u[i]+o.u[i-1])*(o.a[i]+o.a[i-1])/4.0 +
			((o.p[i+1]-o.p[i])*(o.a[i]+o.a[i+1])+(o.p[i]-o.p[i-1])*(o.a[i]+o.a[i-1]))/4.0
	}

	f[2*m+2] = o.u[m+1] - (2.0*o.u[m] - o.u[m-1])
	term := math.Sqrt(o.cmk2-o.pPrev[m+1]/2.0) - (o.u[m+1]-o.uPrev[m+1])/4.0
	f[2*m+3] = o.p[m+1] - 2.0*(o.cmk2-term*term)

	return f
}

// jacobian assembles the banded Jacobian of residual in compact storage,
// differentiating each residual equation, with usign frozen at its
// current (residual-time) value per iteration. This fixes a known defect
// in the reference implementation, which indexed the outlet-pressure
// partial derivative by the running step counter instead of the ghost
// cell m+1.
func (o *PipeFlow) jacobian() [][]float64 {
	m := o.m
	ab := newBanded(2*m + 4)

	bandedSet(ab, 0, 0, 1.0)
	bandedSet(ab, 1, 1, 1.0)
	bandedSet(ab, 1, 3, -2.0)
	bandedSet(ab, 1, 5, 1.0)

	for i := 1; i <= m; i++ {
		usign := 0.0
		if o.u[i] > 0 {
			usign = 1.0
		}

		rowMass, rowMom := 2*i, 2*i+1
		colUm1, colPm1 := 2*(i-1), 2*(i-1)+1
		colU, colP := 2*i, 2*i+1
		colUp1, colPp1 := 2*(i+1), 2*(i+1)+1

		bandedSet(ab, rowMass, colUm1, -(o.a[i]+o.a[i-1])/4.0)
		bandedSet(ab, rowMom, colUm1,
			-((o.u[i]+2.0*o.u[i-1])*usign+o.u[i]*(1.0-usign))*(o.a[i]+o.a[i-1])/4.0)
		bandedSet(ab, rowMass, colPm1, -o.alpha)
		bandedSet(ab, rowMom, colPm1, -(o.a[i]+o.a[i-1])/4.0)

		bandedSet(ab, rowMass, colU, (o.a[i]+o.a[i+1])/4.0-(o.a[i]+o.a[i-1])/4.0)
		bandedSet(ab, rowMom, colU,
			o.dz/o.dt*o.a[i]+
				((2.0*o.u[i]+o.u[i+1])*usign+o.u[i+1]*(1.0-usign))*(o.a[i]+o.a[i+1])/4.0-
				(o.u[i-1]*usign+(2.0*o.u[i]+o.u[i-1])*(1.0-usign))*(o.a[i]+o.a[i-1])/4.0)
		bandedSet(ab, rowMass, colP, 2.0*o.alpha)
		bandedSet(ab, rowMom, colP, (-(o.a[i]+o.a[i+1])+(o.a[i]+o.a[i-1]))/4.0)

		bandedSet(ab, rowMass, colUp1, (o.a[i]+o.a[i+1])/4.0)
		bandedSet(ab, rowMom, colUp1,
			(o.u[i]*usign+(o.u[i]+2.0*o.u[i+1])*(1.0-usign))*(o.a[i]+o.a[i+1])/4.0)
		bandedSet(ab, rowMass, colPp1, -o.alpha)
		bandedSet(ab, rowMom, colPp1, (o.a[i]+o.a[i+1])/4.0)
	}

	bandedSet(ab, 2*m+2, 2*m+2, 1.0)
	bandedSet(ab, 2*m+2, 2*m, -2.0)
	bandedSet(ab, 2*m+2, 2*m-2, 1.0)
	bandedSet(ab, 2*m+3, 2*m+2,
		-(math.Sqrt(o.cmk2-o.pPrev[m+1]/2.0) - (o.u[m+1]-o.uPrev[m+1])/4.0))
	bandedSet(ab, 2*m+3, 2*m+3, 1.0)

	return ab
}

// Calculate maps the interior area vector a to the interior pressure
// vector p via a banded Newton solve.
func (o *PipeFlow) Calculate(aIn la.Vector) (la.Vector, error) {
	if len(aIn) != o.m {
		return nil, chk.Err("pipeflow: expected %d interior areas, got %d", o.m, len(aIn))
	}
	for i := 0; i < o.m; i++ {
		o.a[i+1] = aIn[i]
	}
	o.a[0] = o.a[1]
	o.a[o.m+1] = o.a[o.m]

	f := o.residual()
	residual0 := norm(f)
	if residual0 != 0 {
		converged := false
		for s := 0; s < o.newtonMax; s++ {
			ab := o.jacobian()
			rhs := make([]float64, len(f))
			for i := range f {
				rhs[i] = -f[i]
			}
			delta, err := solveBanded(ab, len(f), rhs)
			if err != nil {
				return nil, chk.Err("pipeflow: newton iteration %d failed:\n%v", s, err)
			}
			for i := 0; i < o.m+2; i++ {
				o.u[i] += delta[2*i]
				o.p[i] += delta[2*i+1]
			}
			o.u[0] = o.uBoundary()
			f = o.residual()
			residual := norm(f)
			if residual/residual0 < o.newtonTol {
				converged = true
				break
			}
		}
		if !converged {
			return nil, chk.Err("pipeflow: newton failed to converge within %d iterations", o.newtonMax)
		}
	}

	o.added = true
	p := la.NewVector(o.m)
	for i := 0; i < o.m; i++ {
		p[i] = o.p[i+1]
	}
	return p, nil
}

// FinalizeStep persists (a, p, u) and ends the step.
func (o *PipeFlow) FinalizeStep() error {
	if !o.initialized {
		return chk.Err("pipeflow: not initialized")
	}
	if !o.initializedStep {
		return chk.Err("pipeflow: no step ongoing")
	}
	if !o.added {
		return chk.Err("pipeflow: no calculate performed during step")
	}
	o.initializedStep = false
	if err := o.writer.Write(o.a); err != nil {
		return err
	}
	if err := o.writer.Write(o.p); err != nil {
		return err
	}
	if err := o.writer.Write(o.u); err != nil {
		return err
	}
	return nil
}

// Finalize closes the output file.
func (o *PipeFlow) Finalize() error {
	if !o.initialized {
		return chk.Err("pipeflow: not initialized")
	}
	o.initialized = false
	return o.writer.Close()
}

func norm(v la.Vector) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func cloneVector(v la.Vector) la.Vector {
	c := la.NewVector(len(v))
	copy(c, v)
	return c
}
