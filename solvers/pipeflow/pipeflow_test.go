// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeflow

import (
	"math"
	"os"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

func baseParams() Params {
	return Params{
		L: 0.05, D: 0.005, Rhof: 1000.0,
		UReference: 1.0, UAmplitude: 0.0, UPeriod: 1.0, UType: 1,
		E: 3e5, H: 0.001, M: 100,
		NewtonMax: 50, NewtonTol: 1e-12,
	}
}

func newSolver(tst *testing.T, p Params) *PipeFlow {
	dir, err := os.MkdirTemp("", "pipeflow")
	if err != nil {
		tst.Fatalf("mkdirtemp: %v", err)
	}
	tst.Cleanup(func() { os.RemoveAll(dir) })
	s, err := New(p, dir)
	if err != nil {
		tst.Fatalf("new: %v", err)
	}
	if err := s.Initialize(); err != nil {
		tst.Fatalf("initialize: %v", err)
	}
	s.SetTimeStep(0.01)
	return s
}

func referenceArea(d float64) la.Vector {
	a0 := math.Pi * d * d / 4.0
	v := la.NewVector(100)
	for i := range v {
		v[i] = a0
	}
	return v
}

// Test_pipeflow_S1 checks that a constant inlet with the undisturbed
// reference area produces (numerically) zero pressure.
func Test_pipeflow_S1(tst *testing.T) {

	chk.PrintTitle("pipeflow S1: undisturbed area gives zero pressure")

	p := baseParams()
	s := newSolver(tst, p)
	a := referenceArea(p.D)

	for step := 0; step < 10; step++ {
		if err := s.InitializeStep(); err != nil {
			tst.Fatalf("initializestep: %v", err)
		}
		press, err := s.Calculate(a)
		if err != nil {
			tst.Fatalf("calculate at step %d: %v", step, err)
		}
		maxAbs := 0.0
		for _, v := range press {
			if math.Abs(v) > maxAbs {
				maxAbs = math.Abs(v)
			}
		}
		if maxAbs >= 1e-9 {
			tst.Fatalf("step %d: expected ~zero pressure, got max|p|=%g", step, maxAbs)
		}
		if err := s.FinalizeStep(); err != nil {
			tst.Fatalf("finalizestep: %v", err)
		}
	}
}

// Test_pipeflow_S2 checks that a 10% expanded area gives pressures
// distinct from the undisturbed case, and that Calculate is idempotent
// within a step.
func Test_pipeflow_S2(tst *testing.T) {

	chk.PrintTitle("pipeflow S2: expanded area gives distinct, idempotent pressure")

	p := baseParams()
	s := newSolver(tst, p)

	aRef := referenceArea(p.D)
	aExp := la.NewVector(len(aRef))
	for i := range aExp {
		aExp[i] = 1.1 * aRef[i]
	}

	if err := s.InitializeStep(); err != nil {
		tst.Fatalf("initializestep: %v", err)
	}

	pRef, err := s.Calculate(aRef)
	if err != nil {
		tst.Fatalf("calculate reference: %v", err)
	}
	if err := s.FinalizeStep(); err != nil {
		tst.Fatalf("finalizestep: %v", err)
	}

	if err := s.InitializeStep(); err != nil {
		tst.Fatalf("initializestep: %v", err)
	}

	pExp1, err := s.Calculate(aExp)
	if err != nil {
		tst.Fatalf("calculate expanded 1: %v", err)
	}
	pExp2, err := s.Calculate(aExp)
	if err != nil {
		tst.Fatalf("calculate expanded 2: %v", err)
	}
	pExp3, err := s.Calculate(aExp)
	if err != nil {
		tst.Fatalf("calculate expanded 3: %v", err)
	}

	minDiff := math.Inf(1)
	for i := range pRef {
		d := math.Abs(pExp1[i] - pRef[i])
		if d < minDiff {
			minDiff = d
		}
	}
	if minDiff <= 1e-12 {
		tst.Fatalf("expected pressures distinct from S1, min|diff|=%g", minDiff)
	}

	chk.Vector(tst, "idempotent calculate (1 vs 2)", 1e-9, pExp1, pExp2)
	chk.Vector(tst, "idempotent calculate (2 vs 3)", 1e-9, pExp2, pExp3)

	if err := s.FinalizeStep(); err != nil {
		tst.Fatalf("finalizestep: %v", err)
	}
}

// Test_pipeflow_S3 checks that a sinusoidal inlet with undisturbed area
// gives a pressure profile with equal first-differences along z.
func Test_pipeflow_S3(tst *testing.T) {

	chk.PrintTitle("pipeflow S3: sinusoidal inlet gives linear pressure along z")

	p := baseParams()
	p.UAmplitude = 0.1
	s := newSolver(tst, p)
	a := referenceArea(p.D)

	var press la.Vector
	for step := 0; step < 3; step++ {
		if err := s.InitializeStep(); err != nil {
			tst.Fatalf("initializestep: %v", err)
		}
		var err error
		press, err = s.Calculate(a)
		if err != nil {
			tst.Fatalf("calculate at step %d: %v", step, err)
		}
		if err := s.FinalizeStep(); err != nil {
			tst.Fatalf("finalizestep: %v", err)
		}
	}

	minDelta, maxDelta := math.Inf(1), math.Inf(-1)
	for i := 1; i < len(press); i++ {
		d := press[i] - press[i-1]
		if d < minDelta {
			minDelta = d
		}
		if d > maxDelta {
			maxDelta = d
		}
	}
	if maxDelta-minDelta >= 1e-6 {
		tst.Fatalf("expected near-equal first differences, got spread %g", maxDelta-minDelta)
	}
}

// Test_pipeflow_defensive_copy checks that Calculate never aliases its
// input or the solver's internal state.
func Test_pipeflow_defensive_copy(tst *testing.T) {

	chk.PrintTitle("pipeflow calculate returns a defensive copy")

	p := baseParams()
	s := newSolver(tst, p)
	a := referenceArea(p.D)

	if err := s.InitializeStep(); err != nil {
		tst.Fatalf("initializestep: %v", err)
	}
	press, err := s.Calculate(a)
	if err != nil {
		tst.Fatalf("calculate: %v", err)
	}
	press[0] = 999.0
	if s.p[1] == 999.0 {
		tst.Fatalf("calculate result aliases internal pressure state")
	}
}
