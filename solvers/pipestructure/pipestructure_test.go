// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipestructure

import (
	"os"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

func newTestStructure(tst *testing.T) (*PipeStructure, string) {
	dir, err := os.MkdirTemp("", "pipestructure")
	if err != nil {
		tst.Fatalf("cannot create temp dir: %v", err)
	}
	params := Params{L: 0.05, D: 0.005, Rhof: 1000, E: 3e5, H: 0.001, M: 10}
	s, err := New(params, dir)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	return s, dir
}

func Test_pipestructure_stateless(tst *testing.T) {

	chk.PrintTitle("pipestructure stateless calculate")

	s, dir := newTestStructure(tst)
	defer os.RemoveAll(dir)

	if err := s.Initialize(); err != nil {
		tst.Fatalf("initialize: %v", err)
	}
	if err := s.InitializeStep(); err != nil {
		tst.Fatalf("initializestep: %v", err)
	}

	p1 := la.NewVector(10)
	p2 := la.NewVector(10)
	for i := range p1 {
		p1[i] = 10.0
		p2[i] = 50.0
	}

	a1, err := s.Calculate(p1)
	if err != nil {
		tst.Fatalf("calculate p1: %v", err)
	}
	_, err = s.Calculate(p2)
	if err != nil {
		tst.Fatalf("calculate p2: %v", err)
	}
	a1again, err := s.Calculate(p1)
	if err != nil {
		tst.Fatalf("calculate p1 again: %v", err)
	}

	chk.Vector(tst, "a(p1) == a(p1) after an intervening a(p2)", 1e-15, a1, a1again)

	if err := s.FinalizeStep(); err != nil {
		tst.Fatalf("finalizestep: %v", err)
	}
	if err := s.Finalize(); err != nil {
		tst.Fatalf("finalize: %v", err)
	}
}

func Test_pipestructure_unphysical_pressure(tst *testing.T) {

	chk.PrintTitle("pipestructure rejects unphysical pressure")

	s, dir := newTestStructure(tst)
	defer os.RemoveAll(dir)

	if err := s.Initialize(); err != nil {
		tst.Fatalf("initialize: %v", err)
	}
	if err := s.InitializeStep(); err != nil {
		tst.Fatalf("initializestep: %v", err)
	}

	p := la.NewVector(10)
	for i := range p {
		p[i] = 2.0*s.c02 + s.p0 + 1.0
	}
	if _, err := s.Calculate(p); err == nil {
		tst.Fatalf("expected unphysical pressure error, got nil")
	}
}

// Test_pipestructure_finalizestep_without_calculate checks the contract
// violation: finalizing a step in which Calculate was never called must
// fail rather than silently persist stale state.
func Test_pipestructure_finalizestep_without_calculate(tst *testing.T) {

	chk.PrintTitle("pipestructure finalizestep without calculate is fatal")

	s, dir := newTestStructure(tst)
	defer os.RemoveAll(dir)

	if err := s.Initialize(); err != nil {
		tst.Fatalf("initialize: %v", err)
	}
	if err := s.InitializeStep(); err != nil {
		tst.Fatalf("initializestep: %v", err)
	}
	if err := s.FinalizeStep(); err == nil {
		tst.Fatalf("expected error finalizing a step with no calculate")
	}
}

func Test_pipestructure_defensive_copy(tst *testing.T) {

	chk.PrintTitle("pipestructure calculate returns a fresh copy")

	s, dir := newTestStructure(tst)
	defer os.RemoveAll(dir)

	if err := s.Initialize(); err != nil {
		tst.Fatalf("initialize: %v", err)
	}
	if err := s.InitializeStep(); err != nil {
		tst.Fatalf("initializestep: %v", err)
	}

	p := la.NewVector(10)
	for i := range p {
		p[i] = 10.0
	}
	a, err := s.Calculate(p)
	if err != nil {
		tst.Fatalf("calculate: %v", err)
	}
	a[0] = 1e9
	if s.a[0] == 1e9 {
		tst.Fatalf("mutating returned area vector leaked into solver state")
	}
}
