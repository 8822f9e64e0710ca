// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coupling

import (
	"encoding/json"

	"github.com/cpmech/gosl/chk"
)

// Allocator functions build one component from its raw JSON settings
// object and the directory under which it should persist its results.
// Every allocator is registered by a concrete component package's own
// init(), keyed by the class name that a case's settings file uses to
// select it (e.g. "PipeFlow", "IQNILS"): a registry of constructor
// functions keyed by string, resolved once at case start-up, with no
// reflection involved.
type (
	FlowSolverAllocator      func(params json.RawMessage, datapath string) (Solver, error)
	StructureSolverAllocator func(params json.RawMessage, datapath string) (Solver, error)
	CouplerAllocator         func(params json.RawMessage, datapath string) (Coupler, error)
	ExtrapolatorAllocator    func(params json.RawMessage, datapath string) (Extrapolator, error)
	ConvergenceAllocator     func(params json.RawMessage, datapath string) (Convergence, error)
)

var (
	flowSolverAllocators      = map[string]FlowSolverAllocator{}
	structureSolverAllocators = map[string]StructureSolverAllocator{}
	couplerAllocators         = map[string]CouplerAllocator{}
	extrapolatorAllocators    = map[string]ExtrapolatorAllocator{}
	convergenceAllocators     = map[string]ConvergenceAllocator{}
)

// RegisterFlowSolver adds a flow solver class to the registry. Call from
// an implementation package's init().
func RegisterFlowSolver(class string, alloc FlowSolverAllocator) { flowSolverAllocators[class] = alloc }

// RegisterStructureSolver adds a structure solver class to the registry.
func RegisterStructureSolver(class string, alloc StructureSolverAllocator) {
	structureSolverAllocators[class] = alloc
}

// RegisterCoupler adds a coupler class to the registry.
func RegisterCoupler(class string, alloc CouplerAllocator) { couplerAllocators[class] = alloc }

// RegisterExtrapolator adds an extrapolator class to the registry.
func RegisterExtrapolator(class string, alloc ExtrapolatorAllocator) {
	extrapolatorAllocators[class] = alloc
}

// RegisterConvergence adds a convergence class to the registry.
func RegisterConvergence(class string, alloc ConvergenceAllocator) {
	convergenceAllocators[class] = alloc
}

// NewFlowSolver resolves class to a registered allocator and builds it.
func NewFlowSolver(class string, params json.RawMessage, datapath string) (Solver, error) {
	alloc, ok := flowSolverAllocators[class]
	if !ok {
		return nil, chk.Err("cannot find flow solver class named %q", class)
	}
	return alloc(params, datapath)
}

// NewStructureSolver resolves class to a registered allocator and builds it.
func NewStructureSolver(class string, params json.RawMessage, datapath string) (Solver, error) {
	alloc, ok := structureSolverAllocators[class]
	if !ok {
		return nil, chk.Err("cannot find structure solver class named %q", class)
	}
	return alloc(params, datapath)
}

// NewCoupler resolves class to a registered allocator and builds it.
func NewCoupler(class string, params json.RawMessage, datapath string) (Coupler, error) {
	alloc, ok := couplerAllocators[class]
	if !ok {
		return nil, chk.Err("cannot find coupler class named %q", class)
	}
	return alloc(params, datapath)
}

// NewExtrapolator resolves class to a registered allocator and builds it.
func NewExtrapolator(class string, params json.RawMessage, datapath string) (Extrapolator, error) {
	alloc, ok := extrapolatorAllocators[class]
	if !ok {
		return nil, chk.Err("cannot find extrapolator class named %q", class)
	}
	return alloc(params, datapath)
}

// NewConvergence resolves class to a registered allocator and builds it.
func NewConvergence(class string, params json.RawMessage, datapath string) (Convergence, error) {
	alloc, ok := convergenceAllocators[class]
	if !ok {
		return nil, chk.Err("cannot find convergence class named %q", class)
	}
	return alloc(params, datapath)
}
