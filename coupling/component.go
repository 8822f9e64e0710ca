// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coupling implements the partitioned FSI coupling kernel: the
// shared component lifecycle contracts, the class-name registries used to
// resolve case settings to concrete implementations, and the orchestrator
// that drives the time-step and coupling-iteration loops.
package coupling

import "github.com/cpmech/gosl/la"

// StepLifecycle is implemented by every component that participates in the
// time-step loop. InitializeStep must be called exactly once before any
// Add/Update/Calculate call in a step, and FinalizeStep exactly once after;
// FinalizeStep returns an error if nothing was added during the step.
type StepLifecycle interface {
	InitializeStep() error
	FinalizeStep() error
}

// Solver is the contract shared by the flow solver (C1) and the structure
// solver (C2). Calculate must return a fresh vector (defensive copy); it
// must not alias the caller's input nor the solver's internal state.
type Solver interface {
	StepLifecycle

	// Initialize prepares the solver for the first time step. Calling
	// Calculate before Initialize is a contract violation.
	Initialize() error

	// Finalize releases resources (e.g. closes the output file).
	Finalize() error

	// Calculate maps the input interface quantity to the output interface
	// quantity (area -> pressure for the flow solver, pressure -> area for
	// the structure solver). It is idempotent within a step for the same
	// input, up to the solver's own convergence tolerance.
	Calculate(x la.Vector) (la.Vector, error)

	InputGrid() la.Vector
	OutputGrid() la.Vector
	SetInputGrid(z la.Vector)
	SetOutputGrid(z la.Vector)

	// InputData returns the solver's initial-condition interface vector.
	InputData() la.Vector

	SetTimeStep(dt float64)
	GetTimeStep() float64
}

// Coupler is the contract implemented by the IQN-ILS accelerator (C4).
type Coupler interface {
	StepLifecycle

	// Add absorbs an observation (x, xt) made within the current step.
	Add(x, xt la.Vector) error

	// Predict returns dx such that x <- x + dx drives r = xt - x toward
	// zero, given the current residual r.
	Predict(r la.Vector) (la.Vector, error)
}

// Extrapolator is the contract implemented by the linear extrapolator (C3).
type Extrapolator interface {
	StepLifecycle

	// Initialize seeds all three stored states with x0.
	Initialize(x0 la.Vector)

	// Predict returns the first guess for the next accepted state.
	Predict() la.Vector

	// Update records the latest accepted state for the current step.
	Update(x la.Vector)
}

// Convergence is the contract implemented by the relative-norm monitor (C5).
type Convergence interface {
	StepLifecycle

	// Add absorbs a residual observation within the current step.
	Add(r la.Vector) error

	// IsSatisfied reports whether the stopping criterion currently holds.
	IsSatisfied() bool
}

// Mapper is the contract implemented by the grid mapper (C7). It is used
// only when a solver's advertised grid differs from its peer's.
type Mapper interface {
	SetInputGrid(z la.Vector)
	SetOutputGrid(z la.Vector)
	Initialize() error
	Map(a la.Vector) la.Vector
}
