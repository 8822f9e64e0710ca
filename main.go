// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command tango drives the partitioned FSI coupling loop over a single
// case directory: one positional directory argument, recovering from
// panics at the top level, and reporting failures with a colored message
// before a non-zero exit.
package main

import (
	"flag"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/cpmech/tango/caseio"
	"github.com/cpmech/tango/coupling"
	"github.com/cpmech/tango/mappers/linear"

	_ "github.com/cpmech/tango/convergence/relativenorm"
	_ "github.com/cpmech/tango/couplers/iqnils"
	_ "github.com/cpmech/tango/extrapolators/linear"
	_ "github.com/cpmech/tango/solvers/pipeflow"
	_ "github.com/cpmech/tango/solvers/pipestructure"
)

func main() {
	verbose := flag.Bool("v", false, "print per-iteration progress")
	flag.Parse()

	if len(flag.Args()) < 1 {
		io.PfRed("ERROR: please provide a case directory\n")
		os.Exit(1)
	}
	dir := flag.Arg(0)

	exitCode := 0
	defer func() {
		if r := recover(); r != nil {
			io.PfRed("ERROR: %v\n", r)
			exitCode = 1
		}
		os.Exit(exitCode)
	}()

	io.Pf("tango: partitioned FSI coupling\n")

	if err := run(dir, *verbose); err != nil {
		io.PfRed("ERROR: %v\n", err)
		exitCode = 1
	}
}

func run(dir string, verbose bool) error {
	c, err := caseio.LoadCase(dir)
	if err != nil {
		return chk.Err("cannot load case:\n%v", err)
	}

	flow, err := coupling.NewFlowSolver(c.Settings.FlowSolverClass, c.Settings.FlowSolver, c.DataPath)
	if err != nil {
		return chk.Err("cannot build flow solver:\n%v", err)
	}
	structure, err := coupling.NewStructureSolver(c.Settings.StructureSolverClass, c.Settings.StructureSolver, c.DataPath)
	if err != nil {
		return chk.Err("cannot build structure solver:\n%v", err)
	}
	coupler, err := coupling.NewCoupler(c.Settings.CouplerClass, c.Settings.Coupler, c.DataPath)
	if err != nil {
		return chk.Err("cannot build coupler:\n%v", err)
	}
	extrap, err := coupling.NewExtrapolator(c.Settings.ExtrapolatorClass, c.Settings.Extrapolator, c.DataPath)
	if err != nil {
		return chk.Err("cannot build extrapolator:\n%v", err)
	}
	conv, err := coupling.NewConvergence(c.Settings.ConvergenceClass, c.Settings.Convergence, c.DataPath)
	if err != nil {
		return chk.Err("cannot build convergence monitor:\n%v", err)
	}

	orch := &coupling.Orchestrator{
		Flow:         flow,
		Structure:    structure,
		Coupler:      coupler,
		Extrapolator: extrap,
		Convergence:  conv,
		Settings: coupling.Settings{
			NStart: c.Settings.NStart,
			NStop:  c.Settings.NStop,
			KStop:  c.Settings.KStop,
			Dt:     c.Settings.Dt,
		},
		Verbose: verbose,
	}

	flowToStructure, err := buildMapper(flow.OutputGrid(), structure.InputGrid())
	if err != nil {
		return err
	}
	orch.FlowToStructure = flowToStructure

	structureToFlow, err := buildMapper(structure.OutputGrid(), flow.InputGrid())
	if err != nil {
		return err
	}
	orch.StructureToFlow = structureToFlow

	return orch.Run()
}

// buildMapper returns nil when zIn and zOut already coincide (the common
// case), and a ready linear.Mapper otherwise.
func buildMapper(zIn, zOut []float64) (coupling.Mapper, error) {
	if len(zIn) == len(zOut) {
		same := true
		for i := range zIn {
			if zIn[i] != zOut[i] {
				same = false
				break
			}
		}
		if same {
			return nil, nil
		}
	}
	m := linear.New()
	m.SetInputGrid(zIn)
	m.SetOutputGrid(zOut)
	if err := m.Initialize(); err != nil {
		return nil, chk.Err("cannot initialize grid mapper:\n%v", err)
	}
	return m, nil
}
