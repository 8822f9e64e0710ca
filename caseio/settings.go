// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package caseio implements case/settings loading from an on-disk
// settings.json file and per-component result persistence, mirroring the
// teacher's inp package convention of json-tagged structs read with the
// standard library's encoding/json (see inp/sim.go's Data/SolverData).
package caseio

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
)

// Settings holds the raw contents of a case's settings.json file.
// Per-component parameter blocks are kept as json.RawMessage and decoded
// lazily by each component's allocator, since their shape depends on
// which class was selected.
type Settings struct {
	NStart int     `json:"nstart"`
	NStop  int     `json:"nstop"`
	KStop  int     `json:"kstop"`
	Dt     float64 `json:"dt"`

	FlowSolverClass      string `json:"flowsolverclass"`
	StructureSolverClass string `json:"structuresolverclass"`
	CouplerClass         string `json:"couplerclass"`
	ExtrapolatorClass    string `json:"extrapolatorclass"`
	ConvergenceClass     string `json:"convergenceclass"`

	FlowSolver      json.RawMessage `json:"flowsolver"`
	StructureSolver json.RawMessage `json:"structuresolver"`
	Coupler         json.RawMessage `json:"coupler"`
	Extrapolator    json.RawMessage `json:"extrapolator"`
	Convergence     json.RawMessage `json:"convergence"`
}

// Case holds the resolved location of a case: its settings and the output
// directory under which components persist their results.
type Case struct {
	Dir      string
	DataPath string
	Settings Settings
}

// LoadCase reads <dir>/settings.json and prepares <dir>/data as the
// per-component output root, creating it if absent.
func LoadCase(dir string) (*Case, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, chk.Err("case directory %q not found", dir)
	}

	settingsPath := filepath.Join(dir, "settings.json")
	buf, err := os.ReadFile(settingsPath)
	if err != nil {
		return nil, chk.Err("cannot read settings file %q:\n%v", settingsPath, err)
	}

	var s Settings
	if err := json.Unmarshal(buf, &s); err != nil {
		return nil, chk.Err("cannot parse settings file %q:\n%v", settingsPath, err)
	}

	datapath := filepath.Join(dir, "data")
	if err := os.MkdirAll(datapath, 0755); err != nil {
		return nil, chk.Err("cannot create data directory %q:\n%v", datapath, err)
	}

	return &Case{Dir: dir, DataPath: datapath, Settings: s}, nil
}
