// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeflow

import (
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// bandWidth is the number of nonzero diagonals above and below the main
// diagonal in the Newton Jacobian: lower and upper bandwidth 4, from the
// 3-point stencil over the interleaved [u,p] unknowns.
const bandWidth = 4

// newBanded allocates a banded-Jacobian matrix in compact storage: entry
// [row, col] lives at [bandWidth + row - col, col]. Rows outside
// [0, 2*bandWidth] never occur for a valid (row, col) pair within the band.
func newBanded(n int) [][]float64 {
	ab := make([][]float64, 2*bandWidth+1)
	for i := range ab {
		ab[i] = make([]float64, n)
	}
	return ab
}

func bandedSet(ab [][]float64, row, col int, v float64) {
	ab[bandWidth+row-col][col] = v
}

// solveBanded solves A*delta = rhs for the banded matrix ab (compact
// layout, bandwidth bandWidth both ways). There is no banded LU routine
// available among the linear algebra packages this module draws on (gosl's
// la.LinSol wraps external sparse direct solvers such as UMFPACK/MUMPS,
// disproportionate for a system of this size), so the band is expanded
// into a dense mat.Dense and solved with gonum, the same linear algebra
// dependency already wired for the IQN-ILS least-squares solve; the
// banded layout is kept in the assembly step because it mirrors the
// residual's stencil and keeps the Jacobian cheap to build.
func solveBanded(ab [][]float64, n int, rhs []float64) ([]float64, error) {
	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		lo := i - bandWidth
		if lo < 0 {
			lo = 0
		}
		hi := i + bandWidth
		if hi > n-1 {
			hi = n - 1
		}
		for j := lo; j <= hi; j++ {
			a.Set(i, j, ab[bandWidth+i-j][j])
		}
	}
	b := mat.NewDense(n, 1, rhs)

	var delta mat.Dense
	if err := delta.Solve(a, b); err != nil {
		return nil, chk.Err("pipeflow: singular Jacobian:\n%v", err)
	}

	x := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = delta.At(i, 0)
	}
	return x, nil
}
