// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparse_test

import (
	"math"
	"testing"

	"github.com/affinecone/ipm/internal/sparseops"
	"github.com/affinecone/ipm/ipm/sparse"
)

// TestEquilibrateInnerSolveMatchesIdentity checks that running
// EquilibrateInner before Factor does not change what Solve returns for
// the original, unscaled system, mirroring the same check over the dense
// backend.
func TestEquilibrateInnerSolveMatchesIdentity(t *testing.T) {
	n, m, k := 3, 1, 2

	q := sparseops.NewCSC(n, n,
		[]int{0, 1, 1, 2, 2}, []int{0, 0, 1, 1, 2},
		[]float64{4, 1, 3, 1, 2})
	a := sparseops.NewCSC(m, n,
		[]int{0, 0, 0}, []int{0, 1, 2},
		[]float64{1, 2, -1})
	g := sparseops.NewCSC(k, n,
		[]int{0, 0, 1, 1, 1}, []int{0, 1, 0, 1, 2},
		[]float64{2, -1, 1, 1, 1})

	s := []float64{3.0, 1e4}
	z := []float64{3.0, 1e-4}
	rhs := []float64{1, -2, 0.5, 1.5, -0.5, 2}

	buildAndSolve := func(withEquil bool) []float64 {
		be := sparse.NewLocalBackend(n, m, k, q, a, g)
		be.BuildStatic(1e-12, 1e-12, 1e-12)
		be.FinishKKT(s, z)
		be.AddLargeReg([]float64{1e-7, 1e-7, 1e-7, -1e-7, -1e-7, -1e-7})
		if withEquil {
			be.EquilibrateInner(4, 1e-2)
		}
		if err := be.Factor(1e-13); err != nil {
			t.Fatalf("Factor: %v", err)
		}
		delta := make([]float64, n+m+k)
		be.Solve(rhs, delta)
		return delta
	}

	identity := buildAndSolve(false)
	equilibrated := buildAndSolve(true)

	for i := range identity {
		if math.Abs(identity[i]-equilibrated[i]) > 1e-8 {
			t.Errorf("delta[%d]=%v, want %v (identity path)", i, equilibrated[i], identity[i])
		}
	}
}
