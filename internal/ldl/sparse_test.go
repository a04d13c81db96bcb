// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ldl

import (
	"math"
	"testing"

	"github.com/affinecone/ipm/internal/sparseops"
)

// buildQuasiDefTestMatrix builds the same [[4 1] [1 3]] system as the dense
// test, in CSC lower-triangle form.
func buildQuasiDefTestMatrix() *sparseops.CSC {
	ri := []int{0, 1, 1}
	ci := []int{0, 0, 1}
	val := []float64{4, 1, 3}
	return sparseops.NewCSC(2, 2, ri, ci, val)
}

func TestSparseFactorSolve(t *testing.T) {
	a := buildQuasiDefTestMatrix()
	sym := NewSymbolic(a)
	if sym.NNZ() != 3 {
		t.Fatalf("NNZ = %d, want 3 (no fill for this pattern)", sym.NNZ())
	}

	s := NewSparse(sym)
	s.RefreshNumeric(a)
	if err := s.FactorNumeric(1e-14); err != nil {
		t.Fatalf("FactorNumeric: %v", err)
	}

	b := []float64{6, 7}
	x := make([]float64, 2)
	s.Solve(b, x)
	if math.Abs(x[0]-1) > 1e-10 || math.Abs(x[1]-2) > 1e-10 {
		t.Fatalf("Solve = %v, want [1 2]", x)
	}

	r := make([]float64, 2)
	ResidualSparse(a, x, b, r)
	for i, v := range r {
		if math.Abs(v) > 1e-10 {
			t.Fatalf("ResidualSparse[%d] = %v, want ~0", i, v)
		}
	}
}

// TestSymbolicFill checks that the elimination-game fill rule connects two
// row-1 and row-2 neighbors of column 0 once column 0 is eliminated, even
// though (1,2) has no structural entry in the original matrix.
func TestSymbolicFill(t *testing.T) {
	ri := []int{0, 1, 2}
	ci := []int{0, 0, 0}
	val := []float64{1, 1, 1}
	a := sparseops.NewCSC(3, 3, ri, ci, val)
	sym := NewSymbolic(a)
	if len(sym.colPattern[1]) != 2 {
		t.Fatalf("colPattern[1] = %v, want fill-in row 2 (length 2)", sym.colPattern[1])
	}
}
