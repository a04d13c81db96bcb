// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ldl

import (
	"math"
	"testing"
)

// TestDenseFactorSolve factors A=[[4 1] [1 3]] (lower triangle stored
// column-major) and checks that Solve recovers x from A*x=b.
func TestDenseFactorSolve(t *testing.T) {
	a := []float64{4, 1, 0, 3}
	orig := append([]float64(nil), a...)
	d := NewDense(2, a)
	if err := d.Factor(1e-14); err != nil {
		t.Fatalf("Factor: %v", err)
	}
	b := []float64{6, 7}
	x := make([]float64, 2)
	d.Solve(b, x)
	if math.Abs(x[0]-1) > 1e-10 || math.Abs(x[1]-2) > 1e-10 {
		t.Fatalf("Solve = %v, want [1 2]", x)
	}

	r := make([]float64, 2)
	Residual(2, orig, x, b, r)
	for i, v := range r {
		if math.Abs(v) > 1e-10 {
			t.Fatalf("Residual[%d] = %v, want ~0", i, v)
		}
	}
}

func TestDenseFactorSingular(t *testing.T) {
	a := []float64{0, 0, 0, 1}
	d := NewDense(2, a)
	if err := d.Factor(1e-10); err != ErrSingular {
		t.Fatalf("Factor err = %v, want ErrSingular", err)
	}
}
