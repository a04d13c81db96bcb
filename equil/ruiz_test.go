// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equil

import (
	"math"
	"testing"
)

// denseOp is a minimal StackedOperator over dense column-major A (m×n),
// G (k×n) and Q (n×n), standing in for an ipm.Ops-backed storage type so
// this package's tests do not need to depend on ipm.
type denseOp struct {
	m, k, n int
	a, g, q []float64 // column-major
}

func (d *denseOp) RowInfNorms() []float64 {
	out := make([]float64, d.m+d.k)
	rowInfInto(out[:d.m], d.m, d.n, d.a)
	rowInfInto(out[d.m:], d.k, d.n, d.g)
	return out
}

func rowInfInto(out []float64, rows, cols int, data []float64) {
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			v := math.Abs(data[j*rows+i])
			if v > out[i] {
				out[i] = v
			}
		}
	}
}

func (d *denseOp) ColInfNorms() []float64 {
	out := make([]float64, d.n)
	colInfInto(out, d.m, d.n, d.a)
	colInfInto(out, d.k, d.n, d.g)
	colInfInto(out, d.n, d.n, d.q)
	return out
}

func colInfInto(out []float64, rows, cols int, data []float64) {
	for j := 0; j < cols; j++ {
		mx := 0.0
		for i := 0; i < rows; i++ {
			v := math.Abs(data[j*rows+i])
			if v > mx {
				mx = v
			}
		}
		if mx > out[j] {
			out[j] = mx
		}
	}
}

func (d *denseOp) ScaleRows(dA, dG []float64) {
	scaleRows(d.m, d.n, dA, d.a)
	scaleRows(d.k, d.n, dG, d.g)
}

func scaleRows(rows, cols int, dv, data []float64) {
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			data[j*rows+i] *= dv[i]
		}
	}
}

func (d *denseOp) ScaleCols(dv []float64) {
	scaleCols(d.m, d.n, dv, d.a)
	scaleCols(d.k, d.n, dv, d.g)
	scaleCols(d.n, d.n, dv, d.q)
	scaleRows(d.n, d.n, dv, d.q)
}

func scaleCols(rows, cols int, dv, data []float64) {
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			data[j*rows+i] *= dv[j]
		}
	}
}

func TestIdentityIsNoOp(t *testing.T) {
	s := Identity(2, 3, 4)
	for _, v := range s.DA {
		if v != 1 {
			t.Fatalf("Identity.DA = %v, want all ones", s.DA)
		}
	}
	for _, v := range append(append([]float64{}, s.DG...), s.DCol...) {
		if v != 1 {
			t.Fatalf("Identity scales not all ones")
		}
	}
}

// TestRuizBalancesNorms checks that a badly-scaled operator has row/column
// infinity norms driven close to 1 after equilibration.
func TestRuizBalancesNorms(t *testing.T) {
	op := &denseOp{
		m: 1, k: 1, n: 2,
		a: []float64{1000, 0}, // 1x2: row0 = [1000, 0]
		g: []float64{0, 0.001},
		q: []float64{1, 0, 0, 1},
	}
	Ruiz(op, op.m, op.k, op.n, 25, 1e-10)

	rows := op.RowInfNorms()
	cols := op.ColInfNorms()
	for i, v := range rows {
		if v != 0 && math.Abs(v-1) > 1e-3 {
			t.Fatalf("row %d inf-norm = %v, want ~1", i, v)
		}
	}
	for j, v := range cols {
		if v != 0 && math.Abs(v-1) > 1e-3 {
			t.Fatalf("col %d inf-norm = %v, want ~1", j, v)
		}
	}
}

// TestScaleUnscaleRoundTrip checks unscale(scale(v)) recovers the original
// iterate to machine precision.
func TestScaleUnscaleRoundTrip(t *testing.T) {
	op := &denseOp{
		m: 2, k: 2, n: 2,
		a: []float64{2, 0, 0, 5},
		g: []float64{3, 0, 0, 7},
		q: []float64{4, 1, 1, 6},
	}
	s := Ruiz(op, op.m, op.k, op.n, 10, 1e-8)

	x0 := []float64{1.5, -2.5}
	y0 := []float64{0.5, -0.5}
	z0 := []float64{1, 2}
	sl0 := []float64{3, 4}

	x, y, z, sl := append([]float64{}, x0...), append([]float64{}, y0...), append([]float64{}, z0...), append([]float64{}, sl0...)
	s.ScaleWarmStart(x, y, z, sl)
	s.Unscale(x, y, z, sl)

	for i := range x0 {
		if math.Abs(x[i]-x0[i]) > 1e-10 {
			t.Fatalf("x round-trip[%d] = %v, want %v", i, x[i], x0[i])
		}
	}
	for i := range y0 {
		if math.Abs(y[i]-y0[i]) > 1e-10 {
			t.Fatalf("y round-trip[%d] = %v, want %v", i, y[i], y0[i])
		}
	}
	for i := range z0 {
		if math.Abs(z[i]-z0[i]) > 1e-10 {
			t.Fatalf("z round-trip[%d] = %v, want %v", i, z[i], z0[i])
		}
	}
	for i := range sl0 {
		if math.Abs(sl[i]-sl0[i]) > 1e-10 {
			t.Fatalf("s round-trip[%d] = %v, want %v", i, sl[i], sl0[i])
		}
	}
}
