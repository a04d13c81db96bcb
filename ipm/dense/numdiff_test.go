// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dense_test

import (
	"math"
	"testing"

	"github.com/affinecone/ipm/ipm"
	"github.com/affinecone/ipm/ipm/dense"
)

// buildTestBackend returns a local backend over a small symmetric Q and two
// rectangular A, G blocks, used only to exercise Ops methods against a
// numerical derivative, not to run a solve.
func buildTestBackend() (dense.Backend, *ipm.DenseMatrix, []float64) {
	n, m, k := 3, 2, 2

	q := ipm.NewDenseMatrix(n, n)
	sym := [][]float64{
		{4, 1, 0},
		{1, 3, 1},
		{0, 1, 2},
	}
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			q.Data[j*n+i] = sym[i][j]
		}
	}

	a := ipm.NewDenseMatrix(m, n)
	aRows := [][]float64{{1, 2, -1}, {0, 1, 3}}
	for j := 0; j < n; j++ {
		for i := 0; i < m; i++ {
			a.Data[j*m+i] = aRows[i][j]
		}
	}

	g := ipm.NewDenseMatrix(k, n)
	gRows := [][]float64{{2, 0, 1}, {-1, 1, 1}}
	for j := 0; j < n; j++ {
		for i := 0; i < k; i++ {
			g.Data[j*k+i] = gRows[i][j]
		}
	}

	c := []float64{0.5, -1.2, 2.0}

	return dense.NewLocalBackend(n, m, k, q, a, g), a, c
}

// centralDiffGradient estimates the gradient of a scalar objective at x0 by
// central differences, perturbing one coordinate at a time.
func centralDiffGradient(objective func(x []float64) float64, x0 []float64, step float64) []float64 {
	x := append([]float64(nil), x0...)
	grad := make([]float64, len(x0))
	for i, orig := range x0 {
		x[i] = orig + step
		fPlus := objective(x)
		x[i] = orig - step
		fMinus := objective(x)
		x[i] = orig
		grad[i] = (fPlus - fMinus) / (2 * step)
	}
	return grad
}

// centralDiffJacobian estimates the Jacobian of x -> f(x) (f writing its
// m-vector result into its second argument) at x0, returned column-major
// (m rows, n cols) in the same layout ipm.DenseMatrix uses.
func centralDiffJacobian(m int, objective func(x, y []float64), x0 []float64, step float64) []float64 {
	n := len(x0)
	x := append([]float64(nil), x0...)
	yPlus, yMinus := make([]float64, m), make([]float64, m)
	jac := make([]float64, m*n)
	for j, orig := range x0 {
		x[j] = orig + step
		objective(x, yPlus)
		x[j] = orig - step
		objective(x, yMinus)
		x[j] = orig
		for i := 0; i < m; i++ {
			jac[j*m+i] = (yPlus[i] - yMinus[i]) / (2 * step)
		}
	}
	return jac
}

// TestQuadraticGradientMatchesFiniteDifference checks that the analytic
// gradient Qx+c obtained through Ops.SymMulQ agrees with a central finite
// difference of the quadratic objective built from the same operator.
func TestQuadraticGradientMatchesFiniteDifference(t *testing.T) {
	ops, _, c := buildTestBackend()
	n := len(c)

	objective := func(x []float64) float64 {
		qx := make([]float64, n)
		ops.SymMulQ(1, x, 0, qx)
		return 0.5*ops.Dot(x, qx) + ops.Dot(c, x)
	}

	x0 := []float64{1.3, -0.4, 2.1}
	diff := centralDiffGradient(objective, x0, 1e-5)

	want := make([]float64, n)
	ops.SymMulQ(1, x0, 0, want)
	for i := range want {
		want[i] += c[i]
	}

	for i := range want {
		if math.Abs(diff[i]-want[i]) > 1e-5 {
			t.Errorf("gradient[%d] = %v, want %v", i, diff[i], want[i])
		}
	}
}

// TestGemvAJacobianMatchesFiniteDifference checks that the Jacobian of
// x -> A*x recovered by finite differences through Ops.GemvA equals A
// itself, since the map is linear.
func TestGemvAJacobianMatchesFiniteDifference(t *testing.T) {
	ops, a, _ := buildTestBackend()
	m := a.Rows

	objective := func(x, y []float64) {
		ops.GemvA(false, 1, x, 0, y)
	}

	x0 := []float64{0.7, 1.1, -0.3}
	diff := centralDiffJacobian(m, objective, x0, 1e-5)

	for idx, want := range a.Data {
		if math.Abs(diff[idx]-want) > 1e-5 {
			t.Errorf("dA[%d] = %v, want %v", idx, diff[idx], want)
		}
	}
}
