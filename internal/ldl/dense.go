// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ldl implements the LDLᵀ factorization of symmetric quasi-definite
// matrices used to solve the regularized KKT saddle-point system, in both a
// dense and a sparse (symbolic/numeric split) flavor.
//
// A symmetric quasi-definite matrix has a (+,−) diagonal block sign pattern
// that guarantees bounded pivot growth for a diagonal-pivoted LDLᵀ without
// row/column interchanges in exact arithmetic (Vanderbei, "Symmetric
// Quasi-Definite Matrices", 1995). The regularization added by the KKT
// assembler before factorization keeps pivots away from zero in floating
// point, so both variants here factor in natural order without pivoting.
package ldl

import (
	"errors"
	"math"
)

// ErrSingular is returned when a diagonal pivot underflows the given
// tolerance during factorization.
var ErrSingular = errors.New("ldl: pivot below tolerance, matrix not quasi-definite enough to factor safely")

// Dense is an in-place LDLᵀ factorization of an n×n symmetric matrix stored
// as a full column-major buffer of length n*n (only the lower triangle,
// including the diagonal, is read and overwritten).
type Dense struct {
	n   int
	a   []float64 // n*n column-major; after Factor, lower triangle holds L (unit diag implicit) and D on the diagonal
	tmp []float64 // scratch row buffer, length n
}

// NewDense allocates a Dense factorization handle for an n×n system. The
// backing buffer a is owned by the caller and must be column-major with
// leading dimension n; FinishKKT/AddLargeReg write into it before Factor is
// called.
func NewDense(n int, a []float64) *Dense {
	if len(a) < n*n {
		panic("ldl: buffer too small for n")
	}
	return &Dense{n: n, a: a, tmp: make([]float64, n)}
}

func (d *Dense) at(i, j int) float64     { return d.a[j*d.n+i] }
func (d *Dense) set(i, j int, v float64) { d.a[j*d.n+i] = v }

// Factor computes the LDLᵀ factorization in place, without pivoting,
// relying on the quasi-definite structure of the caller-assembled matrix.
// pivotTol is the minimum acceptable |pivot|; smaller pivots return
// ErrSingular.
func (d *Dense) Factor(pivotTol float64) error {
	n := d.n
	for j := 0; j < n; j++ {
		djj := d.at(j, j)
		for k := 0; k < j; k++ {
			ljk := d.at(j, k)
			if ljk != 0 {
				djj -= ljk * ljk * d.at(k, k)
			}
		}
		if math.Abs(djj) < pivotTol {
			return ErrSingular
		}
		d.set(j, j, djj)
		for i := j + 1; i < n; i++ {
			aij := d.at(i, j)
			for k := 0; k < j; k++ {
				lik := d.at(i, k)
				ljk := d.at(j, k)
				if lik != 0 && ljk != 0 {
					aij -= lik * d.at(k, k) * ljk
				}
			}
			d.set(i, j, aij/djj)
		}
	}
	return nil
}

// Solve computes x = (LDLᵀ)⁻¹ b. x may alias b.
func (d *Dense) Solve(b []float64, x []float64) {
	n := d.n
	copy(x, b)
	// forward solve L y = b
	for i := 0; i < n; i++ {
		sum := x[i]
		for k := 0; k < i; k++ {
			sum -= d.at(i, k) * x[k]
		}
		x[i] = sum
	}
	// apply D^-1
	for i := 0; i < n; i++ {
		x[i] /= d.at(i, i)
	}
	// backward solve Lᵀ x = z
	for i := n - 1; i >= 0; i-- {
		sum := x[i]
		for k := i + 1; k < n; k++ {
			sum -= d.at(k, i) * x[k]
		}
		x[i] = sum
	}
}

// Residual computes r = Aorig*x - b given the original (unfactored, not
// regularized) symmetric matrix aOrig (lower-triangle, column-major, n×n),
// for iterative refinement and optional residual self-checks.
func Residual(n int, aOrig []float64, x, b, r []float64) {
	for i := 0; i < n; i++ {
		r[i] = -b[i]
	}
	for j := 0; j < n; j++ {
		xj := x[j]
		if xj == 0 {
			continue
		}
		r[j] += aOrig[j*n+j] * xj
		for i := j + 1; i < n; i++ {
			aij := aOrig[j*n+i]
			r[i] += aij * xj
			r[j] += aij * x[i]
		}
	}
}
