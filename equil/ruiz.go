// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package equil implements stacked Ruiz equilibration of the affine conic
// operator [A;G] and symmetric equilibration of Q, shared by every storage
// backend through the StackedOperator capability interface.
package equil

import "math"

// StackedOperator is the minimal capability set the Ruiz iteration needs
// from a concrete (dense or sparse) storage backend. Rows are indexed 0..m-1
// for A and 0..k-1 for G; columns 0..n-1 for A, G and Q alike.
type StackedOperator interface {
	// RowInfNorms returns the infinity norm of each row of A (first m
	// entries) followed by each row of G (next k entries).
	RowInfNorms() []float64
	// ColInfNorms returns, for each of the n columns, the max infinity norm
	// across the corresponding columns of A, G and Q.
	ColInfNorms() []float64
	// ScaleRows multiplies row i of A by dA[i] and row i of G by dG[i].
	ScaleRows(dA, dG []float64)
	// ScaleCols multiplies column j of A and G by d[j], and applies the
	// symmetric two-sided scaling Q <- diag(d)*Q*diag(d).
	ScaleCols(d []float64)
}

// Scales holds the diagonal scaling vectors produced by Ruiz, needed both to
// transform the RHS/warm-start vectors going in and to undo the scaling on
// the final iterate going out.
type Scales struct {
	DA   []float64 // length m
	DG   []float64 // length k
	DCol []float64 // length n
}

// Identity returns the no-op scaling (all-ones), the default behavior
// preserved from the original solver's disabled adaptive equilibration path
// (Options.EquilIterations == 0).
func Identity(m, k, n int) Scales {
	s := Scales{DA: ones(m), DG: ones(k), DCol: ones(n)}
	return s
}

func ones(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v
}

// Ruiz runs up to `iterations` sweeps of stacked Ruiz equilibration over op,
// stopping early once every row/column norm of the scaled operator is
// within tol of 1. iterations == 0 performs no scaling at all (Identity).
func Ruiz(op StackedOperator, m, k, n, iterations int, tol float64) Scales {
	s := Scales{DA: ones(m), DG: ones(k), DCol: ones(n)}
	if iterations <= 0 {
		return s
	}
	for it := 0; it < iterations; it++ {
		rowNorms := op.RowInfNorms()
		colNorms := op.ColInfNorms()

		maxDev := 0.0
		rScale := make([]float64, m+k)
		for i, v := range rowNorms {
			if v <= 0 {
				rScale[i] = 1
				continue
			}
			rScale[i] = 1 / math.Sqrt(v)
			if d := math.Abs(v - 1); d > maxDev {
				maxDev = d
			}
		}
		cScale := make([]float64, n)
		for j, v := range colNorms {
			if v <= 0 {
				cScale[j] = 1
				continue
			}
			cScale[j] = 1 / math.Sqrt(v)
			if d := math.Abs(v - 1); d > maxDev {
				maxDev = d
			}
		}

		dA, dG := rScale[:m], rScale[m:]
		op.ScaleRows(dA, dG)
		op.ScaleCols(cScale)

		for i := range s.DA {
			s.DA[i] *= dA[i]
		}
		for i := range s.DG {
			s.DG[i] *= dG[i]
		}
		for j := range s.DCol {
			s.DCol[j] *= cScale[j]
		}

		if maxDev < tol {
			break
		}
	}
	return s
}

// ScaleRHS applies the forward scaling to the problem's RHS vectors
// (b <- dA*b, c <- dCol*c, h <- dG*h). Warm-start vectors are scaled
// separately by ScaleWarmStart.
func (s Scales) ScaleRHS(b, c, h []float64) {
	scaleVec(b, s.DA)
	scaleVec(c, s.DCol)
	scaleVec(h, s.DG)
}

// ScaleWarmStart scales caller-supplied warm-start vectors consistently
// with the equilibration applied to the problem data (x <- x/dCol,
// y <- y/dA, z <- z/dG, s <- dG*s), so that a point of the original problem
// maps to the corresponding point of the scaled one.
func (s Scales) ScaleWarmStart(x, y, z, slack []float64) {
	if x != nil {
		for i, d := range s.DCol {
			x[i] /= d
		}
	}
	if y != nil {
		for i, d := range s.DA {
			y[i] /= d
		}
	}
	if z != nil {
		for i, d := range s.DG {
			z[i] /= d
		}
	}
	if slack != nil {
		scaleVec(slack, s.DG)
	}
}

// Unscale applies the inverse transform to the final iterate so that it
// solves the original, unscaled problem (x <- dCol*x, y <- dA*y,
// z <- dG*z, s <- s/dG).
func (s Scales) Unscale(x, y, z, slack []float64) {
	scaleVec(x, s.DCol)
	scaleVec(y, s.DA)
	scaleVec(z, s.DG)
	for i, d := range s.DG {
		slack[i] /= d
	}
}

func scaleVec(v []float64, d []float64) {
	for i := range v {
		v[i] *= d[i]
	}
}
