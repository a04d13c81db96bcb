// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package blasops provides the small set of dense level-1/level-2 BLAS-like
// kernels the IPM driver and its dense linear-algebra collaborators are
// built on. Every routine mirrors the reference BLAS argument order
// (n, alpha, x, incx, y, incy) so the dense and sparse Ops implementations
// expose the same call shape.
package blasops

import "math"

const (
	zero = 0.0
	one  = 1.0
)

// Daxpy performs y += alpha*x.
func Daxpy(n int, alpha float64, x []float64, incx int, y []float64, incy int) {
	if n <= 0 || alpha == zero {
		return
	}
	if incx == 1 && incy == 1 {
		m := uint(n % 4)
		if m > uint(len(x)) || m > uint(len(y)) {
			panic("bound check error")
		}
		for i := uint(0); i < m; i++ {
			y[i] += alpha * x[i]
		}
		for i := m; i < uint(n); i += 4 {
			xs := x[i : i+4 : i+4]
			ys := y[i : i+4 : i+4]
			ys[0] += alpha * xs[0]
			ys[1] += alpha * xs[1]
			ys[2] += alpha * xs[2]
			ys[3] += alpha * xs[3]
		}
		return
	}
	lx, ly := uint(incx*(n-1)), uint(incy*(n-1))
	if lx >= uint(len(x)) || ly >= uint(len(y)) {
		panic("bound check error")
	}
	ix, iy := uint(0), uint(0)
	for ix <= lx && iy <= ly {
		y[iy] += alpha * x[ix]
		ix += uint(incx)
		iy += uint(incy)
	}
}

// Ddot computes the dot product of two vectors.
func Ddot(n int, x []float64, incx int, y []float64, incy int) (dot float64) {
	if n <= 0 {
		return 0.0
	}
	if incx == 1 && incy == 1 {
		m := uint(n % 5)
		if m > uint(len(x)) || m > uint(len(y)) {
			panic("bound check error")
		}
		for i := uint(0); i < m; i++ {
			dot += x[i] * y[i]
		}
		for i := m; i < uint(n); i += 5 {
			xs := x[i : i+5 : i+5]
			ys := y[i : i+5 : i+5]
			dot += xs[0]*ys[0] + xs[1]*ys[1] + xs[2]*ys[2] + xs[3]*ys[3] + xs[4]*ys[4]
		}
		return dot
	}
	lx, ly := uint(incx*(n-1)), uint(incy*(n-1))
	if lx >= uint(len(x)) || ly >= uint(len(y)) {
		panic("bound check error")
	}
	ix, iy := uint(0), uint(0)
	for ix <= lx && iy <= ly {
		dot += x[ix] * y[iy]
		ix += uint(incx)
		iy += uint(incy)
	}
	return dot
}

// Dcopy copies x into y.
func Dcopy(n int, x []float64, incx int, y []float64, incy int) {
	if n <= 0 {
		return
	}
	if incx == 1 && incy == 1 {
		copy(y[:n], x[:n])
		return
	}
	lx, ly := uint(incx*(n-1)), uint(incy*(n-1))
	if lx >= uint(len(x)) || ly >= uint(len(y)) {
		panic("bound check error")
	}
	ix, iy := uint(0), uint(0)
	for ix <= lx && iy <= ly {
		y[iy] = x[ix]
		ix += uint(incx)
		iy += uint(incy)
	}
}

// Dscal scales x by alpha in place.
func Dscal(n int, alpha float64, x []float64, incx int) {
	if n <= 0 || incx <= 0 {
		return
	}
	if incx == 1 {
		m := uint(n % 5)
		if m > uint(len(x)) {
			panic("bound check error")
		}
		for i := uint(0); i < m; i++ {
			x[i] *= alpha
		}
		for i := m; i < uint(n); i += 5 {
			d := x[i : i+5 : i+5]
			d[0] *= alpha
			d[1] *= alpha
			d[2] *= alpha
			d[3] *= alpha
			d[4] *= alpha
		}
		return
	}
	l := uint(incx * n)
	if l > uint(len(x)) {
		panic("bound check error")
	}
	for i := uint(0); i < l; i += uint(incx) {
		x[i] *= alpha
	}
}

// Dzero fills x with zero.
func Dzero(x []float64) {
	n := uint(len(x))
	m := n % 5
	for i := uint(0); i < m; i++ {
		x[i] = zero
	}
	for i := m; i < n; i += 5 {
		d := x[i : i+5 : i+5]
		d[0] = zero
		d[1] = zero
		d[2] = zero
		d[3] = zero
		d[4] = zero
	}
}

// Dnrm2 computes the Euclidean norm of x, scaled to avoid overflow/underflow.
func Dnrm2(n int, x []float64, incx int) float64 {
	if n < 1 || incx < 1 {
		return zero
	}
	m := uint(incx * n)
	if m > uint(len(x)) {
		panic("bound check error")
	}
	if n == 1 {
		return math.Abs(x[0])
	}
	scale := zero
	ssq := one
	for i := uint(0); i < m; i += uint(incx) {
		if absxi := math.Abs(x[i]); absxi > 0 {
			if scale < absxi {
				sxi := scale / absxi
				ssq = 1 + ssq*sxi*sxi
				scale = absxi
			} else {
				sxi := absxi / scale
				ssq += sxi * sxi
			}
		}
	}
	return scale * math.Sqrt(ssq)
}

// Trans selects NORMAL or TRANSPOSE multiplication for Gemv.
type Trans int

const (
	NoTrans Trans = iota
	Trans2
)

// Gemv computes y = alpha*op(A)*x + beta*y for a dense column-major m×n
// matrix A, where op is NoTrans (A, m×n, x is n-vector) or Trans2 (Aᵀ, x is
// m-vector).
func Gemv(trans Trans, m, n int, alpha float64, a []float64, lda int, x []float64, incx int, beta float64, y []float64, incy int) {
	if m == 0 || n == 0 {
		return
	}
	if trans == NoTrans {
		if beta != one {
			Dscal(m, beta, y, incy)
		}
		if alpha == zero {
			return
		}
		for j := 0; j < n; j++ {
			xj := x[j*incx]
			if xj == zero {
				continue
			}
			temp := alpha * xj
			Daxpy(m, temp, a[j*lda:j*lda+m], 1, y, incy)
		}
		return
	}
	// Aᵀ*x : y has length n, x has length m
	if beta != one {
		Dscal(n, beta, y, incy)
	}
	if alpha == zero {
		return
	}
	for j := 0; j < n; j++ {
		temp := alpha * Ddot(m, a[j*lda:j*lda+m], 1, x, incx)
		y[j*incy] += temp
	}
}

// SymvLower computes y = alpha*A*x + beta*y for a symmetric n×n matrix A
// stored in its lower triangle, column-major with leading dimension lda.
func SymvLower(n int, alpha float64, a []float64, lda int, x []float64, incx int, beta float64, y []float64, incy int) {
	if n == 0 {
		return
	}
	if beta != one {
		Dscal(n, beta, y, incy)
	}
	if alpha == zero {
		return
	}
	for j := 0; j < n; j++ {
		xj := x[j*incx]
		temp1 := alpha * xj
		temp2 := zero
		y[j*incy] += temp1 * a[j*lda+j]
		for i := j + 1; i < n; i++ {
			aij := a[j*lda+i]
			y[i*incy] += temp1 * aij
			temp2 += aij * x[i*incx]
		}
		y[j*incy] += alpha * temp2
	}
}

// DiagScaleRows computes A <- diag(d)*A in place for a dense m×n column-major
// matrix (scaling row i of every column by d[i]).
func DiagScaleRows(m, n int, d []float64, a []float64, lda int) {
	for j := 0; j < n; j++ {
		col := a[j*lda : j*lda+m]
		for i := 0; i < m; i++ {
			col[i] *= d[i]
		}
	}
}

// DiagScaleCols computes A <- A*diag(d) in place for a dense m×n column-major
// matrix (scaling column j by d[j]).
func DiagScaleCols(m, n int, d []float64, a []float64, lda int) {
	for j := 0; j < n; j++ {
		Dscal(m, d[j], a[j*lda:j*lda+m], 1)
	}
}
