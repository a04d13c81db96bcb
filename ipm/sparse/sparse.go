// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sparse supplies the local sparse Ops/Factorizer pair the ipm
// driver runs against when Q, A and G are given as compressed-sparse-column
// matrices. The symbolic factorization pattern is computed once in
// BuildStatic and reused for every outer iteration (only numeric values
// change), matching the "preserved symbolic state" design note.
package sparse

import (
	"math"

	"github.com/affinecone/ipm/internal/blasops"
	"github.com/affinecone/ipm/internal/ldl"
	"github.com/affinecone/ipm/internal/sparseops"
	"github.com/affinecone/ipm/ipm"
)

type backend struct {
	n, m, k int
	q, a, g *sparseops.CSC

	gammaX, gammaY, gammaZ float64
	ntot                   int
	jOrig                  *sparseops.CSC // ntot×ntot, lower triangle, structurally fixed after BuildStatic
	regVal                 []float64      // scratch: jOrig.Val + diag(regL), refreshed into sym each Factor
	regL                   []float64

	diagIdx []int // diagIdx[i] = position in jOrig.Val of the (i,i) entry

	sym *ldl.Symbolic
	num *ldl.Sparse

	dInner   []float64 // symmetric inner-equilibration scale, nil when disabled this iteration
	solveTmp []float64 // scratch for Solve's scale/unscale, length ntot
	normScale []float64 // scratch for EquilibrateInner, length ntot
}

// Backend is the combined Ops+Factorizer contract a sparse backend value
// satisfies, exported so ipm/sparsedist can wrap just the Ops half with a
// distributed Dot/Nrm2 decorator while passing the same value through as
// the Factorizer.
type Backend interface {
	ipm.Ops
	ipm.Factorizer
}

// NewLocalBackend builds a sparse Ops+Factorizer pair over q, a, g.
func NewLocalBackend(n, m, k int, q, a, g *sparseops.CSC) Backend {
	return newBackend(n, m, k, q, a, g)
}

func newBackend(n, m, k int, q, a, g *sparseops.CSC) *backend {
	ntot := n + m + k
	return &backend{
		n: n, m: m, k: k, q: q, a: a, g: g, ntot: ntot,
		solveTmp: make([]float64, ntot), normScale: make([]float64, ntot),
	}
}

func tripletsOf(m *sparseops.CSC, rowShift int) (ri, ci []int, val []float64) {
	for j := 0; j < m.Cols; j++ {
		rows, vals := m.Col(j)
		for idx, r := range rows {
			ri = append(ri, r+rowShift)
			ci = append(ci, j)
			val = append(val, vals[idx])
		}
	}
	return
}

func diagIndex(m *sparseops.CSC, j int) int {
	rows, _ := m.Col(j)
	for idx, r := range rows {
		if r == j {
			return m.ColPtr[j] + idx
		}
	}
	return -1
}

// ---- ipm.Ops ----

func (b *backend) RowInfNorms() []float64 {
	out := make([]float64, b.m+b.k)
	rowInfNormsInto(out[:b.m], b.a)
	rowInfNormsInto(out[b.m:], b.g)
	return out
}

// rowInfNormsInto writes, into out[r], the max abs value across row r of m's
// stored entries. sparseops.RowInfNorms combines matrices sharing the same
// row space (elementwise max); A and G occupy disjoint row ranges of the
// stacked operator, so each needs its own slice of out instead.
func rowInfNormsInto(out []float64, m *sparseops.CSC) {
	for j := 0; j < m.Cols; j++ {
		ri, v := m.Col(j)
		for k, r := range ri {
			av := v[k]
			if av < 0 {
				av = -av
			}
			if av > out[r] {
				out[r] = av
			}
		}
	}
}

func (b *backend) ColInfNorms() []float64 {
	out := make([]float64, b.n)
	tmp := make([]float64, b.n)
	b.a.ColInfNorms(out)
	b.g.ColInfNorms(tmp)
	for j := range out {
		if tmp[j] > out[j] {
			out[j] = tmp[j]
		}
	}
	b.q.ColInfNorms(tmp)
	for j := range out {
		if tmp[j] > out[j] {
			out[j] = tmp[j]
		}
	}
	return out
}

func (b *backend) ScaleRows(dA, dG []float64) {
	b.a.DiagScaleRows(dA)
	b.g.DiagScaleRows(dG)
}

func (b *backend) ScaleCols(d []float64) {
	b.a.DiagScaleCols(d)
	b.g.DiagScaleCols(d)
	b.q.DiagScaleRows(d)
	b.q.DiagScaleCols(d)
}

func (b *backend) Dot(x, y []float64) float64           { return blasops.Ddot(len(x), x, 1, y, 1) }
func (b *backend) Nrm2(x []float64) float64             { return blasops.Dnrm2(len(x), x, 1) }
func (b *backend) Axpy(alpha float64, x, y []float64)   { blasops.Daxpy(len(x), alpha, x, 1, y, 1) }
func (b *backend) Scal(alpha float64, x []float64)      { blasops.Dscal(len(x), alpha, x, 1) }
func (b *backend) Copy(dst, src []float64)               { blasops.Dcopy(len(src), src, 1, dst, 1) }

func (b *backend) GemvA(trans bool, alpha float64, x []float64, beta float64, y []float64) {
	b.a.Gemv(trans, alpha, x, beta, y)
}

func (b *backend) GemvG(trans bool, alpha float64, x []float64, beta float64, y []float64) {
	b.g.Gemv(trans, alpha, x, beta, y)
}

func (b *backend) SymMulQ(alpha float64, x []float64, beta float64, y []float64) {
	b.q.SymvLower(alpha, x, beta, y)
}

func (b *backend) NormEstimate(basisSize int) (normQ, normA, normG float64) {
	normQ = ipm.PowerNormEstimate(b.n, func(x, y []float64) {
		tmp := make([]float64, b.n)
		b.q.SymvLower(1, x, 0, tmp)
		b.q.SymvLower(1, tmp, 0, y)
	}, basisSize)
	normA = ipm.PowerNormEstimate(b.n, func(x, y []float64) {
		tmp := make([]float64, b.m)
		b.a.Gemv(false, 1, x, 0, tmp)
		b.a.Gemv(true, 1, tmp, 0, y)
	}, basisSize)
	normG = ipm.PowerNormEstimate(b.n, func(x, y []float64) {
		tmp := make([]float64, b.k)
		b.g.Gemv(false, 1, x, 0, tmp)
		b.g.Gemv(true, 1, tmp, 0, y)
	}, basisSize)
	return
}

// ---- ipm.Factorizer ----

func (b *backend) BuildStatic(gammaX, gammaY, gammaZ float64) {
	b.gammaX, b.gammaY, b.gammaZ = gammaX, gammaY, gammaZ
	n, m, k := b.n, b.m, b.k

	var ri, ci []int
	var val []float64

	qr, qc, qv := tripletsOf(b.q, 0)
	ri, ci, val = append(ri, qr...), append(ci, qc...), append(val, qv...)
	for i := 0; i < n; i++ {
		ri, ci, val = append(ri, i), append(ci, i), append(val, gammaX)
	}

	ar, ac, av := tripletsOf(b.a, n)
	ri, ci, val = append(ri, ar...), append(ci, ac...), append(val, av...)
	for i := 0; i < m; i++ {
		ri, ci, val = append(ri, n+i), append(ci, n+i), append(val, -gammaY)
	}

	gr, gc, gv := tripletsOf(b.g, n+m)
	ri, ci, val = append(ri, gr...), append(ci, gc...), append(val, gv...)
	for i := 0; i < k; i++ {
		ri, ci, val = append(ri, n+m+i), append(ci, n+m+i), append(val, -gammaZ)
	}

	b.jOrig = sparseops.NewCSC(b.ntot, b.ntot, ri, ci, val)

	b.diagIdx = make([]int, b.ntot)
	for j := 0; j < b.ntot; j++ {
		b.diagIdx[j] = diagIndex(b.jOrig, j)
	}

	b.sym = ldl.NewSymbolic(b.jOrig)
	b.num = ldl.NewSparse(b.sym)
	b.regVal = make([]float64, len(b.jOrig.Val))
	b.regL = make([]float64, b.ntot)
}

func (b *backend) FinishKKT(s, z []float64) {
	n, m := b.n, b.m
	for i := 0; i < b.k; i++ {
		idx := b.diagIdx[n+m+i]
		b.jOrig.Val[idx] = -s[i]/z[i] - b.gammaZ
	}
}

func (b *backend) AddLargeReg(regL []float64) {
	copy(b.regL, regL)
	copy(b.regVal, b.jOrig.Val)
	for i := 0; i < b.ntot; i++ {
		b.regVal[b.diagIdx[i]] += b.regL[i]
	}
	b.dInner = nil
}

// EquilibrateInner runs up to iterations sweeps of symmetric Ruiz
// equilibration over the matrix AddLargeReg just assembled, scaling it in
// place as diag(d)*J*diag(d) and remembering d so Solve keeps solving the
// original, unscaled system. iterations <= 0 leaves the matrix untouched.
// b.regVal shares b.jOrig's sparsity pattern (ColPtr/RowIdx), only its
// numeric values differ, so that pattern is reused to recover each stored
// entry's (row, col) pair.
func (b *backend) EquilibrateInner(iterations int, tol float64) {
	if iterations <= 0 {
		return
	}
	n, norms := b.ntot, b.normScale
	d := make([]float64, n)
	for i := range d {
		d[i] = 1
	}
	for it := 0; it < iterations; it++ {
		for i := range norms {
			norms[i] = 0
		}
		for j := 0; j < n; j++ {
			for idx := b.jOrig.ColPtr[j]; idx < b.jOrig.ColPtr[j+1]; idx++ {
				i := b.jOrig.RowIdx[idx]
				v := math.Abs(b.regVal[idx])
				if v > norms[i] {
					norms[i] = v
				}
				if i != j && v > norms[j] {
					norms[j] = v
				}
			}
		}
		maxDev := 0.0
		for i, v := range norms {
			if v <= 0 {
				norms[i] = 1
				continue
			}
			norms[i] = 1 / math.Sqrt(v)
			if dv := math.Abs(v - 1); dv > maxDev {
				maxDev = dv
			}
		}
		for j := 0; j < n; j++ {
			for idx := b.jOrig.ColPtr[j]; idx < b.jOrig.ColPtr[j+1]; idx++ {
				i := b.jOrig.RowIdx[idx]
				b.regVal[idx] *= norms[i] * norms[j]
			}
		}
		for i := range d {
			d[i] *= norms[i]
		}
		if maxDev < tol {
			break
		}
	}
	b.dInner = d
}

func (b *backend) Factor(pivotTol float64) error {
	regCSC := &sparseops.CSC{Rows: b.jOrig.Rows, Cols: b.jOrig.Cols, ColPtr: b.jOrig.ColPtr, RowIdx: b.jOrig.RowIdx, Val: b.regVal}
	b.num.RefreshNumeric(regCSC)
	return b.num.FactorNumeric(pivotTol)
}

func (b *backend) Solve(rhs, delta []float64) {
	if b.dInner == nil {
		b.num.Solve(rhs, delta)
		return
	}
	scaled := b.solveTmp
	for i, dv := range b.dInner {
		scaled[i] = dv * rhs[i]
	}
	b.num.Solve(scaled, delta)
	for i, dv := range b.dInner {
		delta[i] *= dv
	}
}

func (b *backend) Residual(target ipm.KKTTarget, delta, rhs, out []float64) {
	ldl.ResidualSparse(b.jOrig, delta, rhs, out)
	if target == ipm.TargetRegularized {
		for i := range out {
			out[i] += b.regL[i] * delta[i]
		}
	}
}

// SolveLocal runs the predictor-corrector driver against sparse storage.
func SolveLocal(q, a, g *ipm.SparseMatrix, p *ipm.Problem, opts *ipm.Options, it *ipm.Iterate) (*ipm.Result, error) {
	be := newBackend(p.N, p.M, p.K, q, a, g)
	d, err := ipm.NewDriver(p, opts, be, be)
	if err != nil {
		return nil, err
	}
	return d.Run(it)
}
