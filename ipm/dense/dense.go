// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dense supplies the local dense Ops/Factorizer pair the ipm
// driver runs against when Q, A and G are given as contiguous column-major
// buffers.
package dense

import (
	"math"

	"github.com/affinecone/ipm/internal/blasops"
	"github.com/affinecone/ipm/internal/ldl"
	"github.com/affinecone/ipm/ipm"
)

// backend implements both ipm.Ops and ipm.Factorizer over dense
// column-major storage, sharing the same Q, A, G buffers between the two
// roles so equilibration (which mutates Q, A, G through Ops) is visible to
// the next KKT assembly (which reads them through Factorizer.BuildStatic).
type backend struct {
	n, m, k int
	q, a, g *ipm.DenseMatrix

	gammaX, gammaY, gammaZ float64
	ntot                   int
	jOrig                  []float64 // ntot×ntot column-major, lower triangle significant
	regL                   []float64 // length ntot, diagonal regularization from AddLargeReg
	factorBuf              []float64 // scratch Factor operates on in place
	fac                    *ldl.Dense

	dInner    []float64 // symmetric inner-equilibration scale, nil when disabled this iteration
	solveTmp  []float64 // scratch for Solve's scale/unscale, length ntot
	normScale []float64 // scratch for EquilibrateInner, length ntot
}

// Backend is the combined Ops+Factorizer contract a dense backend value
// satisfies, exported so ipm/densedist can wrap just the Ops half with a
// distributed Dot/Nrm2 decorator while passing the same value through as
// the Factorizer.
type Backend interface {
	ipm.Ops
	ipm.Factorizer
}

// NewLocalBackend builds a dense Ops+Factorizer pair over q, a, g.
func NewLocalBackend(n, m, k int, q, a, g *ipm.DenseMatrix) Backend {
	return newBackend(n, m, k, q, a, g)
}

func newBackend(n, m, k int, q, a, g *ipm.DenseMatrix) *backend {
	ntot := n + m + k
	b := &backend{
		n: n, m: m, k: k, q: q, a: a, g: g,
		ntot: ntot,
		jOrig: make([]float64, ntot*ntot), regL: make([]float64, ntot),
		factorBuf: make([]float64, ntot*ntot),
		solveTmp:  make([]float64, ntot), normScale: make([]float64, ntot),
	}
	b.fac = ldl.NewDense(ntot, b.factorBuf)
	return b
}

// ---- ipm.Ops ----

func (b *backend) RowInfNorms() []float64 {
	out := make([]float64, b.m+b.k)
	rowInfNormsInto(out[:b.m], b.a)
	rowInfNormsInto(out[b.m:], b.g)
	return out
}

func rowInfNormsInto(out []float64, mat *ipm.DenseMatrix) {
	rows, cols := mat.Rows, mat.Cols
	for j := 0; j < cols; j++ {
		col := mat.Data[j*rows : j*rows+rows]
		for i := 0; i < rows; i++ {
			v := col[i]
			if v < 0 {
				v = -v
			}
			if v > out[i] {
				out[i] = v
			}
		}
	}
}

func (b *backend) ColInfNorms() []float64 {
	out := make([]float64, b.n)
	colInfNormsInto(out, b.a)
	colInfNormsInto(out, b.g)
	colInfNormsInto(out, b.q)
	return out
}

func colInfNormsInto(out []float64, mat *ipm.DenseMatrix) {
	rows, cols := mat.Rows, mat.Cols
	for j := 0; j < cols && j < len(out); j++ {
		col := mat.Data[j*rows : j*rows+rows]
		mx := 0.0
		for _, v := range col {
			if v < 0 {
				v = -v
			}
			if v > mx {
				mx = v
			}
		}
		if mx > out[j] {
			out[j] = mx
		}
	}
}

func (b *backend) ScaleRows(dA, dG []float64) {
	blasops.DiagScaleRows(b.m, b.n, dA, b.a.Data, b.m)
	blasops.DiagScaleRows(b.k, b.n, dG, b.g.Data, b.k)
}

func (b *backend) ScaleCols(d []float64) {
	blasops.DiagScaleCols(b.m, b.n, d, b.a.Data, b.m)
	blasops.DiagScaleCols(b.k, b.n, d, b.g.Data, b.k)
	blasops.DiagScaleRows(b.n, b.n, d, b.q.Data, b.n)
	blasops.DiagScaleCols(b.n, b.n, d, b.q.Data, b.n)
}

func (b *backend) Dot(x, y []float64) float64  { return blasops.Ddot(len(x), x, 1, y, 1) }
func (b *backend) Nrm2(x []float64) float64    { return blasops.Dnrm2(len(x), x, 1) }
func (b *backend) Axpy(alpha float64, x, y []float64) { blasops.Daxpy(len(x), alpha, x, 1, y, 1) }
func (b *backend) Scal(alpha float64, x []float64)    { blasops.Dscal(len(x), alpha, x, 1) }
func (b *backend) Copy(dst, src []float64)            { blasops.Dcopy(len(src), src, 1, dst, 1) }

func (b *backend) GemvA(trans bool, alpha float64, x []float64, beta float64, y []float64) {
	gemv(trans, b.a, alpha, x, beta, y)
}

func (b *backend) GemvG(trans bool, alpha float64, x []float64, beta float64, y []float64) {
	gemv(trans, b.g, alpha, x, beta, y)
}

func gemv(trans bool, mat *ipm.DenseMatrix, alpha float64, x []float64, beta float64, y []float64) {
	t := blasops.NoTrans
	if trans {
		t = blasops.Trans2
	}
	blasops.Gemv(t, mat.Rows, mat.Cols, alpha, mat.Data, mat.Rows, x, 1, beta, y, 1)
}

func (b *backend) SymMulQ(alpha float64, x []float64, beta float64, y []float64) {
	blasops.SymvLower(b.n, alpha, b.q.Data, b.n, x, 1, beta, y, 1)
}

func (b *backend) NormEstimate(basisSize int) (normQ, normA, normG float64) {
	normQ = ipm.PowerNormEstimate(b.n, func(x, y []float64) {
		tmp := make([]float64, b.n)
		blasops.SymvLower(b.n, 1, b.q.Data, b.n, x, 1, 0, tmp, 1)
		blasops.SymvLower(b.n, 1, b.q.Data, b.n, tmp, 1, 0, y, 1)
	}, basisSize)
	normA = ipm.PowerNormEstimate(b.n, func(x, y []float64) {
		tmp := make([]float64, b.m)
		gemv(false, b.a, 1, x, 0, tmp)
		gemv(true, b.a, 1, tmp, 0, y)
	}, basisSize)
	normG = ipm.PowerNormEstimate(b.n, func(x, y []float64) {
		tmp := make([]float64, b.k)
		gemv(false, b.g, 1, x, 0, tmp)
		gemv(true, b.g, 1, tmp, 0, y)
	}, basisSize)
	return
}

// ---- ipm.Factorizer ----

func (b *backend) BuildStatic(gammaX, gammaY, gammaZ float64) {
	b.gammaX, b.gammaY, b.gammaZ = gammaX, gammaY, gammaZ
	for i := range b.jOrig {
		b.jOrig[i] = 0
	}
	n, m, k, ntot := b.n, b.m, b.k, b.ntot

	// (1,1): Q + γx·I (lower triangle)
	for j := 0; j < n; j++ {
		for i := j; i < n; i++ {
			b.jOrig[j*ntot+i] = b.q.Data[j*n+i]
		}
		b.jOrig[j*ntot+j] += gammaX
	}
	// (2,1): A
	for j := 0; j < n; j++ {
		for i := 0; i < m; i++ {
			b.jOrig[j*ntot+(n+i)] = b.a.Data[j*m+i]
		}
	}
	// (3,1): G
	for j := 0; j < n; j++ {
		for i := 0; i < k; i++ {
			b.jOrig[j*ntot+(n+m+i)] = b.g.Data[j*k+i]
		}
	}
	// (2,2): -γy·I
	for i := 0; i < m; i++ {
		b.jOrig[(n+i)*ntot+(n+i)] = -gammaY
	}
	// (3,3) diagonal is written per-iteration by FinishKKT.
}

func (b *backend) FinishKKT(s, z []float64) {
	n, m, ntot := b.n, b.m, b.ntot
	for i := 0; i < b.k; i++ {
		idx := n + m + i
		b.jOrig[idx*ntot+idx] = -s[i]/z[i] - b.gammaZ
	}
}

func (b *backend) AddLargeReg(regL []float64) {
	copy(b.regL, regL)
	copy(b.factorBuf, b.jOrig)
	for i := 0; i < b.ntot; i++ {
		b.factorBuf[i*b.ntot+i] += b.regL[i]
	}
	b.dInner = nil
}

// EquilibrateInner runs up to iterations sweeps of symmetric Ruiz
// equilibration over the matrix AddLargeReg just assembled, scaling it in
// place as diag(d)*J*diag(d) and remembering d so Solve keeps solving the
// original, unscaled system. iterations <= 0 leaves the matrix untouched.
func (b *backend) EquilibrateInner(iterations int, tol float64) {
	if iterations <= 0 {
		return
	}
	n, buf, norms := b.ntot, b.factorBuf, b.normScale
	d := make([]float64, n)
	for i := range d {
		d[i] = 1
	}
	for it := 0; it < iterations; it++ {
		for i := range norms {
			norms[i] = 0
		}
		for j := 0; j < n; j++ {
			for i := j; i < n; i++ {
				v := math.Abs(buf[j*n+i])
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
			for i := j; i < n; i++ {
				buf[j*n+i] *= norms[i] * norms[j]
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
	return b.fac.Factor(pivotTol)
}

func (b *backend) Solve(rhs, delta []float64) {
	if b.dInner == nil {
		b.fac.Solve(rhs, delta)
		return
	}
	scaled := b.solveTmp
	for i, dv := range b.dInner {
		scaled[i] = dv * rhs[i]
	}
	b.fac.Solve(scaled, delta)
	for i, dv := range b.dInner {
		delta[i] *= dv
	}
}

func (b *backend) Residual(target ipm.KKTTarget, delta, rhs, out []float64) {
	ldl.Residual(b.ntot, b.jOrig, delta, rhs, out)
	if target == ipm.TargetRegularized {
		for i := range out {
			out[i] += b.regL[i] * delta[i]
		}
	}
}

// SolveLocal runs the predictor-corrector driver against dense storage.
func SolveLocal(q, a, g *ipm.DenseMatrix, p *ipm.Problem, opts *ipm.Options, it *ipm.Iterate) (*ipm.Result, error) {
	be := newBackend(p.N, p.M, p.K, q, a, g)
	d, err := ipm.NewDriver(p, opts, be, be)
	if err != nil {
		return nil, err
	}
	return d.Run(it)
}
