// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipm

import "github.com/affinecone/ipm/equil"

// Ops is the linear-algebra capability set the driver needs from a
// concrete storage backend. A single driver is written once against Ops
// and Factorizer; ipm/dense, ipm/densedist, ipm/sparse and ipm/sparsedist
// each supply one pair of implementations.
type Ops interface {
	// StackedOperator lets the driver hand its Q/A/G storage straight to
	// the equilibrator without a second abstraction.
	equil.StackedOperator

	Dot(x, y []float64) float64
	Nrm2(x []float64) float64
	Axpy(alpha float64, x, y []float64)
	Scal(alpha float64, x []float64)
	Copy(dst, src []float64)

	// GemvA computes y = alpha*op(A)*x + beta*y; trans selects Aᵀ.
	GemvA(trans bool, alpha float64, x []float64, beta float64, y []float64)
	// GemvG computes y = alpha*op(G)*x + beta*y; trans selects Gᵀ.
	GemvG(trans bool, alpha float64, x []float64, beta float64, y []float64)
	// SymMulQ computes y = alpha*Q*x + beta*y, Q read through its lower
	// triangle.
	SymMulQ(alpha float64, x []float64, beta float64, y []float64)

	// NormEstimate returns power-iteration two-norm estimates of Q, A and G
	// using a Krylov basis of the given size.
	NormEstimate(basisSize int) (normQ, normA, normG float64)
}

// KKTTarget selects which variant of the saddle-point matrix a Factorizer
// residual check is computed against.
type KKTTarget int

const (
	// TargetOriginal is J_orig: the assembled KKT operator before large
	// dynamic regularization is added.
	TargetOriginal KKTTarget = iota
	// TargetRegularized is J_orig + diag(regL), the matrix actually
	// factored.
	TargetRegularized
)

// Factorizer assembles, factors and solves the regularized KKT
// saddle-point system. BuildStatic/FinishKKT/AddLargeReg correspond
// directly to the KKT Assembler's three mutation steps; Factor/Solve/
// Residual back the Linear Solver Facade's two-stage refinement.
type Factorizer interface {
	// BuildStatic constructs the structural/constant part of J — the
	// Q + γx·I, A, Aᵀ, G, Gᵀ and -γy·I, -γz·I blocks. The driver calls it
	// for the initializer's least-norm solve and again at the start of Run.
	BuildStatic(gammaX, gammaY, gammaZ float64)
	// FinishKKT writes the (3,3) block's -s/z diagonal, producing J_orig.
	FinishKKT(s, z []float64)
	// AddLargeReg adds regL (length n+m+k) on the diagonal of J_orig,
	// producing the matrix that Factor actually operates on.
	AddLargeReg(regL []float64)
	// EquilibrateInner optionally applies up to iterations sweeps of
	// symmetric Ruiz equilibration to the matrix AddLargeReg just
	// assembled, scaling it as diag(d)*J*diag(d) and absorbing d into
	// Solve so callers keep working in the original, unscaled space.
	// iterations <= 0 leaves the matrix untouched (the default, identity
	// scaling, path). tol stops the sweep early once the worst row/column
	// norm is within tol of 1.
	EquilibrateInner(iterations int, tol float64)
	// Factor computes the in-place LDLᵀ factorization of the regularized
	// matrix, failing with ldl.ErrSingular if a pivot underflows pivotTol.
	Factor(pivotTol float64) error
	// Solve computes delta = (LDLᵀ)⁻¹ rhs using the current factorization.
	Solve(rhs, delta []float64)
	// Residual computes out = M*delta - rhs for M selected by target,
	// without disturbing the factorization.
	Residual(target KKTTarget, delta, rhs, out []float64)
}
