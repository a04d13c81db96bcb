// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipm

// refine runs up to maxIts sweeps of iterative refinement of delta against
// the KKT variant selected by target, using fac's persisted factorization
// for each correction solve. It returns the relative residual achieved,
// whether it met relTol, and how many sweeps ran.
func refine(ops Ops, fac Factorizer, target KKTTarget, rhs, delta []float64, maxIts int, relTol float64, resid, corr []float64) (achieved float64, ok bool, its int) {
	rhsNorm := 1 + ops.Nrm2(rhs)
	for it := 0; ; it++ {
		fac.Residual(target, delta, rhs, resid)
		rel := ops.Nrm2(resid) / rhsNorm
		if rel <= relTol {
			return rel, true, it
		}
		if it >= maxIts {
			return rel, false, it
		}
		ops.Scal(-1, resid)
		fac.Solve(resid, corr)
		ops.Axpy(1, corr, delta)
	}
}

// solveKKT implements the Linear Solver Facade's two-stage contract:
// factor once, then refine against the true (unregularized) J_orig; if
// that fails to reach SolveCtrl.RelTol and TwoStage is enabled, continue
// refining the same delta against the regularized matrix with a looser
// acceptance.
//
// TODO: on failure, retry the combined solve once with regL scaled by
// Options.RegEscalationFactor before giving up (not implemented — the
// current policy treats a failed two-stage refinement as terminal).
func solveKKT(ops Ops, fac Factorizer, rhs, delta []float64, opts *Options, resid, corr []float64) (achieved float64, ok bool, numRefine int) {
	fac.Solve(rhs, delta)

	achieved, ok, its := refine(ops, fac, TargetOriginal, rhs, delta, opts.SolveCtrl.MaxRefineIts, opts.SolveCtrl.RelTol, resid, corr)
	numRefine += its
	if ok || !opts.TwoStage {
		return achieved, ok, numRefine
	}

	achieved2, ok2, its2 := refine(ops, fac, TargetRegularized, rhs, delta, opts.SolveCtrl.MaxRefineIts, 10*opts.SolveCtrl.RelTol, resid, corr)
	numRefine += its2
	return achieved2, ok2, numRefine
}
