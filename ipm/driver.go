// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipm

import (
	"math"
	"time"

	"github.com/affinecone/ipm/equil"
	"github.com/affinecone/ipm/internal/diagplot"
)

// Driver runs the Mehrotra predictor-corrector loop against a concrete
// Ops/Factorizer pair. It is built once per Solve call by a dispatch
// package (ipm/dense, ipm/sparse, ...) and is not reused across calls.
type Driver struct {
	problem *Problem
	options *Options
	ops     Ops
	fac     Factorizer
	w       *workspace
}

// NewDriver assembles a Driver for the given problem, validated options and
// storage-backend collaborators.
func NewDriver(problem *Problem, options *Options, ops Ops, fac Factorizer) (*Driver, error) {
	opts, err := options.Validate()
	if err != nil {
		return nil, err
	}
	return &Driver{
		problem: problem,
		options: opts,
		ops:     ops,
		fac:     fac,
		w:       newWorkspace(problem.N, problem.M, problem.K),
	}, nil
}

// Run executes the driver against it, which carries any caller-supplied
// warm start and is overwritten in place with the final iterate.
func (d *Driver) Run(it *Iterate) (*Result, error) {
	p, opts, ops, fac, w := d.problem, d.options, d.ops, d.fac, d.w
	n, m, k := p.N, p.M, p.K
	log := opts.Logger

	scales := equil.Identity(m, k, n)
	if opts.OuterEquil {
		scales = equil.Ruiz(ops, m, k, n, opts.EquilIterations, 1e-6)
		scales.ScaleRHS(p.B, p.C, p.H)
		if opts.PrimalInit || opts.DualInit {
			x, y, z, s := nilIfNot(opts.PrimalInit, it.X), nilIfNot(opts.DualInit, it.Y), nilIfNot(opts.DualInit, it.Z), nilIfNot(opts.PrimalInit, it.S)
			scales.ScaleWarmStart(x, y, z, s)
		}
	}

	if !(opts.PrimalInit && opts.DualInit) {
		tmp := &Iterate{X: make([]float64, n), Y: make([]float64, m), Z: make([]float64, k), S: make([]float64, k)}
		if err := initialize(ops, fac, p, opts, w, tmp); err != nil {
			return nil, err
		}
		if !opts.PrimalInit {
			copy(it.X, tmp.X)
			copy(it.S, tmp.S)
		}
		if !opts.DualInit {
			copy(it.Y, tmp.Y)
			copy(it.Z, tmp.Z)
		}
	}

	fac.BuildStatic(opts.XRegSmall, opts.YRegSmall, opts.ZRegSmall)

	normQ, normA, normG := ops.NormEstimate(opts.TwoNormKrylovBasisSize)
	twoNormEst := normQ + normA + normG + 1

	var start time.Time
	if opts.Time {
		start = time.Now()
	}

	summary := Summary{}
	var dim Dimacs
	prevDimacs := math.Inf(1)
	var trend []diagplot.Point

	status := StatusExceededIterations
	var termErr error

outer:
	for iter := 0; iter <= opts.MaxIts; iter++ {
		summary.NumIter = iter

		minS, minZ := math.Inf(1), math.Inf(1)
		for i := 0; i < k; i++ {
			minS = math.Min(minS, it.S[i])
			minZ = math.Min(minZ, it.Z[i])
		}
		if k > 0 && (minS <= 0 || minZ <= 0) {
			termErr = &ConeViolation{Iter: iter, MinSlack: minS, MinConicZ: minZ}
			status = StatusConeViolation
			break outer
		}

		mu := 0.0
		if k > 0 {
			mu = ops.Dot(it.S, it.Z) / float64(k)
		}

		residuals(ops, p, it, w)
		ops.SymMulQ(1, it.X, 0, w.qx)
		xQx := ops.Dot(it.X, w.qx)
		primObj := 0.5*xQx + ops.Dot(p.C, it.X)
		dualObj := -0.5*xQx - ops.Dot(p.B, it.Y) - ops.Dot(p.H, it.Z)

		rbConv := ops.Nrm2(w.rb) / (1 + ops.Nrm2(p.B))
		rcConv := ops.Nrm2(w.rc) / (1 + ops.Nrm2(p.C))
		rhConv := ops.Nrm2(w.rh) / (1 + ops.Nrm2(p.H))

		relObjGap := math.Abs(primObj-dualObj) / (math.Max(math.Abs(primObj), math.Abs(dualObj)) + 1)
		sz := 0.0
		for i := 0; i < k; i++ {
			sz += it.S[i] * it.Z[i]
		}
		var relCompGap float64
		switch {
		case primObj < 0:
			relCompGap = sz / -primObj
		case dualObj > 0:
			relCompGap = sz / dualObj
		default:
			relCompGap = 2
		}
		infeasError := math.Max(rbConv, math.Max(rcConv, rhConv))
		maxRelGap := math.Max(relObjGap, relCompGap)
		dimacsErr := math.Max(infeasError, maxRelGap)

		dim = Dimacs{
			RbConv: rbConv, RcConv: rcConv, RhConv: rhConv,
			RelObjGap: relObjGap, RelCompGap: relCompGap,
			InfeasError: infeasError, DimacsError: dimacsErr,
			PrimalObj: primObj, DualObj: dualObj, Mu: mu,
		}

		metTol := infeasError <= opts.InfeasibilityTol &&
			relCompGap <= opts.RelativeComplementarityGapTol &&
			relObjGap <= opts.RelativeObjectiveGapTol

		if log.enable(LogIteration) {
			log.log("iter %3d  mu=%.3e  dimacsErr=%.3e  primObj=%.6e  dualObj=%.6e\n", iter, mu, dimacsErr, primObj, dualObj)
		}
		if log.enable(LogVerbose) {
			log.log("  x=%v\n  y=%v\n  z=%v\n  s=%v\n", it.X, it.Y, it.Z, it.S)
		}
		if opts.Print && opts.PlotPath != "" {
			trend = append(trend, diagplot.Point{Iter: iter, Mu: mu, DimacsError: dimacsErr})
		}

		if metTol && dimacsErr >= opts.MinDimacsDecreaseRatio*prevDimacs {
			status = StatusStagnatedAtTolerance
			break outer
		}
		if iter == opts.MaxIts {
			if metTol {
				status = StatusConverged
			} else {
				termErr = &ExceededIterations{MaxIts: opts.MaxIts, DimacsError: dimacsErr, InfeasError: infeasError, RelCompGap: relCompGap, RelObjGap: relObjGap}
				status = StatusExceededIterations
			}
			break outer
		}

		// step 6: affine solve
		fac.FinishKKT(it.S, it.Z)
		fillRegL(w.regL, n, m, k, twoNormEst*opts.XRegLarge, twoNormEst*opts.YRegLarge, twoNormEst*opts.ZRegLarge)
		fac.AddLargeReg(w.regL)
		if opts.InnerEquil {
			fac.EquilibrateInner(innerEquilIterations(k, it.S, it.Z, opts.InnerEquilTol, opts.InnerEquilIterations), 1e-2)
		}
		if err := fac.Factor(1e-13); err != nil {
			if metTol {
				status = StatusConverged
				break outer
			}
			termErr = &SolveFailure{Iter: iter, Stage: "affine-factor", DimacsError: dimacsErr}
			status = StatusSolveFailure
			break outer
		}

		buildRHS(n, m, k, w.rc, w.rb, w.rh, w.rmu, it.Z, it.X, it.Y, it.Z, opts.XRegSmall, opts.YRegSmall, opts.ZRegSmall, w.rhs)
		achieved, ok, nref := solveKKT(ops, fac, w.rhs, w.delta, opts, w.resid, w.corr)
		summary.NumRefine += nref
		if opts.Print && opts.CheckResiduals {
			log.log("  affine refine achieved=%.3e\n", achieved)
		}
		if !ok {
			if metTol {
				status = StatusConverged
				break outer
			}
			termErr = &SolveFailure{Iter: iter, Stage: "affine", Achieved: achieved, RelTol: opts.SolveCtrl.RelTol, DimacsError: dimacsErr}
			status = StatusSolveFailure
			break outer
		}
		expandDirection(n, m, k, w.delta, w.rmu, it.S, it.Z, w.dxA, w.dyA, w.dzA, w.dsA)

		// step 7: centrality
		alphaPAff := maxStep(it.S, w.dsA, 1)
		alphaDAff := maxStep(it.Z, w.dzA, 1)
		if opts.ForceSameStep {
			alphaPAff = math.Min(alphaPAff, alphaDAff)
			alphaDAff = alphaPAff
		}
		muAff := 0.0
		if k > 0 {
			for i := 0; i < k; i++ {
				muAff += (it.S[i] + alphaPAff*w.dsA[i]) * (it.Z[i] + alphaDAff*w.dzA[i])
			}
			muAff /= float64(k)
		}
		sigma := opts.CentralityRule(mu, muAff, alphaPAff, alphaDAff)

		// step 8: combined solve
		for i := 0; i < k; i++ {
			w.rmu[i] = it.S[i]*it.Z[i] - sigma*mu
			if opts.Mehrotra {
				w.rmu[i] += w.dsA[i] * w.dzA[i]
			}
		}
		buildRHS(n, m, k, w.rc, w.rb, w.rh, w.rmu, it.Z, it.X, it.Y, it.Z, opts.XRegSmall, opts.YRegSmall, opts.ZRegSmall, w.rhs)
		achieved, ok, nref = solveKKT(ops, fac, w.rhs, w.delta, opts, w.resid, w.corr)
		summary.NumRefine += nref
		if opts.Print && opts.CheckResiduals {
			log.log("  combined refine achieved=%.3e\n", achieved)
		}
		if !ok {
			if metTol {
				status = StatusConverged
				break outer
			}
			termErr = &SolveFailure{Iter: iter, Stage: "combined", Achieved: achieved, RelTol: opts.SolveCtrl.RelTol, DimacsError: dimacsErr}
			status = StatusSolveFailure
			break outer
		}
		expandDirection(n, m, k, w.delta, w.rmu, it.S, it.Z, w.dx, w.dy, w.dz, w.ds)

		// step 9: step lengths and update
		stepCap := 1 / opts.MaxStepRatio
		alphaP := math.Min(1, opts.MaxStepRatio*maxStep(it.S, w.ds, stepCap))
		alphaD := math.Min(1, opts.MaxStepRatio*maxStep(it.Z, w.dz, stepCap))
		if opts.ForceSameStep {
			alphaP = math.Min(alphaP, alphaD)
			alphaD = alphaP
		}

		ops.Axpy(alphaP, w.dx, it.X)
		ops.Axpy(alphaP, w.ds, it.S)
		ops.Axpy(alphaD, w.dy, it.Y)
		ops.Axpy(alphaD, w.dz, it.Z)

		if alphaP == 0 && alphaD == 0 {
			if metTol {
				status = StatusConverged
			} else {
				termErr = &Stalled{Iter: iter, DimacsError: dimacsErr}
				status = StatusStalled
			}
			break outer
		}

		prevDimacs = dimacsErr
	}

	if opts.OuterEquil {
		scales.Unscale(it.X, it.Y, it.Z, it.S)
	}

	ok := status == StatusConverged || status == StatusStagnatedAtTolerance
	summary.Status = status

	if opts.Print && log.enable(LogLast) {
		log.log("terminated: %s after %d iterations (%d refine sweeps)\n", status, summary.NumIter, summary.NumRefine)
	}
	if opts.Time && log.enable(LogLast) {
		log.log("elapsed: %s\n", time.Since(start))
	}
	if opts.Print && opts.PlotPath != "" && len(trend) > 0 {
		_ = diagplot.Plot(opts.PlotPath, trend)
	}

	res := &Result{
		OK: ok, X: it.X, Y: it.Y, Z: it.Z, S: it.S,
		Summary: summary, Dimacs: dim,
	}
	return res, termErr
}

func maxStep(v, dv []float64, capAlpha float64) float64 {
	alpha := capAlpha
	for i := range v {
		if dv[i] < 0 {
			a := -v[i] / dv[i]
			if a < alpha {
				alpha = a
			}
		}
	}
	if alpha < 0 {
		alpha = 0
	}
	return alpha
}

func fillRegL(regL []float64, n, m, k int, xReg, yReg, zReg float64) {
	for i := 0; i < n; i++ {
		regL[i] = xReg
	}
	for i := 0; i < m; i++ {
		regL[n+i] = -yReg
	}
	for i := 0; i < k; i++ {
		regL[n+m+i] = -zReg
	}
}

// innerEquilIterations gates the per-iteration KKT equilibration pass on
// how skewed the current complementarity pair is. w=sqrt(s/z) is the
// Nesterov-Todd scaling the cone's primal and dual slacks would need to
// look identical; wMaxNorm is the worst of w and 1/w across the cone, so it
// is 1 exactly when s and z already agree up to scale and grows without
// bound as they diverge. Below tol the KKT matrix is already well enough
// conditioned that equilibrating it would just add refinement cost for no
// accuracy gain, so the pass is skipped (iterations returns 0, identity).
func innerEquilIterations(k int, s, z []float64, tol float64, iterations int) int {
	wMaxNorm := 1.0
	for i := 0; i < k; i++ {
		w := math.Sqrt(s[i] / z[i])
		if w > wMaxNorm {
			wMaxNorm = w
		}
		if inv := 1 / w; inv > wMaxNorm {
			wMaxNorm = inv
		}
	}
	if wMaxNorm < tol {
		return 0
	}
	return iterations
}

func nilIfNot(ok bool, v []float64) []float64 {
	if ok {
		return v
	}
	return nil
}
