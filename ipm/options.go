// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipm

import (
	"errors"
	"math"
)

// CentralityRule computes the Mehrotra centering parameter σ from the
// current duality measure μ, the affine-step duality measure μAff, and the
// affine primal/dual step lengths.
type CentralityRule func(mu, muAff, alphaPAff, alphaDAff float64) float64

// MehrotraCentrality is the default centrality rule: σ = (μAff/μ)³ clipped
// to [0,1].
func MehrotraCentrality(mu, muAff, alphaPAff, alphaDAff float64) float64 {
	if mu <= 0 {
		return 1
	}
	r := muAff / mu
	sigma := r * r * r
	return math.Min(1, math.Max(0, sigma))
}

// SolveCtrl configures the iterative-refinement behavior of the linear
// solver facade.
type SolveCtrl struct {
	RelTol       float64 // relative residual tolerance to accept a solve
	MaxRefineIts int     // cap on refinement sweeps per stage
	Progress     bool    // accepted for configuration; not consulted by the current solver
}

// Options configures a single driver call. Fields left at their zero value
// are defaulted by Validate the way lbfgsb.Problem.New defaults Termination.
type Options struct {
	PrimalInit, DualInit bool
	StandardInitShift    float64

	OuterEquil      bool
	EquilIterations int // 0 = identity scaling, preserving the original's disabled default

	// InnerEquil gates a second, per-Newton-iteration equilibration pass
	// over the assembled, regularized KKT matrix (as opposed to OuterEquil's
	// single pass over [A;G] before the outer loop starts). It is keyed off
	// a Nesterov-Todd scaling estimate w=sqrt(s/z): the pass only runs once
	// wMaxNorm (the worst of w and 1/w across the cone) exceeds
	// InnerEquilTol, since a well-scaled complementarity pair needs no
	// extra conditioning help. Off (identity) by default.
	InnerEquil           bool
	InnerEquilIterations int     // 0 = a small default sweep count when InnerEquil is set
	InnerEquilTol        float64 // wMaxNorm threshold above which the pass activates

	MaxIts int

	InfeasibilityTol             float64
	RelativeComplementarityGapTol float64
	RelativeObjectiveGapTol      float64
	MinDimacsDecreaseRatio       float64

	MaxStepRatio   float64
	ForceSameStep  bool
	Mehrotra       bool
	CentralityRule CentralityRule

	XRegSmall, XRegLarge float64
	YRegSmall, YRegLarge float64
	ZRegSmall, ZRegLarge float64

	SolveCtrl SolveCtrl
	TwoStage  bool

	TwoNormKrylovBasisSize int

	Print          bool
	Time           bool
	CheckResiduals bool

	PlotPath string
	Logger   *Logger

	// RegEscalationFactor is reserved for a future retry policy (see
	// linsolve.go); it is not consulted by the current driver.
	RegEscalationFactor float64
}

// Validate fills in defaults and rejects inconsistent configuration,
// mirroring the validate-then-default pattern of lbfgsb.Problem.New.
func (o *Options) Validate() (*Options, error) {
	out := *o

	if out.StandardInitShift <= 0 {
		out.StandardInitShift = 1
	}
	if out.MaxIts <= 0 {
		out.MaxIts = 100
	}
	if out.InfeasibilityTol <= 0 {
		out.InfeasibilityTol = 1e-8
	}
	if out.RelativeComplementarityGapTol <= 0 {
		out.RelativeComplementarityGapTol = 1e-8
	}
	if out.RelativeObjectiveGapTol <= 0 {
		out.RelativeObjectiveGapTol = 1e-8
	}
	if out.MinDimacsDecreaseRatio <= 0 {
		out.MinDimacsDecreaseRatio = 0.9999
	}
	if out.MaxStepRatio <= 0 || out.MaxStepRatio > 1 {
		out.MaxStepRatio = 0.99
	}
	if out.CentralityRule == nil {
		out.CentralityRule = MehrotraCentrality
	}
	if out.XRegSmall <= 0 {
		out.XRegSmall = 1e-12
	}
	if out.YRegSmall <= 0 {
		out.YRegSmall = 1e-12
	}
	if out.ZRegSmall <= 0 {
		out.ZRegSmall = 1e-12
	}
	if out.XRegLarge <= 0 {
		out.XRegLarge = 1e-7
	}
	if out.YRegLarge <= 0 {
		out.YRegLarge = 1e-7
	}
	if out.ZRegLarge <= 0 {
		out.ZRegLarge = 1e-7
	}
	if out.SolveCtrl.RelTol <= 0 {
		out.SolveCtrl.RelTol = 1e-10
	}
	if out.SolveCtrl.MaxRefineIts <= 0 {
		out.SolveCtrl.MaxRefineIts = 8
	}
	if out.TwoNormKrylovBasisSize <= 0 {
		out.TwoNormKrylovBasisSize = 8
	}
	if out.RegEscalationFactor <= 0 {
		out.RegEscalationFactor = 10
	}
	out.Logger = defaultLogger(out.Logger)

	if out.EquilIterations < 0 {
		return nil, errors.New("ipm: EquilIterations must be non-negative")
	}
	if out.InnerEquilIterations < 0 {
		return nil, errors.New("ipm: InnerEquilIterations must be non-negative")
	}
	if out.InnerEquil && out.InnerEquilIterations == 0 {
		out.InnerEquilIterations = 3
	}
	if out.InnerEquilTol <= 0 {
		out.InnerEquilTol = 1e2
	}

	return &out, nil
}
