// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipm

// Iterate is the primal/dual point carried across outer iterations.
type Iterate struct {
	X []float64 // length N
	Y []float64 // length M
	Z []float64 // length K, strictly positive
	S []float64 // length K, strictly positive
}

// Dimacs is the DIMACS-style convergence report computed at the start of
// every outer iteration.
type Dimacs struct {
	RbConv, RcConv, RhConv float64
	RelObjGap, RelCompGap  float64
	InfeasError            float64
	DimacsError            float64
	PrimalObj, DualObj     float64
	Mu                     float64
}

// Status enumerates the final state of a driver call.
type Status int

const (
	StatusConverged Status = iota
	StatusStagnatedAtTolerance
	StatusExceededIterations
	StatusStalled
	StatusSolveFailure
	StatusConeViolation
)

func (s Status) String() string {
	switch s {
	case StatusConverged:
		return "converged"
	case StatusStagnatedAtTolerance:
		return "stagnated-at-tolerance"
	case StatusExceededIterations:
		return "exceeded-iterations"
	case StatusStalled:
		return "stalled"
	case StatusSolveFailure:
		return "solve-failure"
	case StatusConeViolation:
		return "cone-violation"
	default:
		return "unknown"
	}
}

// Summary reports how the driver finished.
type Summary struct {
	Status    Status
	NumIter   int
	NumRefine int
}

// Result is the outcome of a driver call.
type Result struct {
	OK bool
	X  []float64
	Y  []float64
	Z  []float64
	S  []float64
	Summary
	Dimacs Dimacs
}

// workspace holds every scratch buffer the hot loop touches, allocated once
// and reused for the whole call — mirroring lbfgsb.Workspace's "allocate in
// Init, reuse for the whole Fit call" discipline.
type workspace struct {
	n, m, k int

	rb, rc, rh, rmu []float64

	dxA, dyA, dzA, dsA []float64 // affine direction
	dx, dy, dz, ds     []float64 // combined direction

	rhs   []float64 // packed KKT right-hand side, length n+m+k
	delta []float64 // packed KKT solution, length n+m+k
	resid []float64 // refinement scratch, length n+m+k
	corr  []float64 // refinement scratch, length n+m+k

	regL []float64 // large dynamic regularization, length n+m+k

	qx, tmpN []float64
	tmpM     []float64
	tmpK1    []float64
	tmpK2    []float64
}

func newWorkspace(n, m, k int) *workspace {
	return &workspace{
		n: n, m: m, k: k,
		rb: make([]float64, m), rc: make([]float64, n), rh: make([]float64, k), rmu: make([]float64, k),
		dxA: make([]float64, n), dyA: make([]float64, m), dzA: make([]float64, k), dsA: make([]float64, k),
		dx: make([]float64, n), dy: make([]float64, m), dz: make([]float64, k), ds: make([]float64, k),
		rhs: make([]float64, n+m+k), delta: make([]float64, n+m+k),
		resid: make([]float64, n+m+k), corr: make([]float64, n+m+k),
		regL: make([]float64, n+m+k),
		qx:   make([]float64, n), tmpN: make([]float64, n),
		tmpM:  make([]float64, m),
		tmpK1: make([]float64, k), tmpK2: make([]float64, k),
	}
}
