// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipm

import "fmt"

// ConeViolation is raised when s or z has a non-positive entry at the start
// of an outer iteration. Always fatal.
type ConeViolation struct {
	Iter      int
	MinSlack  float64
	MinConicZ float64
}

func (e *ConeViolation) Error() string {
	return fmt.Sprintf("ipm: cone violation at iteration %d (min(s)=%g, min(z)=%g)", e.Iter, e.MinSlack, e.MinConicZ)
}

// SolveFailure is raised when the KKT factorization failed, or the linear
// solver facade could not reach the requested relative tolerance for the
// affine or combined direction, before tolerances had already been met.
type SolveFailure struct {
	Iter        int
	Stage       string // "affine-factor", "affine" or "combined"
	Achieved    float64
	RelTol      float64
	DimacsError float64
}

func (e *SolveFailure) Error() string {
	return fmt.Sprintf("ipm: %s solve failed to reach tolerance at iteration %d (achieved=%g, want=%g, dimacsError=%g)",
		e.Stage, e.Iter, e.Achieved, e.RelTol, e.DimacsError)
}

// Stalled is raised when both step lengths collapse to zero while
// tolerances remain unmet.
type Stalled struct {
	Iter        int
	DimacsError float64
}

func (e *Stalled) Error() string {
	return fmt.Sprintf("ipm: stalled at iteration %d, both step lengths are zero (dimacsError=%g)", e.Iter, e.DimacsError)
}

// ExceededIterations is raised when MaxIts is reached without satisfying
// the convergence gate.
type ExceededIterations struct {
	MaxIts      int
	DimacsError float64
	InfeasError float64
	RelCompGap  float64
	RelObjGap   float64
}

func (e *ExceededIterations) Error() string {
	return fmt.Sprintf("ipm: exceeded %d iterations without meeting tolerance (dimacsError=%g, infeasError=%g, relCompGap=%g, relObjGap=%g)",
		e.MaxIts, e.DimacsError, e.InfeasError, e.RelCompGap, e.RelObjGap)
}
