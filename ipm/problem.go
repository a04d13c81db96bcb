// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipm

import "errors"

// Problem carries the storage-independent shape and dense right-hand-side
// vectors of a conic QP pair. Q, A and G themselves are not held here —
// they are reached only through the Ops capability a dispatch package
// (ipm/dense, ipm/sparse, ...) builds around its own storage, so this type
// stays identical across every storage backend.
//
//	primal: minimize   ½xᵀQx + cᵀx   s.t.  Ax = b,  Gx + s = h,  s ≥ 0
type Problem struct {
	N, M, K int       // primal, equality, conic dimensions
	B       []float64 // length M
	C       []float64 // length N
	H       []float64 // length K
}

// New validates the shapes and returns a ready-to-use Problem.
func New(n, m, k int, b, c, h []float64) (*Problem, error) {
	switch {
	case n <= 0:
		return nil, errors.New("ipm: problem dimension n must be positive")
	case m < 0 || k < 0:
		return nil, errors.New("ipm: m and k must be non-negative")
	case len(b) != m:
		return nil, errors.New("ipm: len(b) must equal m")
	case len(c) != n:
		return nil, errors.New("ipm: len(c) must equal n")
	case len(h) != k:
		return nil, errors.New("ipm: len(h) must equal k")
	}
	return &Problem{N: n, M: m, K: k, B: b, C: c, H: h}, nil
}
