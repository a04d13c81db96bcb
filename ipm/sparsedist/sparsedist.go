// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sparsedist runs the predictor-corrector driver against sparse
// storage with Dot/Nrm2 computed as a sharded all-reduce across a simulated
// rank grid instead of a single local reduction.
package sparsedist

import (
	"github.com/affinecone/ipm/internal/gridnet"
	"github.com/affinecone/ipm/ipm"
	sparseops "github.com/affinecone/ipm/ipm/sparse"
)

// SolveDistributed runs the solve with Dot and Nrm2 evaluated across ranks
// simulated goroutines. The KKT factorization itself is replicated on every
// rank rather than sharded, matching ipm/densedist's scope decision.
func SolveDistributed(q, a, g *ipm.SparseMatrix, p *ipm.Problem, opts *ipm.Options, it *ipm.Iterate, ranks int) (*ipm.Result, error) {
	be := sparseops.NewLocalBackend(p.N, p.M, p.K, q, a, g)
	dist := &gridnet.DistOps{Ops: be, Grid: gridnet.NewGrid(ranks)}
	d, err := ipm.NewDriver(p, opts, dist, be)
	if err != nil {
		return nil, err
	}
	return d.Run(it)
}
