// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package densedist runs the predictor-corrector driver against dense
// storage with Dot/Nrm2 computed as a sharded all-reduce across a simulated
// rank grid instead of a single local reduction, so the Mehrotra driver
// loop in ipm exercises the same code path whether or not it happens to be
// running distributed.
package densedist

import (
	"github.com/affinecone/ipm/internal/gridnet"
	denseops "github.com/affinecone/ipm/ipm/dense"
	"github.com/affinecone/ipm/ipm"
)

// SolveDistributed runs the solve with Dot and Nrm2 evaluated across ranks
// simulated goroutines. The KKT factorization itself is replicated on every
// rank rather than sharded, which is the scope decision recorded alongside
// this package in the design notes.
func SolveDistributed(q, a, g *ipm.DenseMatrix, p *ipm.Problem, opts *ipm.Options, it *ipm.Iterate, ranks int) (*ipm.Result, error) {
	be := denseops.NewLocalBackend(p.N, p.M, p.K, q, a, g)
	dist := &gridnet.DistOps{Ops: be, Grid: gridnet.NewGrid(ranks)}
	d, err := ipm.NewDriver(p, opts, dist, be)
	if err != nil {
		return nil, err
	}
	return d.Run(it)
}
