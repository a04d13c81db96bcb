// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gridnet

import (
	"math"

	"github.com/affinecone/ipm/ipm"
)

// DistOps decorates a local ipm.Ops so that Dot and Nrm2 — the two
// reductions whose result must agree bit-for-bit across every simulated
// rank — are computed as a shard-and-allreduce collective over Grid
// instead of a single local pass. Every other Ops method (matrix-vector
// products, row/column scaling, norm estimates) is promoted straight
// through to the wrapped Ops. The Factorizer is not part of DistOps: the
// caller hands the local backend to the driver as its Factorizer, so the
// KKT system is assembled and factored replicated rather than sharded.
type DistOps struct {
	ipm.Ops
	Grid *Grid
}

func (d *DistOps) Dot(x, y []float64) float64 {
	n := len(x)
	return d.Grid.AllReduce(func(r int) float64 {
		lo, hi := ShardRange(n, d.Grid.Ranks, r)
		if lo == hi {
			return 0
		}
		return d.Ops.Dot(x[lo:hi], y[lo:hi])
	}, Sum, 0)
}

func (d *DistOps) Nrm2(x []float64) float64 {
	n := len(x)
	sumSq := d.Grid.AllReduce(func(r int) float64 {
		lo, hi := ShardRange(n, d.Grid.Ranks, r)
		if lo == hi {
			return 0
		}
		return d.Ops.Dot(x[lo:hi], x[lo:hi])
	}, Sum, 0)
	return math.Sqrt(sumSq)
}
