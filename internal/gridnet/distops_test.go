// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gridnet

import (
	"math"
	"testing"

	"github.com/affinecone/ipm/ipm"
	"github.com/affinecone/ipm/ipm/dense"
)

func newTestOps() ipm.Ops {
	n := 1
	q := ipm.NewDenseMatrix(n, n)
	a := ipm.NewDenseMatrix(0, n)
	g := ipm.NewDenseMatrix(0, n)
	return dense.NewLocalBackend(n, 0, 0, q, a, g)
}

// TestDistOpsDotAgreesWithLocal checks that sharding a dot product across
// 1, 2 and 4 simulated ranks reproduces the single-pass local result to
// floating-point tolerance.
func TestDistOpsDotAgreesWithLocal(t *testing.T) {
	ops := newTestOps()
	x := []float64{1, -2, 3, -4, 5, -6, 7}
	y := []float64{7, 6, -5, 4, -3, 2, -1}
	want := ops.Dot(x, y)

	for _, ranks := range []int{1, 2, 4} {
		d := &DistOps{Ops: ops, Grid: NewGrid(ranks)}
		got := d.Dot(x, y)
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("ranks=%d: Dot = %v, want %v", ranks, got, want)
		}
	}
}

func TestDistOpsNrm2AgreesWithLocal(t *testing.T) {
	ops := newTestOps()
	x := []float64{3, -4, 12, -5, 0.5}
	want := ops.Nrm2(x)

	for _, ranks := range []int{1, 2, 3, 5} {
		d := &DistOps{Ops: ops, Grid: NewGrid(ranks)}
		got := d.Nrm2(x)
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("ranks=%d: Nrm2 = %v, want %v", ranks, got, want)
		}
	}
}

// TestDistOpsEmptyShardIsHarmless checks that a rank count exceeding the
// vector length (so some ranks own an empty shard) still reduces correctly.
func TestDistOpsEmptyShardIsHarmless(t *testing.T) {
	ops := newTestOps()
	x := []float64{1, 2, 3}
	y := []float64{4, 5, 6}
	want := ops.Dot(x, y)

	d := &DistOps{Ops: ops, Grid: NewGrid(8)}
	got := d.Dot(x, y)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("Dot with 8 ranks over len-3 vectors = %v, want %v", got, want)
	}
}
