// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gridnet

import "testing"

func TestShardRangeCoversWithoutGapOrOverlap(t *testing.T) {
	n, ranks := 10, 3
	var total int
	prevHi := 0
	for r := 0; r < ranks; r++ {
		lo, hi := ShardRange(n, ranks, r)
		if lo != prevHi {
			t.Fatalf("rank %d: lo=%d, want %d (contiguous with previous rank)", r, lo, prevHi)
		}
		if hi < lo {
			t.Fatalf("rank %d: hi=%d < lo=%d", r, hi, lo)
		}
		total += hi - lo
		prevHi = hi
	}
	if total != n || prevHi != n {
		t.Fatalf("shards cover %d elements ending at %d, want %d", total, prevHi, n)
	}
}

func TestShardRangeBalanced(t *testing.T) {
	// 10 elements over 3 ranks: sizes must be ceil(10/3)=4 at most, floor=3 at least.
	n, ranks := 10, 3
	sizes := make([]int, ranks)
	for r := 0; r < ranks; r++ {
		lo, hi := ShardRange(n, ranks, r)
		sizes[r] = hi - lo
	}
	want := []int{4, 3, 3}
	for r, s := range want {
		if sizes[r] != s {
			t.Fatalf("sizes = %v, want %v", sizes, want)
		}
	}
}

func TestAllReduceSum(t *testing.T) {
	g := NewGrid(4)
	got := g.AllReduce(func(r int) float64 { return float64(r + 1) }, Sum, 0)
	if got != 10 {
		t.Fatalf("AllReduce sum = %v, want 10", got)
	}
}

func TestAllReduceSingleRank(t *testing.T) {
	g := NewGrid(1)
	got := g.AllReduce(func(r int) float64 { return 42 }, Sum, 0)
	if got != 42 {
		t.Fatalf("AllReduce single-rank = %v, want 42", got)
	}
}

func TestAllReduceMax(t *testing.T) {
	g := NewGrid(5)
	vals := []float64{3, 1, 4, 1, 5}
	got := g.AllReduce(func(r int) float64 { return vals[r] }, Max, 0)
	if got != 5 {
		t.Fatalf("AllReduce max = %v, want 5", got)
	}
}

// TestAllReduceDeterministic checks that repeated AllReduce calls over a
// sum that is not exactly associative in floating point (so a different
// fold order would give a different bit pattern) always produce the same
// result, since the binary-tree fold order is fixed by rank index and does
// not depend on goroutine scheduling.
func TestAllReduceDeterministic(t *testing.T) {
	g := NewGrid(7)
	vals := []float64{0.1, 0.2, 0.3, 1e16, -1e16, 0.7, 0.9}
	compute := func(r int) float64 { return vals[r] }

	first := g.AllReduce(compute, Sum, 0)
	for i := 0; i < 20; i++ {
		got := g.AllReduce(compute, Sum, 0)
		if got != first {
			t.Fatalf("run %d: AllReduce = %v, want %v (same as first run)", i, got, first)
		}
	}
}
