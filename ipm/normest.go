// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipm

import "math"

// PowerNormEstimate estimates ||A||_2 via power iteration on AᵀA, given a
// callback that applies AᵀA to x and writes the result into y. The start
// vector is the deterministic all-ones vector (normalized) rather than a
// random one, so that distributed ranks computing the same estimate in
// lockstep observe identical iterates without needing to replicate a seed.
func PowerNormEstimate(n int, applyAtA func(x, y []float64), iters int) float64 {
	if n == 0 {
		return 0
	}
	x := make([]float64, n)
	for i := range x {
		x[i] = 1
	}
	normalize(x)

	y := make([]float64, n)
	lambda := 0.0
	for it := 0; it < iters; it++ {
		applyAtA(x, y)
		ny := 0.0
		for _, v := range y {
			ny += v * v
		}
		ny = math.Sqrt(ny)
		if ny == 0 {
			return 0
		}
		lambda = ny
		for i := range x {
			x[i] = y[i] / ny
		}
	}
	return math.Sqrt(lambda)
}

func normalize(x []float64) {
	norm := 0.0
	for _, v := range x {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return
	}
	for i := range x {
		x[i] /= norm
	}
}
