// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipm

// buildRHS packs d = (-rc + γx·x0, -rb + γy·y0, -rh + (rμ/z) + γz·z0) into
// rhs, length n+m+k. x0, y0, z0 are the current iterate, which is the
// reference point the static small regularization is centered on so that
// it does not bias the solution away from the current point.
func buildRHS(n, m, k int, rc, rb, rh, rmu, z, x0, y0, z0 []float64, gammaX, gammaY, gammaZ float64, rhs []float64) {
	for i := 0; i < n; i++ {
		rhs[i] = -rc[i] + gammaX*x0[i]
	}
	for i := 0; i < m; i++ {
		rhs[n+i] = -rb[i] + gammaY*y0[i]
	}
	for i := 0; i < k; i++ {
		rhs[n+m+i] = -rh[i] + rmu[i]/z[i] + gammaZ*z0[i]
	}
}

// expandDirection reads the (x,y,z) blocks out of the solved delta vector
// and reconstructs Δs = -(rμ + s·Δz) / z, writing into dx,dy,dz,ds.
func expandDirection(n, m, k int, delta, rmu, s, z []float64, dx, dy, dz, ds []float64) {
	copy(dx, delta[:n])
	copy(dy, delta[n:n+m])
	copy(dz, delta[n+m:n+m+k])
	for i := 0; i < k; i++ {
		ds[i] = -(rmu[i] + s[i]*dz[i]) / z[i]
	}
}

// residuals computes rb = A·x - b, rc = Q·x + Aᵀy + Gᵀz + c, rh = G·x + s - h
// and rmu = s∘z using the storage backend's Ops.
func residuals(ops Ops, p *Problem, it *Iterate, w *workspace) {
	n, m, k := p.N, p.M, p.K

	ops.GemvA(false, 1, it.X, 0, w.rb)
	for i := 0; i < m; i++ {
		w.rb[i] -= p.B[i]
	}

	ops.SymMulQ(1, it.X, 0, w.rc)
	ops.GemvA(true, 1, it.Y, 1, w.rc)
	ops.GemvG(true, 1, it.Z, 1, w.rc)
	for i := 0; i < n; i++ {
		w.rc[i] += p.C[i]
	}

	ops.GemvG(false, 1, it.X, 0, w.rh)
	for i := 0; i < k; i++ {
		w.rh[i] += it.S[i] - p.H[i]
	}

	for i := 0; i < k; i++ {
		w.rmu[i] = it.S[i] * it.Z[i]
	}
}
