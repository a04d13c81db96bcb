// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipm

import "math"

// initialize produces a starting iterate with s>0 and z>0. When both
// PrimalInit and DualInit are requested, the caller-supplied iterate is
// used as-is (after equilibration scaling). Otherwise a least-norm
// candidate is produced by solving one augmented KKT-shaped system against
// (b,c,h) with the complementarity block replaced by -(1+γz)·I (the
// standard trick of pretending s=z=𝟙 for the one-off solve), then s and z
// are shifted into the positive orthant and balanced against each other.
func initialize(ops Ops, fac Factorizer, p *Problem, opts *Options, w *workspace, it *Iterate) error {
	n, m, k := p.N, p.M, p.K

	fac.BuildStatic(opts.XRegSmall, opts.YRegSmall, opts.ZRegSmall)

	ones := make([]float64, k)
	for i := range ones {
		ones[i] = 1
	}
	fac.FinishKKT(ones, ones)
	for i := range w.regL {
		w.regL[i] = 0
	}
	fac.AddLargeReg(w.regL)
	if err := fac.Factor(1e-13); err != nil {
		return err
	}

	rhs := w.rhs
	for i := 0; i < n; i++ {
		rhs[i] = -p.C[i]
	}
	for i := 0; i < m; i++ {
		rhs[n+i] = p.B[i]
	}
	for i := 0; i < k; i++ {
		rhs[n+m+i] = p.H[i]
	}
	fac.Solve(rhs, w.delta)

	x, y, z, s := it.X, it.Y, it.Z, it.S
	copy(x, w.delta[:n])
	copy(y, w.delta[n:n+m])
	for i := 0; i < k; i++ {
		z[i] = w.delta[n+m+i]
		s[i] = -z[i]
	}

	minS, minZ := math.Inf(1), math.Inf(1)
	for i := 0; i < k; i++ {
		minS = math.Min(minS, s[i])
		minZ = math.Min(minZ, z[i])
	}
	shift := opts.StandardInitShift
	dp := math.Max(0, -minS) + shift
	dd := math.Max(0, -minZ) + shift
	for i := 0; i < k; i++ {
		s[i] += dp
		z[i] += dd
	}

	if k > 0 {
		sz, sumS, sumZ := 0.0, 0.0, 0.0
		for i := 0; i < k; i++ {
			sz += s[i] * z[i]
			sumS += s[i]
			sumZ += z[i]
		}
		var dp2, dd2 float64
		if sumZ > 0 {
			dp2 = 0.5 * sz / sumZ
		}
		if sumS > 0 {
			dd2 = 0.5 * sz / sumS
		}
		for i := 0; i < k; i++ {
			s[i] += dp2
			z[i] += dd2
		}
	}
	return nil
}
