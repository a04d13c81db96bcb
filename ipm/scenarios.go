// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipm

// Scenario bundles a named canonical conic-QP instance with the dense,
// column-major data a dispatch package needs to run it. Keeping the data
// here rather than duplicating it in cmd/ipmqp and in ipm/scenarios_test.go
// means both exercise the exact same problem instances.
type Scenario struct {
	Name    string
	N, M, K int
	Q       []float64 // n*n column-major, lower triangle significant
	A       []float64 // m*n column-major
	G       []float64 // k*n column-major
	B, C, H []float64
	Options *Options
}

// ScenarioDiagonalQP is the identity-Hessian box-constrained QP with a
// closed-form optimum, used as the baseline correctness check.
func ScenarioDiagonalQP() Scenario {
	n := 3
	q := make([]float64, n*n)
	for i := 0; i < n; i++ {
		q[i*n+i] = 1
	}
	g := make([]float64, n*n)
	for i := 0; i < n; i++ {
		g[i*n+i] = -1
	}
	return Scenario{
		Name: "diagonal-qp",
		N: n, M: 0, K: n,
		Q: q, A: nil, G: g,
		B: nil, C: []float64{-1, -2, -3}, H: []float64{0, 0, 0},
		Options: &Options{InfeasibilityTol: 1e-8, RelativeComplementarityGapTol: 1e-8, RelativeObjectiveGapTol: 1e-8},
	}
}

// ScenarioDiagonalQPInnerEquil is ScenarioDiagonalQP with InnerEquil turned
// on, exercising the per-iteration KKT equilibration path end to end: it
// must reach the same closed-form optimum as the identity path, confirming
// EquilibrateInner's scale/unscale round-trip through Solve is transparent.
func ScenarioDiagonalQPInnerEquil() Scenario {
	s := ScenarioDiagonalQP()
	s.Name = "diagonal-qp-inner-equil"
	s.Options = &Options{
		InfeasibilityTol: 1e-8, RelativeComplementarityGapTol: 1e-8, RelativeObjectiveGapTol: 1e-8,
		InnerEquil: true, InnerEquilIterations: 4, InnerEquilTol: 1,
	}
	return s
}

// ScenarioSimpleLP is Q=0 linear program min cᵀx s.t. x ≥ 0, Σx = 1.
func ScenarioSimpleLP() Scenario {
	n := 3
	a := []float64{1, 1, 1} // 1×3, row-major is irrelevant for m=1
	g := make([]float64, n*n)
	for i := 0; i < n; i++ {
		g[i*n+i] = -1
	}
	return Scenario{
		Name: "simple-lp",
		N: n, M: 1, K: n,
		Q: make([]float64, n*n), A: a, G: g,
		B: []float64{1}, C: []float64{1, 2, 3}, H: []float64{0, 0, 0},
		Options: &Options{},
	}
}

// ScenarioIllConditionedScaling is a feasible two-variable LP seen through
// an equality row scaled by 1e8, exercising Ruiz equilibration.
func ScenarioIllConditionedScaling() Scenario {
	n := 2
	a := []float64{1, 0, 0, 1e8} // 2x2 column-major: col0=[1,0], col1=[0,1e8]
	g := make([]float64, n*n)
	for i := 0; i < n; i++ {
		g[i*n+i] = -1
	}
	return Scenario{
		Name: "ill-conditioned-scaling",
		N: n, M: 2, K: n,
		Q: make([]float64, n*n), A: a, G: g,
		B: []float64{2, 2e8}, C: []float64{1, 1}, H: []float64{0, 0},
		Options: &Options{OuterEquil: true, EquilIterations: 10},
	}
}

// ScenarioInfeasiblePrimal is a single equality row with no feasible
// nonnegative solution: x1+x2 = -1, x ≥ 0.
func ScenarioInfeasiblePrimal() Scenario {
	n := 2
	a := []float64{1, 1}
	g := make([]float64, n*n)
	for i := 0; i < n; i++ {
		g[i*n+i] = -1
	}
	return Scenario{
		Name: "infeasible-primal",
		N: n, M: 1, K: n,
		Q: make([]float64, n*n), A: a, G: g,
		B: []float64{-1}, C: []float64{1, 1}, H: []float64{0, 0},
		Options: &Options{MaxIts: 40},
	}
}

// CanonicalScenarios returns the four self-contained scenarios; warm-start
// and distributed-replication scenarios are built on top of one of these by
// the caller, since they need a prior solve's output as input.
func CanonicalScenarios() []Scenario {
	return []Scenario{
		ScenarioDiagonalQP(),
		ScenarioSimpleLP(),
		ScenarioIllConditionedScaling(),
		ScenarioInfeasiblePrimal(),
	}
}

// DenseMatrices packs the scenario's Q, A, G into column-major DenseMatrix
// values, the shape ipm/dense and ipm/densedist expect.
func (s Scenario) DenseMatrices() (q, a, g *DenseMatrix) {
	q = &DenseMatrix{Rows: s.N, Cols: s.N, Data: s.Q}
	a = &DenseMatrix{Rows: s.M, Cols: s.N, Data: s.A}
	g = &DenseMatrix{Rows: s.K, Cols: s.N, Data: s.G}
	return
}

// SparseMatrices packs the scenario's Q, A, G into compressed-sparse-column
// form, scanning the dense column-major buffers for nonzero entries. This is
// a scenario-construction convenience, not a general dense-to-sparse
// converter: the canonical scenarios are small enough that a dense scan is
// the simplest correct way to seed the sparse dispatch path with the same
// numbers the dense path uses.
func (s Scenario) SparseMatrices() (q, a, g *SparseMatrix) {
	q = denseToCSC(s.N, s.N, s.Q)
	a = denseToCSC(s.M, s.N, s.A)
	g = denseToCSC(s.K, s.N, s.G)
	return
}

func denseToCSC(rows, cols int, data []float64) *SparseMatrix {
	var ri, ci []int
	var val []float64
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			v := data[j*rows+i]
			if v != 0 {
				ri = append(ri, i)
				ci = append(ci, j)
				val = append(val, v)
			}
		}
	}
	return NewSparseMatrix(rows, cols, ri, ci, val)
}

// Problem builds the storage-independent Problem value for this scenario.
func (s Scenario) Problem() (*Problem, error) {
	return New(s.N, s.M, s.K, s.B, s.C, s.H)
}

// NewIterate allocates a zero-valued warm-start buffer for a scenario's
// dimensions, with S and Z preset to 1 so a caller that does not intend to
// warm-start still hands the driver strictly positive slacks before
// initialize() overwrites them.
func (s Scenario) NewIterate() *Iterate {
	it := &Iterate{X: make([]float64, s.N), Y: make([]float64, s.M), Z: make([]float64, s.K), S: make([]float64, s.K)}
	for i := range it.Z {
		it.Z[i] = 1
		it.S[i] = 1
	}
	return it
}
