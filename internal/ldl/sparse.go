// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ldl

import (
	"math"
	"sort"

	"github.com/affinecone/ipm/internal/sparseops"
)

// Symbolic holds the structural pattern of L (below-diagonal fill included)
// computed once from the nonzero pattern of the lower triangle of a
// symmetric n×n matrix, and the transposed index needed to drive a
// left-looking numeric factorization. It does not change as long as the
// caller's matrix keeps the same sparsity pattern across outer iterations —
// exactly the "preserved symbolic state" the sparse KKT system relies on.
type Symbolic struct {
	n          int
	colPattern [][]int // colPattern[j]: sorted rows >= j with structural L[row,j] != 0 (including j)
	rowToCols  [][]int // rowToCols[i]: columns k < i such that i is in colPattern[k]
}

// NewSymbolic computes the fill pattern of L via the elimination-game rule:
// eliminating column j turns its below-diagonal neighbors into a clique, so
// every pair of surviving neighbors becomes structurally connected for later
// columns. No fill-reducing reordering is applied (natural column order) —
// see DESIGN.md for why no fill-reducing ordering library is wired in.
func NewSymbolic(lower *sparseops.CSC) *Symbolic {
	n := lower.Cols
	adj := make([]map[int]struct{}, n)
	for i := range adj {
		adj[i] = make(map[int]struct{})
	}
	for j := 0; j < n; j++ {
		ri, _ := lower.Col(j)
		for _, r := range ri {
			if r != j {
				adj[j][r] = struct{}{}
				adj[r][j] = struct{}{}
			}
		}
	}
	colPattern := make([][]int, n)
	eliminated := make([]bool, n)
	for j := 0; j < n; j++ {
		nbrs := make([]int, 0, len(adj[j]))
		for r := range adj[j] {
			if !eliminated[r] {
				nbrs = append(nbrs, r)
			}
		}
		sort.Ints(nbrs)
		pat := make([]int, 0, len(nbrs)+1)
		pat = append(pat, j)
		pat = append(pat, nbrs...)
		colPattern[j] = pat
		// elimination-game fill: nbrs become mutually adjacent
		for _, a := range nbrs {
			for _, b := range nbrs {
				if a != b {
					adj[a][b] = struct{}{}
				}
			}
		}
		eliminated[j] = true
	}
	rowToCols := make([][]int, n)
	for k := 0; k < n; k++ {
		for _, row := range colPattern[k] {
			if row != k {
				rowToCols[row] = append(rowToCols[row], k)
			}
		}
	}
	return &Symbolic{n: n, colPattern: colPattern, rowToCols: rowToCols}
}

// NNZ returns the total number of structural L entries (including the
// diagonal), for diagnostics.
func (s *Symbolic) NNZ() int {
	total := 0
	for _, p := range s.colPattern {
		total += len(p)
	}
	return total
}

// Sparse is a numeric LDLᵀ factorization bound to a Symbolic pattern.
type Sparse struct {
	sym  *Symbolic
	diag []float64   // D, length n
	col  [][]float64 // col[j] parallels sym.colPattern[j]; col[j][0] unused (diag lives in diag[j]), rest are L entries
}

// NewSparse allocates numeric storage matching sym.
func NewSparse(sym *Symbolic) *Sparse {
	s := &Sparse{sym: sym, diag: make([]float64, sym.n), col: make([][]float64, sym.n)}
	for j, pat := range sym.colPattern {
		s.col[j] = make([]float64, len(pat))
	}
	return s
}

// RefreshNumeric copies the numeric values of the lower triangle of a (which
// must have a sparsity pattern contained in sym's pattern) into the factor
// storage, zeroing fill-in entries, ready for FactorNumeric.
func (s *Sparse) RefreshNumeric(a *sparseops.CSC) {
	for j, pat := range s.sym.colPattern {
		vals := s.col[j]
		for i := range vals {
			vals[i] = 0
		}
		s.diag[j] = 0
		ri, av := a.Col(j)
		idx := 0
		for k, r := range ri {
			for idx < len(pat) && pat[idx] < r {
				idx++
			}
			if idx < len(pat) && pat[idx] == r {
				if r == j {
					s.diag[j] = av[k]
				} else {
					vals[idx] = av[k]
				}
			}
		}
	}
}

// find returns the position of row within sym.colPattern[col] (which is
// sorted), or -1.
func (s *Sparse) find(col, row int) int {
	pat := s.sym.colPattern[col]
	lo, hi := 0, len(pat)
	for lo < hi {
		mid := (lo + hi) / 2
		if pat[mid] < row {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(pat) && pat[lo] == row {
		return lo
	}
	return -1
}

// FactorNumeric runs a left-looking sparse LDLᵀ factorization over the
// pattern fixed by Symbolic, relying (as Dense does) on quasi-definiteness
// rather than pivoting for stability.
func (s *Sparse) FactorNumeric(pivotTol float64) error {
	n := s.sym.n
	w := make([]float64, n) // dense scratch for column j, indexed by row
	touched := make([]int, 0, n)
	for j := 0; j < n; j++ {
		pat := s.sym.colPattern[j]
		for _, r := range pat {
			w[r] = 0
		}
		touched = touched[:0]
		w[j] = s.diag[j]
		touched = append(touched, j)
		for idx, r := range pat {
			if r == j {
				continue
			}
			w[r] = s.col[j][idx]
			touched = append(touched, r)
		}
		for _, k := range s.sym.rowToCols[j] {
			if k >= j {
				continue
			}
			pidx := s.find(k, j)
			if pidx < 0 || s.col[k][pidx] == 0 {
				continue
			}
			ljk := s.col[k][pidx]
			factor := ljk * s.diag[k]
			for _, r := range s.sym.colPattern[k] {
				if r < j {
					continue
				}
				ridx := s.find(k, r)
				w[r] -= factor * s.col[k][ridx]
			}
		}
		djj := w[j]
		if math.Abs(djj) < pivotTol {
			return ErrSingular
		}
		s.diag[j] = djj
		for idx, r := range pat {
			if r == j {
				continue
			}
			s.col[j][idx] = w[r] / djj
		}
	}
	return nil
}

// Solve computes x = (LDLᵀ)⁻¹ b. x may alias b.
func (s *Sparse) Solve(b, x []float64) {
	n := s.sym.n
	copy(x, b)
	// forward: L y = b, column-oriented update (L stored by column)
	for j := 0; j < n; j++ {
		yj := x[j]
		if yj == 0 {
			continue
		}
		pat := s.sym.colPattern[j]
		for idx, r := range pat {
			if r == j {
				continue
			}
			x[r] -= s.col[j][idx] * yj
		}
	}
	for j := 0; j < n; j++ {
		x[j] /= s.diag[j]
	}
	// backward: Lᵀ x = z, reverse column order
	for j := n - 1; j >= 0; j-- {
		pat := s.sym.colPattern[j]
		sum := 0.0
		for idx, r := range pat {
			if r == j {
				continue
			}
			sum += s.col[j][idx] * x[r]
		}
		x[j] -= sum
	}
}

// ResidualSparse computes r = A*x - b for the original (unregularized)
// symmetric sparse matrix A given by its lower triangle, for iterative
// refinement.
func ResidualSparse(a *sparseops.CSC, x, b, r []float64) {
	n := len(b)
	for i := 0; i < n; i++ {
		r[i] = -b[i]
	}
	for j := 0; j < n; j++ {
		xj := x[j]
		ri, av := a.Col(j)
		for k, row := range ri {
			r[row] += av[k] * xj
			if row != j {
				r[j] += av[k] * x[row]
			}
		}
	}
}
