// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sparseops provides a compressed-sparse-column matrix type and the
// sparse level-2 kernels (matrix-vector multiply, row/column diagonal
// scaling) the sparse IPM collaborators are built on.
package sparseops

import "sort"

// CSC is a compressed-sparse-column matrix: for column j, the entries live
// at RowIdx[ColPtr[j]:ColPtr[j+1]] with values Val[ColPtr[j]:ColPtr[j+1]],
// sorted by row index within each column.
type CSC struct {
	Rows, Cols int
	ColPtr     []int
	RowIdx     []int
	Val        []float64
}

// NewCSC builds a CSC matrix from triplets (row, col, val); duplicate
// (row, col) pairs are summed, matching the teacher's Increment semantics.
func NewCSC(rows, cols int, ri, ci []int, val []float64) *CSC {
	type entry struct {
		row int
		val float64
	}
	byCol := make([][]entry, cols)
	for idx := range ri {
		r, c, v := ri[idx], ci[idx], val[idx]
		byCol[c] = append(byCol[c], entry{r, v})
	}
	m := &CSC{Rows: rows, Cols: cols, ColPtr: make([]int, cols+1)}
	for j := 0; j < cols; j++ {
		col := byCol[j]
		sort.Slice(col, func(a, b int) bool { return col[a].row < col[b].row })
		// merge duplicate rows within the column
		merged := col[:0:0]
		for _, e := range col {
			if n := len(merged); n > 0 && merged[n-1].row == e.row {
				merged[n-1].val += e.val
			} else {
				merged = append(merged, e)
			}
		}
		for _, e := range merged {
			m.RowIdx = append(m.RowIdx, e.row)
			m.Val = append(m.Val, e.val)
		}
		m.ColPtr[j+1] = len(m.RowIdx)
	}
	return m
}

// Col returns the row indices and values of column j.
func (m *CSC) Col(j int) ([]int, []float64) {
	s, e := m.ColPtr[j], m.ColPtr[j+1]
	return m.RowIdx[s:e], m.Val[s:e]
}

// At returns A[row,col], 0 if absent. Linear scan within the column; only
// used off the hot path (equilibration diagnostics, tests).
func (m *CSC) At(row, col int) float64 {
	ri, v := m.Col(col)
	for i, r := range ri {
		if r == row {
			return v[i]
		}
	}
	return 0
}

// Gemv computes y = alpha*op(A)*x + beta*y. trans=false multiplies A (Rows
// x Cols) by an x of length Cols; trans=true multiplies Aᵀ by an x of
// length Rows.
func (m *CSC) Gemv(trans bool, alpha float64, x []float64, beta float64, y []float64) {
	if !trans {
		for i := range y {
			y[i] *= beta
		}
		for j := 0; j < m.Cols; j++ {
			xj := alpha * x[j]
			if xj == 0 {
				continue
			}
			ri, v := m.Col(j)
			for k, r := range ri {
				y[r] += xj * v[k]
			}
		}
		return
	}
	for j := 0; j < m.Cols; j++ {
		y[j] *= beta
		ri, v := m.Col(j)
		sum := 0.0
		for k, r := range ri {
			sum += v[k] * x[r]
		}
		y[j] += alpha * sum
	}
}

// SymvLower computes y = alpha*A*x + beta*y where A is square, symmetric,
// and only its lower triangle (row >= col) is stored.
func (m *CSC) SymvLower(alpha float64, x []float64, beta float64, y []float64) {
	for i := range y {
		y[i] *= beta
	}
	if alpha == 0 {
		return
	}
	for j := 0; j < m.Cols; j++ {
		ri, v := m.Col(j)
		xj := x[j]
		for k, r := range ri {
			y[r] += alpha * v[k] * xj
			if r != j {
				y[j] += alpha * v[k] * x[r]
			}
		}
	}
}

// DiagScaleRows computes A <- diag(d)*A in place.
func (m *CSC) DiagScaleRows(d []float64) {
	for j := 0; j < m.Cols; j++ {
		ri, v := m.Col(j)
		for k, r := range ri {
			v[k] *= d[r]
		}
	}
}

// DiagScaleCols computes A <- A*diag(d) in place.
func (m *CSC) DiagScaleCols(d []float64) {
	for j := 0; j < m.Cols; j++ {
		_, v := m.Col(j)
		dj := d[j]
		for k := range v {
			v[k] *= dj
		}
	}
}

// RowInfNorms returns, for each row, the max abs value across the matrix's
// stored entries (used by Ruiz equilibration over a row-stacked operator).
func RowInfNorms(rows int, mats ...*CSC) []float64 {
	out := make([]float64, rows)
	for _, m := range mats {
		for j := 0; j < m.Cols; j++ {
			ri, v := m.Col(j)
			for k, r := range ri {
				av := v[k]
				if av < 0 {
					av = -av
				}
				if av > out[r] {
					out[r] = av
				}
			}
		}
	}
	return out
}

// ColInfNorms returns, for each column, the max abs value across the
// matrix's stored entries.
func (m *CSC) ColInfNorms(out []float64) {
	for j := 0; j < m.Cols; j++ {
		_, v := m.Col(j)
		mx := 0.0
		for _, val := range v {
			av := val
			if av < 0 {
				av = -av
			}
			if av > mx {
				mx = av
			}
		}
		out[j] = mx
	}
}
