// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipm

import "github.com/affinecone/ipm/internal/sparseops"

// DenseMatrix is a contiguous column-major dense matrix, the storage shape
// ipm/dense and ipm/densedist build their Ops/Factorizer pairs around. For
// Q it holds the full n×n buffer but only the lower triangle is read.
type DenseMatrix struct {
	Rows, Cols int
	Data       []float64 // length Rows*Cols, column j at Data[j*Rows : j*Rows+Rows]
}

// NewDenseMatrix allocates a zeroed Rows×Cols column-major matrix.
func NewDenseMatrix(rows, cols int) *DenseMatrix {
	return &DenseMatrix{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// SparseMatrix is a compressed-sparse-column matrix, the storage shape
// ipm/sparse and ipm/sparsedist build their Ops/Factorizer pairs around.
type SparseMatrix = sparseops.CSC

// NewSparseMatrix builds a SparseMatrix from row/col/value triplets.
func NewSparseMatrix(rows, cols int, rowIdx, colIdx []int, val []float64) *SparseMatrix {
	return sparseops.NewCSC(rows, cols, rowIdx, colIdx, val)
}
