// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparseops

import "testing"

// buildTestCSC builds the 2x3 matrix [[1 0 3] [0 2 0]] in CSC form.
func buildTestCSC() *CSC {
	ri := []int{0, 1, 0}
	ci := []int{0, 1, 2}
	val := []float64{1, 2, 3}
	return NewCSC(2, 3, ri, ci, val)
}

func TestNewCSCDuplicateSum(t *testing.T) {
	ri := []int{0, 0, 1}
	ci := []int{0, 0, 0}
	val := []float64{2, 3, 4}
	m := NewCSC(2, 1, ri, ci, val)
	if got := m.At(0, 0); got != 5 {
		t.Fatalf("At(0,0) = %v, want 5 (duplicate triplets summed)", got)
	}
	if got := m.At(1, 0); got != 4 {
		t.Fatalf("At(1,0) = %v, want 4", got)
	}
}

func TestCSCGemv(t *testing.T) {
	m := buildTestCSC()
	x := []float64{1, 1, 1}
	y := make([]float64, 2)
	m.Gemv(false, 1, x, 0, y)
	if y[0] != 4 || y[1] != 2 {
		t.Fatalf("Gemv false = %v, want [4 2]", y)
	}

	xt := []float64{1, 1}
	yt := make([]float64, 3)
	m.Gemv(true, 1, xt, 0, yt)
	want := []float64{1, 2, 3}
	for i, v := range want {
		if yt[i] != v {
			t.Fatalf("Gemv true yt[%d] = %v, want %v", i, yt[i], v)
		}
	}
}

func TestCSCSymvLower(t *testing.T) {
	// lower triangle of [[4 1] [1 3]]: stored entries (0,0)=4, (1,0)=1, (1,1)=3
	ri := []int{0, 1, 1}
	ci := []int{0, 0, 1}
	val := []float64{4, 1, 3}
	m := NewCSC(2, 2, ri, ci, val)
	x := []float64{1, 2}
	y := make([]float64, 2)
	m.SymvLower(1, x, 0, y)
	if y[0] != 6 || y[1] != 7 {
		t.Fatalf("SymvLower = %v, want [6 7]", y)
	}
}

func TestCSCDiagScale(t *testing.T) {
	m := buildTestCSC()
	m.DiagScaleRows([]float64{10, 100})
	if m.At(0, 0) != 10 || m.At(1, 1) != 200 || m.At(0, 2) != 30 {
		t.Fatalf("DiagScaleRows result wrong: (0,0)=%v (1,1)=%v (0,2)=%v", m.At(0, 0), m.At(1, 1), m.At(0, 2))
	}

	m2 := buildTestCSC()
	m2.DiagScaleCols([]float64{1, 2, 3})
	if m2.At(0, 0) != 1 || m2.At(1, 1) != 4 || m2.At(0, 2) != 9 {
		t.Fatalf("DiagScaleCols result wrong: (0,0)=%v (1,1)=%v (0,2)=%v", m2.At(0, 0), m2.At(1, 1), m2.At(0, 2))
	}
}

func TestRowColInfNorms(t *testing.T) {
	a := buildTestCSC() // rows 0..1: row0 max(1,3)=3, row1 max(2)=2
	rows := RowInfNorms(2, a)
	if rows[0] != 3 || rows[1] != 2 {
		t.Fatalf("RowInfNorms(a) = %v, want [3 2]", rows)
	}

	// a second matrix sharing the same row space combines by elementwise max.
	b := NewCSC(2, 3, []int{0}, []int{1}, []float64{-5})
	rows = RowInfNorms(2, a, b)
	if rows[0] != 5 || rows[1] != 2 {
		t.Fatalf("RowInfNorms(a,b) = %v, want [5 2]", rows)
	}

	out := make([]float64, 3)
	a.ColInfNorms(out)
	want := []float64{1, 2, 3}
	for i, v := range want {
		if out[i] != v {
			t.Fatalf("ColInfNorms[%d] = %v, want %v", i, out[i], v)
		}
	}
}
