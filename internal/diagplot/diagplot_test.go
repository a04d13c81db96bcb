// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diagplot

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestPlotWritesNonEmptyFile(t *testing.T) {
	points := []Point{
		{Iter: 0, Mu: 1.0, DimacsError: 1.0},
		{Iter: 1, Mu: 0.1, DimacsError: 0.05},
		{Iter: 2, Mu: 0.01, DimacsError: 1e-8},
	}
	path := filepath.Join(t.TempDir(), "trend.png")
	if err := Plot(path, points); err != nil {
		t.Fatalf("Plot: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("output file is empty")
	}
}

func TestPlotEmptyTrend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.png")
	if err := Plot(path, nil); err != nil {
		t.Fatalf("Plot with no points: %v", err)
	}
}

func TestLog10FloorClampsNonPositive(t *testing.T) {
	if got := log10Floor(0); got != -16 {
		t.Fatalf("log10Floor(0) = %v, want -16", got)
	}
	if got := log10Floor(-5); got != -16 {
		t.Fatalf("log10Floor(-5) = %v, want -16", got)
	}
	if got := log10Floor(100); math.Abs(got-2) > 1e-12 {
		t.Fatalf("log10Floor(100) = %v, want 2", got)
	}
}
