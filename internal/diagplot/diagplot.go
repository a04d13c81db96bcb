// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diagplot renders the per-iteration dimacsError/μ trend of a
// driver call to a PNG, gated behind Options.Print and Options.PlotPath.
package diagplot

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Point is one outer iteration's trend sample.
type Point struct {
	Iter        int
	Mu          float64
	DimacsError float64
}

// Plot writes a log-scale line chart of μ and dimacsError against iteration
// number to path.
func Plot(path string, points []Point) error {
	p := plot.New()
	p.Title.Text = "IPM convergence trend"
	p.X.Label.Text = "outer iteration"
	p.Y.Label.Text = "log10(value)"

	muXY := make(plotter.XYs, len(points))
	dimacsXY := make(plotter.XYs, len(points))
	for i, pt := range points {
		muXY[i].X = float64(pt.Iter)
		muXY[i].Y = log10Floor(pt.Mu)
		dimacsXY[i].X = float64(pt.Iter)
		dimacsXY[i].Y = log10Floor(pt.DimacsError)
	}

	muLine, err := plotter.NewLine(muXY)
	if err != nil {
		return err
	}
	muLine.Color = color.RGBA{B: 200, A: 255}

	dimacsLine, err := plotter.NewLine(dimacsXY)
	if err != nil {
		return err
	}
	dimacsLine.Color = color.RGBA{R: 200, A: 255}

	p.Add(muLine, dimacsLine)
	p.Legend.Add("mu", muLine)
	p.Legend.Add("dimacsError", dimacsLine)

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

func log10Floor(v float64) float64 {
	if v <= 0 {
		return -16
	}
	return math.Log10(v)
}
