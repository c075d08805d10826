// Package monitor renders explored boundaries for eyeballing: static PNG
// scatter plots via gonum/plot and interactive HTML reports via
// go-echarts. High-dimensional boundaries are shown as 2-D projections
// onto a chosen pair of axes.
package monitor

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/sembas/internal/boundary"
)

// PlotBoundary writes a PNG scatter of the boundary points projected onto
// axes (axisX, axisY) to path.
func PlotBoundary(nodes []boundary.PointNode, axisX, axisY int, path string) error {
	if len(nodes) == 0 {
		return fmt.Errorf("nothing to plot: empty boundary")
	}
	dims := nodes[0].HS.Dims()
	if axisX < 0 || axisX >= dims || axisY < 0 || axisY >= dims {
		return fmt.Errorf("projection axes (%d, %d) outside %d dimensions", axisX, axisY, dims)
	}

	pts := make(plotter.XYs, len(nodes))
	for i, node := range nodes {
		pts[i].X = node.HS.B[axisX]
		pts[i].Y = node.HS.B[axisY]
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Boundary projection (x%d, x%d), %d points", axisX, axisY, len(nodes))
	p.X.Label.Text = fmt.Sprintf("x%d", axisX)
	p.Y.Label.Text = fmt.Sprintf("x%d", axisY)

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("build scatter: %w", err)
	}
	scatter.GlyphStyle.Radius = vg.Points(1.5)
	scatter.GlyphStyle.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	p.Add(scatter)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}
