// Package render draws run series to image files.
package render

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Line is one named series to draw. A nil Xs plots against the sample
// index.
type Line struct {
	Name string
	Xs   []float64
	Ys   []float64
}

// Lines writes a PNG of the given series. With logY the y axis is
// logarithmic and non-positive samples are dropped, which suits
// convergence histories that end on an exact zero.
func Lines(path, title, xLabel, yLabel string, logY bool, lines ...Line) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	if logY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	args := make([]interface{}, 0, 2*len(lines))
	for _, ln := range lines {
		pts := make(plotter.XYs, 0, len(ln.Ys))
		for i, y := range ln.Ys {
			if logY && y <= 0 {
				continue
			}
			x := float64(i)
			if ln.Xs != nil {
				x = ln.Xs[i]
			}
			pts = append(pts, plotter.XY{X: x, Y: y})
		}
		if len(pts) == 0 {
			continue
		}
		args = append(args, ln.Name, pts)
	}
	if len(args) == 0 {
		return fmt.Errorf("render: no drawable samples")
	}

	if err := plotutil.AddLines(p, args...); err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}
