package chart

import (
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/scorpio-su/2023-IMDB/pkg/errors"
)

// ScatterFit plots the observed points as a scatter and the fitted values as a
// red line, and saves the image to path.
func ScatterFit(path, title, xLabel, yLabel string, x, y, yPred []float64) error {
	if len(x) != len(y) || len(x) != len(yPred) {
		return errors.NewDimensionError("chart.ScatterFit", len(x), len(y), 0)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	s, err := plotter.NewScatter(xys(x, y))
	if err != nil {
		return errors.Wrap(err, "scatter")
	}
	s.Color = blue
	p.Add(s)
	p.Legend.Add("Actual", s)

	fitted := xys(x, yPred)
	sort.Slice(fitted, func(i, j int) bool { return fitted[i].X < fitted[j].X })
	l, err := plotter.NewLine(fitted)
	if err != nil {
		return errors.Wrap(err, "fitted line")
	}
	l.Color = red
	l.LineStyle.Width = vg.Points(2)
	p.Add(l)
	p.Legend.Add("Predicted", l)

	return save(p, 10*vg.Inch, 6*vg.Inch, path)
}
