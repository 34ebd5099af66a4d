package chart

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/scorpio-su/2023-IMDB/pkg/errors"
)

// MovingAverageFileName is the image name of the moving-average plot of column.
func MovingAverageFileName(column string, window int) string {
	return fmt.Sprintf("%s_%d_moving_average.png", column, window)
}

// RenderMovingAverage plots a column and its moving average against the index.
// Positions where the average is undefined are not drawn.
func RenderMovingAverage(path, column string, index, original, ma []float64, window int) error {
	if len(index) != len(original) || len(index) != len(ma) {
		return errors.NewDimensionError("chart.RenderMovingAverage", len(index), len(original), 0)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Column %s - Moving Average", column)
	p.X.Label.Text = "Index"
	p.Y.Label.Text = "Value"

	orig, err := plotter.NewLine(xys(index, original))
	if err != nil {
		return errors.Wrap(err, "original line")
	}
	orig.Color = blue
	p.Add(orig)
	p.Legend.Add("Original Data", orig)

	if pts := xys(index, ma); len(pts) > 0 {
		avg, err := plotter.NewLine(pts)
		if err != nil {
			return errors.Wrap(err, "moving average line")
		}
		avg.Color = red
		p.Add(avg)
		p.Legend.Add(fmt.Sprintf("Moving Average (window=%d)", window), avg)
	}

	return save(p, 12*vg.Inch, 6*vg.Inch, path)
}
