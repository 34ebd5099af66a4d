// Package chart renders the pipeline's PNG images with gonum/plot: the per-target
// scatter and fit line, the MSE / R-squared trend across folders, the
// cross-dataset R-squared comparison and the moving-average plots.
package chart

import (
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/scorpio-su/2023-IMDB/pkg/errors"
)

var (
	blue  = color.RGBA{B: 255, A: 255}
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 128, A: 255}
)

// Line is one labelled series of a line chart.
type Line struct {
	Label string
	X     []float64
	Y     []float64
}

// xys pairs x and y, dropping points where either is NaN or infinite.
func xys(x, y []float64) plotter.XYs {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	pts := make(plotter.XYs, 0, n)
	for i := 0; i < n; i++ {
		if !finite(x[i]) || !finite(y[i]) {
			continue
		}
		pts = append(pts, plotter.XY{X: x[i], Y: y[i]})
	}
	return pts
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// folderTicks labels the x axis with the folder numbers only.
func folderTicks(folders []int) plot.ConstantTicks {
	sorted := append([]int(nil), folders...)
	sort.Ints(sorted)
	ticks := make(plot.ConstantTicks, len(sorted))
	for i, f := range sorted {
		ticks[i] = plot.Tick{Value: float64(f), Label: strconv.Itoa(f)}
	}
	return ticks
}

// save writes p to path, creating the directory. The format follows the extension.
func save(p *plot.Plot, w, h vg.Length, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}
	if err := p.Save(w, h, path); err != nil {
		return errors.Wrapf(err, "save plot %s", path)
	}
	return nil
}
