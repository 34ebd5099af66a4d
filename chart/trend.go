package chart

import (
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/scorpio-su/2023-IMDB/pkg/errors"
	"github.com/scorpio-su/2023-IMDB/pkg/log"
	"github.com/scorpio-su/2023-IMDB/table"
)

// TrendFileName is the image name of the trend chart for target.
func TrendFileName(target string) string {
	return "MSE_R_squared_plot_" + target + ".png"
}

// RenderTrends reads a combined results table and, for each target, plots its
// R-squared and MSE values against the folder number. A table written without
// the folder column falls back to row positions 1..n.
//
// Targets with no rows produce no image. It returns the paths written.
func RenderTrends(combinedPath, outDir string, targets []string) ([]string, error) {
	df, err := table.LoadText(combinedPath)
	if err != nil {
		return nil, err
	}
	for _, col := range []string{table.ColTarget, table.ColMSE, table.ColRSquared} {
		if !table.HasColumn(df, col) {
			return nil, errors.NewInputError(combinedPath, errors.InputMalformed, errors.Newf("missing column %q", col))
		}
	}

	logger := log.GetLogger().With(log.ComponentKey, "chart", log.PathKey, combinedPath)
	var written []string
	for _, target := range targets {
		sub := df.Filter(dataframe.F{Colname: table.ColTarget, Comparator: series.Eq, Comparando: target})
		if sub.Err != nil {
			return written, errors.Wrapf(sub.Err, "filter %s", target)
		}
		if sub.Nrow() == 0 {
			logger.Debug("No rows for target", log.TargetKey, target)
			continue
		}

		var folders []float64
		if table.HasColumn(sub, table.ColFolder) {
			folders = sub.Col(table.ColFolder).Float()
		} else {
			folders = make([]float64, sub.Nrow())
			for i := range folders {
				folders[i] = float64(i + 1)
			}
		}

		path := filepath.Join(outDir, TrendFileName(target))
		err := renderTrend(path, target, folders, sub.Col(table.ColRSquared).Float(), sub.Col(table.ColMSE).Float())
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func renderTrend(path, target string, folders, r2, mse []float64) error {
	p := plot.New()
	p.Title.Text = "MSE & R-squared values for " + target
	p.X.Label.Text = "Folder"
	p.Y.Label.Text = "Values"
	p.Add(plotter.NewGrid())

	ticks := make([]int, 0, len(folders))
	for _, f := range folders {
		if finite(f) {
			ticks = append(ticks, int(f))
		}
	}
	p.X.Tick.Marker = folderTicks(ticks)

	series := []struct {
		label string
		y     []float64
		color int
		shape draw.GlyphDrawer
	}{
		{"R-squared", r2, 0, draw.CircleGlyph{}},
		{"MSE", mse, 1, draw.SquareGlyph{}},
	}
	for _, s := range series {
		l, pts, err := plotter.NewLinePoints(xys(folders, s.y))
		if err != nil {
			return errors.Wrapf(err, "%s line", s.label)
		}
		l.Color = plotutil.Color(s.color)
		pts.Color = plotutil.Color(s.color)
		pts.Shape = s.shape
		p.Add(l, pts)
		p.Legend.Add(s.label, l, pts)
	}
	p.Legend.Top = true

	return save(p, 10*vg.Inch, 6*vg.Inch, path)
}

// RenderRSquaredComparison draws one line per dataset label across the folder axis.
// Lines without points are left out of the chart.
func RenderRSquaredComparison(path string, lines []Line, folders []int) error {
	p := plot.New()
	p.Title.Text = "R-squared Values per Folder"
	p.X.Label.Text = "Folder Number"
	p.Y.Label.Text = "R-squared"
	p.Add(plotter.NewGrid())
	p.X.Tick.Marker = folderTicks(folders)

	for i, line := range lines {
		pts := xys(line.X, line.Y)
		if len(pts) == 0 {
			continue
		}
		l, sc, err := plotter.NewLinePoints(pts)
		if err != nil {
			return errors.Wrapf(err, "%s line", line.Label)
		}
		l.Color = plotutil.Color(i)
		sc.Color = plotutil.Color(i)
		sc.Shape = draw.CircleGlyph{}
		p.Add(l, sc)
		p.Legend.Add(line.Label, l, sc)
	}

	return save(p, 14*vg.Inch, 8*vg.Inch, path)
}
