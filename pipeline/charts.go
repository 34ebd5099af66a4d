package pipeline

import (
	"path/filepath"
	"strings"

	"github.com/scorpio-su/2023-IMDB/chart"
	"github.com/scorpio-su/2023-IMDB/config"
	"github.com/scorpio-su/2023-IMDB/pkg/errors"
	"github.com/scorpio-su/2023-IMDB/pkg/log"
)

// ComparisonChartName is the cross-dataset R-squared chart under the base directory.
const ComparisonChartName = "combined_r_squared_chart.png"

// TrendDir is the directory holding the trend charts of a combined table.
func TrendDir(combinedPath string) string {
	return strings.TrimSuffix(combinedPath, filepath.Ext(combinedPath))
}

// RenderTrendCharts draws, for every label's combined table, one MSE and
// R-squared chart per target. A missing or malformed combined table is skipped.
func RenderTrendCharts(opts *config.Options, logger log.Logger) (StageResult, error) {
	if logger == nil {
		logger = log.GetLogger()
	}
	logger = logger.With(log.ComponentKey, "chart")

	var res StageResult
	for _, label := range opts.DatasetLabels() {
		res.Units++
		path := filepath.Join(opts.CombineRoot(), CombinedFileName(label))
		written, err := chart.RenderTrends(path, TrendDir(path), opts.Targets)
		res.Written = append(res.Written, written...)
		if err != nil {
			if !errors.IsRecoverable(err) {
				return res, err
			}
			s := skip(StageChart, 0, label, "", path, err)
			logSkip(logger, s)
			res.Skipped = append(res.Skipped, s)
			continue
		}
		logger.Info("Trend charts written",
			log.OperationKey, log.OperationRender,
			log.DatasetKey, label,
			"charts", len(written),
		)
	}
	return res, nil
}

// RenderComparisonChart draws the mean R-squared of every folder, one line per
// label, to <base>/combined_r_squared_chart.png.
func RenderComparisonChart(opts *config.Options, agg *AggregateResult) (string, error) {
	path := filepath.Join(opts.BaseDir, ComparisonChartName)
	if err := chart.RenderRSquaredComparison(path, agg.RSquaredLines(), opts.Folders); err != nil {
		return "", err
	}
	return path, nil
}
