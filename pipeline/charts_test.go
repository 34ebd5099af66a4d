package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scorpio-su/2023-IMDB/chart"
	"github.com/scorpio-su/2023-IMDB/config"
	"github.com/scorpio-su/2023-IMDB/pkg/errors"
)

func TestRenderTrendCharts(t *testing.T) {
	opts := testOptions(t)
	opts.Datasets = append(opts.Datasets, config.Dataset{Label: "Regression_b", File: "normalized_b.csv"})
	opts.Targets = []string{"y01_Normalize", "y02_Normalize"}
	combined := filepath.Join(opts.BaseDir, "combine", CombinedFileName("Regression_a"))
	writeFile(t, combined, "folder,target_variable,MSE,R-squared\n1,y01_Normalize,0.1000,0.9000\n2,y01_Normalize,0.2000,0.8000\n")

	res, err := RenderTrendCharts(opts, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Units)

	dir := filepath.Join(opts.BaseDir, "combine", "combined_Regression_a_regression_results")
	assert.Equal(t, []string{filepath.Join(dir, chart.TrendFileName("y01_Normalize"))}, res.Written)

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, StageChart, res.Skipped[0].Stage)
	assert.Equal(t, "Regression_b", res.Skipped[0].Dataset)
	assert.Equal(t, errors.InputMissing, res.Skipped[0].Kind)
}

func TestRenderComparisonChart(t *testing.T) {
	opts := testOptions(t)
	agg := &AggregateResult{
		Labels:   []string{"Regression_a"},
		RSquared: map[string][]FolderRSquared{"Regression_a": {{Folder: 1, Values: []float64{0.9}}, {Folder: 2, Values: []float64{0.8}}}},
	}
	path, err := RenderComparisonChart(opts, agg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(opts.BaseDir, ComparisonChartName), path)
	assert.FileExists(t, path)
}

func TestTrendDir(t *testing.T) {
	assert.Equal(t, "/b/combine/combined_x", TrendDir("/b/combine/combined_x.csv"))
}
