package pipeline

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scorpio-su/2023-IMDB/artifact"
	"github.com/scorpio-su/2023-IMDB/pkg/errors"
)

const exactInput = "id,y01_Normalize\n1,2\n2,4\n3,6\n"

func TestAggregateAndCombine(t *testing.T) {
	opts := testOptions(t)
	for _, folder := range []string{"1", "2"} {
		writeFile(t, filepath.Join(opts.BaseDir, folder, "normalized_a.csv"), exactInput)
	}

	agg, err := NewAggregator(opts, testLogger())
	require.NoError(t, err)
	res, err := agg.Aggregate()
	require.NoError(t, err)
	assert.Equal(t, 2, res.Units)
	assert.Empty(t, res.Skipped)

	for _, folder := range []string{"1", "2"} {
		dir := filepath.Join(opts.BaseDir, folder, "Regression_a")
		assert.Equal(t,
			"folder,target_variable,MSE,R-squared\n"+folder+",y01_Normalize,0.0000,1.0000\n",
			readFile(t, filepath.Join(dir, "Regression_a_regression_results.csv")))
		assert.FileExists(t, filepath.Join(dir, "linear_regression_model_y01_Normalize.gob"))
		assert.FileExists(t, filepath.Join(dir, artifact.PlotFileName("y01_Normalize")))
	}

	require.Len(t, res.Results["Regression_a"], 2)
	assert.Equal(t, 1, res.Results["Regression_a"][0].Folder)
	assert.Equal(t, 2, res.Results["Regression_a"][1].Folder)
	require.Len(t, res.RSquared["Regression_a"], 2)
	assert.Equal(t, 2, res.RSquared["Regression_a"][1].Folder)

	combined, err := NewCombiner(opts, testLogger()).Combine()
	require.NoError(t, err)
	assert.Empty(t, combined.Skipped)
	assert.Equal(t, []string{"Regression_a"}, combined.Labels)
	assert.Equal(t, 2, combined.Tables["Regression_a"].Nrow())

	out := filepath.Join(opts.BaseDir, "combine", "combined_Regression_a_regression_results.csv")
	assert.Equal(t, out, combined.Paths["Regression_a"])
	assert.Equal(t,
		"folder,target_variable,MSE,R-squared\n1,y01_Normalize,0.0000,1.0000\n2,y01_Normalize,0.0000,1.0000\n",
		readFile(t, out))
}

func TestAggregateMissingSource(t *testing.T) {
	opts := testOptions(t)
	writeFile(t, filepath.Join(opts.BaseDir, "1", "normalized_a.csv"), exactInput)

	logger := testLogger()
	agg, err := NewAggregator(opts, logger)
	require.NoError(t, err)
	res, err := agg.Aggregate()
	require.NoError(t, err)

	require.Len(t, res.Skipped, 1)
	s := res.Skipped[0]
	assert.Equal(t, StageRegress, s.Stage)
	assert.Equal(t, 2, s.Folder)
	assert.Equal(t, "Regression_a", s.Dataset)
	assert.Equal(t, errors.InputMissing, s.Kind)
	assert.Equal(t, filepath.Join(opts.BaseDir, "2", "normalized_a.csv"), s.Path)
	assert.True(t, logger.ContainsMessage("Skipped unit of work"))

	assert.NoFileExists(t, filepath.Join(opts.BaseDir, "2", "Regression_a", "Regression_a_regression_results.csv"))
	assert.Len(t, res.RSquared["Regression_a"], 1)

	combined, err := NewCombiner(opts, testLogger()).Combine()
	require.NoError(t, err)
	assert.Equal(t, 1, combined.Tables["Regression_a"].Nrow())
	assert.Equal(t, []string{"1"}, combined.Tables["Regression_a"].Col("folder").Records())
	require.Len(t, combined.Skipped, 1)
	assert.Equal(t, StageCombine, combined.Skipped[0].Stage)
	assert.Equal(t, 2, combined.Skipped[0].Folder)
}

func TestAggregateUnusableSources(t *testing.T) {
	opts := testOptions(t)
	opts.Folders = []int{1, 2, 3, 4}
	writeFile(t, filepath.Join(opts.BaseDir, "1", "normalized_a.csv"), "")
	writeFile(t, filepath.Join(opts.BaseDir, "2", "normalized_a.csv"), "id,y01_Normalize\n1,2\n2,4,5\n")
	writeFile(t, filepath.Join(opts.BaseDir, "3", "normalized_a.csv"), "index,y01_Normalize\n1,2\n2,4\n")
	writeFile(t, filepath.Join(opts.BaseDir, "4", "normalized_a.csv"), "id,y11\n1,2\n2,4\n")

	agg, err := NewAggregator(opts, testLogger())
	require.NoError(t, err)
	res, err := agg.Aggregate()
	require.NoError(t, err)

	kinds := make([]errors.InputKind, len(res.Skipped))
	for i, s := range res.Skipped {
		kinds[i] = s.Kind
	}
	assert.Equal(t, []errors.InputKind{errors.InputEmpty, errors.InputMalformed, errors.InputMissing}, kinds)

	// No candidate target present: the unit is processed and its table has only a header.
	assert.Equal(t, "folder,target_variable,MSE,R-squared\n",
		readFile(t, filepath.Join(opts.BaseDir, "4", "Regression_a", "Regression_a_regression_results.csv")))

	combined, err := NewCombiner(opts, testLogger()).Combine()
	require.NoError(t, err)
	assert.Empty(t, combined.Labels, "no rows anywhere, no combined file")
	assert.Len(t, combined.Skipped, 3, "folders 1-3 have no results table")
	assert.NoFileExists(t, filepath.Join(opts.BaseDir, "combine", CombinedFileName("Regression_a")))
}

func TestPipelineIdempotent(t *testing.T) {
	opts := testOptions(t)
	writeFile(t, filepath.Join(opts.BaseDir, "1", "normalized_a.csv"), "id,y01_Normalize,y02_Normalize\n1,0.5,3\n2,1.7,1\n3,2.2,4\n4,4.1,1\n")
	writeFile(t, filepath.Join(opts.BaseDir, "2", "normalized_a.csv"), exactInput)

	outputs := []string{
		filepath.Join(opts.BaseDir, "1", "Regression_a", "Regression_a_regression_results.csv"),
		filepath.Join(opts.BaseDir, "1", "Regression_a", "linear_regression_model_y02_Normalize.gob"),
		filepath.Join(opts.BaseDir, "combine", "combined_Regression_a_regression_results.csv"),
	}

	run := func() map[string]string {
		agg, err := NewAggregator(opts, testLogger())
		require.NoError(t, err)
		_, err = agg.Aggregate()
		require.NoError(t, err)
		_, err = NewCombiner(opts, testLogger()).Combine()
		require.NoError(t, err)

		contents := make(map[string]string)
		for _, p := range outputs {
			contents[p] = readFile(t, p)
		}
		return contents
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
	assert.Equal(t, 4, countLines(second[outputs[2]]), "header plus three rows, nothing accumulated")
}

func countLines(s string) int {
	n := 0
	for _, c := range s {
		if c == '\n' {
			n++
		}
	}
	return n
}

func TestCombineTableVariants(t *testing.T) {
	opts := testOptions(t)
	opts.Folders = []int{1, 2, 3, 4}
	dir := func(folder string) string {
		return filepath.Join(opts.BaseDir, folder, "Regression_a", "Regression_a_regression_results.csv")
	}
	writeFile(t, dir("1"), "target_variable,MSE,R-squared\ny01_Normalize,0.1000,0.9000\n")
	writeFile(t, dir("2"), "folder,target_variable,MSE,R-squared\n")
	writeFile(t, dir("3"), "target_variable,R-squared\ny01_Normalize,0.9000\n")
	writeFile(t, dir("4"), "folder,target_variable,MSE,R-squared\n4,y01_Normalize,0.2000,0.8000\n")

	res, err := NewCombiner(opts, testLogger()).Combine()
	require.NoError(t, err)
	assert.Equal(t, 4, res.Units)

	require.Len(t, res.Skipped, 1, "header-only tables are not skipped units")
	assert.Equal(t, 3, res.Skipped[0].Folder)
	assert.Equal(t, errors.InputMalformed, res.Skipped[0].Kind)

	assert.Equal(t,
		"folder,target_variable,MSE,R-squared\n1,y01_Normalize,0.1000,0.9000\n4,y01_Normalize,0.2000,0.8000\n",
		readFile(t, res.Paths["Regression_a"]))
}

func TestRSquaredLines(t *testing.T) {
	res := &AggregateResult{
		Labels: []string{"Regression_a", "Regression_b"},
		RSquared: map[string][]FolderRSquared{
			"Regression_a": {{Folder: 1, Values: []float64{1, 0.5}}, {Folder: 3, Values: []float64{0.25}}},
			"Regression_b": {{Folder: 2}},
		},
	}
	lines := res.RSquaredLines()
	require.Len(t, lines, 2)
	assert.Equal(t, "Regression_a", lines[0].Label)
	assert.Equal(t, []float64{1, 3}, lines[0].X)
	assert.Equal(t, []float64{0.75, 0.25}, lines[0].Y)
	assert.True(t, math.IsNaN(lines[1].Y[0]))
}

func TestNewAggregatorRejectsFormat(t *testing.T) {
	opts := testOptions(t)
	opts.ModelFormat = "pickle"
	_, err := NewAggregator(opts, nil)
	assert.Error(t, err)
}

func TestAggregateWriteFailureIsFatal(t *testing.T) {
	opts := testOptions(t)
	opts.Folders = []int{1}
	writeFile(t, filepath.Join(opts.BaseDir, "1", "normalized_a.csv"), exactInput)
	// A file where the output directory should be.
	require.NoError(t, os.WriteFile(filepath.Join(opts.BaseDir, "1", "Regression_a"), nil, 0o644))

	agg, err := NewAggregator(opts, testLogger())
	require.NoError(t, err)
	_, err = agg.Aggregate()
	require.Error(t, err)
	assert.False(t, errors.IsRecoverable(err))
}
