package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/require"

	"github.com/scorpio-su/2023-IMDB/config"
	"github.com/scorpio-su/2023-IMDB/pkg/log"
)

// testOptions returns defaults rooted at a fresh temporary directory with two
// folders and a single dataset label.
func testOptions(t *testing.T) *config.Options {
	t.Helper()
	opts := config.Defaults()
	opts.BaseDir = t.TempDir()
	opts.Folders = []int{1, 2}
	opts.Datasets = []config.Dataset{{Label: "Regression_a", File: "normalized_a.csv"}}
	return opts
}

func testLogger() *log.TestLogger {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	return logger
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func frame(t *testing.T, records [][]string) dataframe.DataFrame {
	t.Helper()
	df := dataframe.LoadRecords(records)
	require.NoError(t, df.Err)
	return df
}
