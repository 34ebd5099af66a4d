package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scorpio-su/2023-IMDB/pkg/errors"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	require.NoError(t, d.Validate())

	assert.Equal(t, "id", d.Feature)
	assert.Len(t, d.Targets, 10)
	assert.Equal(t, "y01_Normalize", d.Targets[0])
	assert.Equal(t, "y10_Normalize", d.Targets[9])
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13}, d.Folders)
	assert.Equal(t, Dataset{Label: "Regression_a", File: "normalized_a.csv"}, d.Datasets[0])
	assert.Equal(t, []string{"Regression_a", "Regression_b", "Regression_c", "Regression_d"}, d.DatasetLabels())
	assert.Equal(t, 4, d.Precision)
	assert.Len(t, d.Normalize.Headers, 11)
	assert.Equal(t, 50, d.MovingAverage.Window)
}

func TestLoadWithoutFile(t *testing.T) {
	o, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), o)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regpipe.yaml")
	content := `base_dir: /data/runs
folders: [1, 2]
datasets:
  - label: Regression_a
    file: normalized_a.csv
model_format: both
moving_average:
  window: 20
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	o, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/runs", o.BaseDir)
	assert.Equal(t, []int{1, 2}, o.Folders)
	assert.Equal(t, []Dataset{{Label: "Regression_a", File: "normalized_a.csv"}}, o.Datasets)
	assert.Equal(t, "both", o.ModelFormat)
	assert.Equal(t, 20, o.MovingAverage.Window)
	assert.Equal(t, []string{"a.csv", "b.csv", "c.csv", "d.csv"}, o.MovingAverage.Files, "unset keys keep their defaults")
	assert.Equal(t, 4, o.Precision)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("REGPIPE_PRECISION", "6")
	t.Setenv("REGPIPE_FEATURE", "index")
	t.Setenv("REGPIPE_MOVING_AVERAGE_WINDOW", "10")

	o, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 6, o.Precision)
	assert.Equal(t, "index", o.Feature)
	assert.Equal(t, 10, o.MovingAverage.Window)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model_format: pickle\n"), 0o644))
	_, err = Load(path)
	var valErr *errors.ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, err.Error(), "ModelFormat")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *Options)
	}{
		{"no folders", func(o *Options) { o.Folders = nil }},
		{"folder zero", func(o *Options) { o.Folders = []int{0, 1} }},
		{"duplicate folder", func(o *Options) { o.Folders = []int{1, 1} }},
		{"duplicate target", func(o *Options) { o.Targets = []string{"y01_Normalize", "y01_Normalize"} }},
		{"duplicate dataset label", func(o *Options) {
			o.Datasets = []Dataset{{Label: "a", File: "a.csv"}, {Label: "a", File: "b.csv"}}
		}},
		{"dataset without file", func(o *Options) { o.Datasets = []Dataset{{Label: "a"}} }},
		{"empty feature", func(o *Options) { o.Feature = "" }},
		{"negative precision", func(o *Options) { o.Precision = -1 }},
		{"column range", func(o *Options) { o.Normalize.EndColumn = o.Normalize.StartColumn }},
		{"zero window", func(o *Options) { o.MovingAverage.Window = 0 }},
		{"log format", func(o *Options) { o.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Defaults()
			tt.mutate(o)
			assert.Error(t, o.Validate())
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "regpipe.yaml")
	in := Defaults()
	in.BaseDir = "/srv/data"
	in.Folders = []int{3, 5}
	require.NoError(t, Save(in, path))

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestResolve(t *testing.T) {
	o := Defaults()
	o.BaseDir = "/data"
	assert.Equal(t, "/data/raw", o.Resolve("raw"))
	assert.Equal(t, "/data", o.Resolve("."))
	assert.Equal(t, "/abs/out", o.Resolve("/abs/out"))
	assert.Equal(t, "/data/combine", o.CombineRoot())
}

func TestLoadDotenv(t *testing.T) {
	const key = "REGPIPE_DOTENV_SAMPLE"
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-dotenv\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv(key) })

	require.NoError(t, LoadDotenv(path))
	assert.Equal(t, "from-dotenv", os.Getenv(key))

	assert.NoError(t, LoadDotenv(filepath.Join(t.TempDir(), "absent.env")))
}
