// Package artifact persists what a regression leaves behind for one target:
// the fitted model and its scatter-with-fit-line plot.
//
// Every failure here is fatal for the run. Nothing is skipped.
package artifact

import (
	"os"
	"path/filepath"

	"github.com/scorpio-su/2023-IMDB/chart"
	"github.com/scorpio-su/2023-IMDB/core/model"
	"github.com/scorpio-su/2023-IMDB/linear"
	"github.com/scorpio-su/2023-IMDB/pkg/errors"
)

// Format selects how model files are written.
type Format string

const (
	// FormatGob writes the whole estimator with encoding/gob.
	FormatGob Format = "gob"
	// FormatJSON writes the portable ModelWeights document.
	FormatJSON Format = "json"
	// FormatBoth writes both files.
	FormatBoth Format = "both"
)

// ParseFormat validates a format name. The empty string means FormatGob.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatGob:
		return FormatGob, nil
	case FormatJSON, FormatBoth:
		return Format(s), nil
	}
	return "", errors.NewValidationError("model_format", "must be gob, json or both", s)
}

// ModelFileName is the base name, without extension, of the model file for target.
func ModelFileName(target string) string {
	return "linear_regression_model_" + target
}

// PlotFileName is the image name of the fit plot for target.
func PlotFileName(target string) string {
	return "linear_regression_plot_" + target + ".png"
}

// Meta describes where a model came from. It is recorded in the JSON weights.
type Meta struct {
	Folder  int
	Dataset string
	Feature string
	Target  string
}

// Writer writes model files and fit plots.
type Writer struct {
	Format Format
}

// NewWriter returns a Writer for the given format.
func NewWriter(format Format) *Writer {
	if format == "" {
		format = FormatGob
	}
	return &Writer{Format: format}
}

// WriteModel persists lr under dir and returns the paths written.
func (w *Writer) WriteModel(dir string, lr *linear.LinearRegression, meta Meta) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create directory %s", dir)
	}
	base := filepath.Join(dir, ModelFileName(meta.Target))

	var written []string
	if w.Format == FormatGob || w.Format == FormatBoth {
		path := base + ".gob"
		if err := model.SaveModel(lr, path); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	if w.Format == FormatJSON || w.Format == FormatBoth {
		mw, err := lr.ExportWeights()
		if err != nil {
			return written, err
		}
		mw.Features = []string{meta.Feature}
		mw.Target = meta.Target
		mw.Metadata["folder"] = meta.Folder
		mw.Metadata["dataset"] = meta.Dataset

		path := base + ".json"
		if err := model.SaveWeights(mw, path); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// WritePlot renders the observed values of target against the feature with the
// fitted line and returns the image path.
func (w *Writer) WritePlot(dir, target string, x, y, yPred []float64) (string, error) {
	path := filepath.Join(dir, PlotFileName(target))
	title := "Linear Regression for " + target
	if err := chart.ScatterFit(path, title, "Feature", target, x, y, yPred); err != nil {
		return "", err
	}
	return path, nil
}
