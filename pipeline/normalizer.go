package pipeline

import (
	"path/filepath"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/mat"

	"github.com/scorpio-su/2023-IMDB/config"
	"github.com/scorpio-su/2023-IMDB/pkg/errors"
	"github.com/scorpio-su/2023-IMDB/pkg/log"
	"github.com/scorpio-su/2023-IMDB/preprocessing"
	"github.com/scorpio-su/2023-IMDB/table"
)

// NormalizedFileName is the output name of a normalized raw file.
func NormalizedFileName(file string) string {
	return "normalized_" + file
}

// Normalizer z-scores a column range of every raw file and writes the
// regression inputs.
type Normalizer struct {
	Options *config.Options
	Logger  log.Logger
}

// NewNormalizer returns a Normalizer for the options.
func NewNormalizer(opts *config.Options, logger log.Logger) *Normalizer {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &Normalizer{Options: opts, Logger: logger.With(log.ComponentKey, "normalizer")}
}

// Run normalizes <input_dir>/<folder>/<file> into
// <output_dir>/<folder>/normalized_<file> for every folder and file.
func (n *Normalizer) Run() (StageResult, error) {
	opts := n.Options
	in := opts.Resolve(opts.Normalize.InputDir)
	out := opts.Resolve(opts.Normalize.OutputDir)

	var res StageResult
	for _, folder := range opts.Folders {
		for _, file := range opts.Normalize.Files {
			res.Units++
			src := filepath.Join(in, strconv.Itoa(folder), file)
			dst := filepath.Join(out, strconv.Itoa(folder), NormalizedFileName(file))
			logger := n.Logger.With(log.FolderKey, folder, log.PathKey, src)

			df, err := n.normalize(src)
			if err != nil {
				if !errors.IsRecoverable(err) {
					return res, err
				}
				s := skip(StageNormalize, folder, file, "", src, err)
				logSkip(logger, s)
				res.Skipped = append(res.Skipped, s)
				continue
			}
			if err := table.WriteCSV(dst, df); err != nil {
				return res, err
			}
			res.Written = append(res.Written, dst)
			logger.Info("Normalization complete", log.OperationKey, log.OperationNormalize, "output", dst)
		}
	}
	return res, nil
}

// normalize loads src as text, replaces columns [start, end) with their
// z-scores and applies the configured header row. Untouched columns are
// written back exactly as read.
func (n *Normalizer) normalize(src string) (dataframe.DataFrame, error) {
	cfg := n.Options.Normalize
	df, err := table.LoadText(src)
	if err != nil {
		return df, err
	}

	names := df.Names()
	end := cfg.EndColumn
	if end > len(names) {
		end = len(names)
	}
	if cfg.StartColumn >= end {
		return df, errors.NewInputError(src, errors.InputMalformed,
			errors.Newf("no columns in range [%d, %d) of %d", cfg.StartColumn, cfg.EndColumn, len(names)))
	}
	if len(cfg.Headers) > 0 && len(cfg.Headers) != len(names) {
		return df, errors.NewInputError(src, errors.InputMalformed,
			errors.Newf("%d headers configured for %d columns", len(cfg.Headers), len(names)))
	}

	cols := names[cfg.StartColumn:end]
	rows := df.Nrow()
	X := mat.NewDense(rows, len(cols), nil)
	for j, col := range cols {
		values := df.Col(col).Float()
		if err := errors.CheckNumericalStability("column:"+col, values); err != nil {
			return df, errors.NewInputError(src, errors.InputMalformed, err)
		}
		X.SetCol(j, values)
	}

	// A zero-std column is only centred (written as 0), not divided into NaN.
	scaler := preprocessing.NewStandardScalerDefault().WithDDoF(cfg.DDoF)
	Z, err := scaler.FitTransform(X)
	if err != nil {
		return df, errors.NewInputError(src, errors.InputDegenerate, err)
	}
	n.Logger.Debug("Columns standardized", log.PathKey, src, "columns", cols, "scaler", scaler.String())

	for j, col := range cols {
		values := make([]string, rows)
		for i := range values {
			values[i] = strconv.FormatFloat(Z.At(i, j), 'g', -1, 64)
		}
		df = df.Mutate(series.New(values, series.String, col))
	}
	if df.Err != nil {
		return df, errors.Wrapf(df.Err, "normalize %s", src)
	}

	if len(cfg.Headers) > 0 {
		if err := df.SetNames(cfg.Headers...); err != nil {
			return df, errors.NewInputError(src, errors.InputMalformed, err)
		}
	}
	return df, nil
}
