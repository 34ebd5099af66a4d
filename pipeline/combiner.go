package pipeline

import (
	"path/filepath"

	"github.com/go-gota/gota/dataframe"

	"github.com/scorpio-su/2023-IMDB/config"
	"github.com/scorpio-su/2023-IMDB/pkg/errors"
	"github.com/scorpio-su/2023-IMDB/pkg/log"
	"github.com/scorpio-su/2023-IMDB/table"
)

// CombinedFileName is the combined table of a dataset label.
func CombinedFileName(label string) string {
	return "combined_" + ResultsFileName(label)
}

// CombineResult is the output of Combiner.Combine.
type CombineResult struct {
	StageResult

	// Labels lists the labels that produced a combined table, in configuration order.
	Labels []string
	Tables map[string]dataframe.DataFrame
	Paths  map[string]string
}

// Combiner stacks the per-folder results tables of each dataset label.
type Combiner struct {
	Options *config.Options
	Logger  log.Logger
}

// NewCombiner returns a Combiner for the options.
func NewCombiner(opts *config.Options, logger log.Logger) *Combiner {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &Combiner{Options: opts, Logger: logger.With(log.ComponentKey, "combiner")}
}

// Combine concatenates, for each label, the results tables of all folders in
// configured folder order and writes the combined table. Every row carries its
// folder, so a missing folder shows up as a gap instead of shifting rows.
//
// A missing or malformed per-folder table is skipped. A header-only table adds
// no rows and is not reported as skipped. A label with no rows at all writes no file.
func (c *Combiner) Combine() (*CombineResult, error) {
	opts := c.Options
	res := &CombineResult{
		Tables: make(map[string]dataframe.DataFrame),
		Paths:  make(map[string]string),
	}

	for _, label := range opts.DatasetLabels() {
		logger := c.Logger.With(log.DatasetKey, label)

		var frames []dataframe.DataFrame
		for _, folder := range opts.Folders {
			res.Units++
			path := filepath.Join(OutputDir(opts.BaseDir, folder, label), ResultsFileName(label))
			df, err := c.load(path, folder)
			if err != nil {
				if !errors.IsRecoverable(err) {
					return res, err
				}
				if errors.Is(err, errors.ErrInputEmpty) {
					logger.Debug("Results table has no rows", log.FolderKey, folder, log.PathKey, path)
					continue
				}
				s := skip(StageCombine, folder, label, "", path, err)
				logSkip(logger, s)
				res.Skipped = append(res.Skipped, s)
				continue
			}
			frames = append(frames, df)
		}

		if len(frames) == 0 {
			logger.Info("No results to combine")
			continue
		}
		combined, err := table.Concat(frames...)
		if err != nil {
			return res, err
		}

		out := filepath.Join(opts.CombineRoot(), CombinedFileName(label))
		if err := table.WriteCSV(out, combined); err != nil {
			return res, err
		}
		logger.Info("Combined table written",
			log.OperationKey, log.OperationCombine,
			log.PathKey, out,
			log.RowsKey, combined.Nrow(),
		)

		res.Labels = append(res.Labels, label)
		res.Tables[label] = combined
		res.Paths[label] = out
		res.Written = append(res.Written, out)
	}
	return res, nil
}

// load reads one per-folder table as text and stamps the folder column when it
// predates it.
func (c *Combiner) load(path string, folder int) (dataframe.DataFrame, error) {
	df, err := table.LoadText(path)
	if err != nil {
		return df, err
	}
	for _, col := range []string{table.ColTarget, table.ColMSE, table.ColRSquared} {
		if !table.HasColumn(df, col) {
			return df, errors.NewInputError(path, errors.InputMalformed, errors.Newf("missing column %q", col))
		}
	}
	df = table.StampFolder(df, folder)
	if df.Err != nil {
		return df, errors.NewInputError(path, errors.InputMalformed, df.Err)
	}
	return df, nil
}
