package pipeline

import (
	"path/filepath"
	"strconv"
	"time"

	"github.com/scorpio-su/2023-IMDB/artifact"
	"github.com/scorpio-su/2023-IMDB/config"
	"github.com/scorpio-su/2023-IMDB/pkg/errors"
	"github.com/scorpio-su/2023-IMDB/pkg/log"
	"github.com/scorpio-su/2023-IMDB/table"
)

// ResultsFileName is the per-folder results table of a dataset label.
func ResultsFileName(label string) string {
	return label + "_regression_results.csv"
}

// OutputDir is where the artifacts and results table of (folder, label) go.
func OutputDir(base string, folder int, label string) string {
	return filepath.Join(base, strconv.Itoa(folder), label)
}

// Aggregator runs the Runner over every (folder, dataset) pair.
type Aggregator struct {
	Options *config.Options
	Runner  *Runner
	Writer  *artifact.Writer
	Logger  log.Logger
}

// NewAggregator wires a Runner and an artifact Writer from the options.
func NewAggregator(opts *config.Options, logger log.Logger) (*Aggregator, error) {
	if logger == nil {
		logger = log.GetLogger()
	}
	format, err := artifact.ParseFormat(opts.ModelFormat)
	if err != nil {
		return nil, err
	}
	return &Aggregator{
		Options: opts,
		Runner:  NewRunner(opts, logger),
		Writer:  artifact.NewWriter(format),
		Logger:  logger.With(log.ComponentKey, "aggregator"),
	}, nil
}

// Aggregate visits folders in configured order and, inside each folder, the
// datasets in configured order. For every pair whose source file loads it
// writes the model files, the fit plots and the results table.
//
// A source file that is missing, empty or malformed skips the pair. Any write
// failure stops the run and is returned.
func (a *Aggregator) Aggregate() (res *AggregateResult, err error) {
	defer errors.Recover(&err, "Aggregator.Aggregate")

	opts := a.Options
	res = &AggregateResult{
		Labels:   opts.DatasetLabels(),
		Results:  make(map[string][]RegressionResult),
		RSquared: make(map[string][]FolderRSquared),
	}

	for _, folder := range opts.Folders {
		for _, ds := range opts.Datasets {
			res.Units++
			if err = a.aggregateOne(res, folder, ds); err != nil {
				return res, err
			}
		}
	}

	a.Logger.Info("Aggregation finished",
		log.OperationKey, log.OperationFit,
		"units", res.Units,
		log.SkippedKey, len(res.Skipped),
	)
	return res, nil
}

func (a *Aggregator) aggregateOne(res *AggregateResult, folder int, ds config.Dataset) error {
	opts := a.Options
	logger := a.Logger.With(log.FolderKey, folder, log.DatasetKey, ds.Label)
	src := filepath.Join(opts.BaseDir, strconv.Itoa(folder), ds.File)

	start := time.Now()
	df, err := table.Load(src)
	if err != nil {
		if !errors.IsRecoverable(err) {
			return err
		}
		s := skip(StageRegress, folder, ds.Label, "", src, err)
		logSkip(logger, s)
		res.Skipped = append(res.Skipped, s)
		return nil
	}
	logger.Debug("Loaded source table", log.PathKey, src, log.RowsKey, df.Nrow())

	results, fits, skipped, err := a.Runner.RunTargets(df, folder, ds.Label, src)
	res.Skipped = append(res.Skipped, skipped...)
	if err != nil {
		if !errors.IsRecoverable(err) {
			return err
		}
		s := skip(StageRegress, folder, ds.Label, "", src, err)
		logSkip(logger, s)
		res.Skipped = append(res.Skipped, s)
		return nil
	}

	outDir := OutputDir(opts.BaseDir, folder, ds.Label)
	for _, fit := range fits {
		meta := artifact.Meta{Folder: folder, Dataset: ds.Label, Feature: opts.Feature, Target: fit.Target}
		paths, err := a.Writer.WriteModel(outDir, fit.Model, meta)
		if err != nil {
			return err
		}
		res.Written = append(res.Written, paths...)

		plot, err := a.Writer.WritePlot(outDir, fit.Target, fit.X, fit.Y, fit.YPred)
		if err != nil {
			return err
		}
		res.Written = append(res.Written, plot)
	}

	resultsPath := filepath.Join(outDir, ResultsFileName(ds.Label))
	if err := table.WriteResults(resultsPath, Rows(results), opts.Precision); err != nil {
		return err
	}
	res.Written = append(res.Written, resultsPath)
	logger.Info("Results table written",
		log.OperationKey, log.OperationWrite,
		log.PathKey, resultsPath,
		log.RowsKey, len(results),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	values := make([]float64, len(results))
	for i, r := range results {
		values[i] = r.RSquared
	}
	res.Results[ds.Label] = append(res.Results[ds.Label], results...)
	res.RSquared[ds.Label] = append(res.RSquared[ds.Label], FolderRSquared{Folder: folder, Values: values})
	return nil
}
