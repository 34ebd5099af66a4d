package pipeline

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/scorpio-su/2023-IMDB/chart"
	"github.com/scorpio-su/2023-IMDB/config"
	"github.com/scorpio-su/2023-IMDB/pkg/errors"
	"github.com/scorpio-su/2023-IMDB/pkg/log"
	"github.com/scorpio-su/2023-IMDB/preprocessing"
	"github.com/scorpio-su/2023-IMDB/table"
)

// MovingAverageDir is the directory holding the moving-average plots of file.
func MovingAverageDir(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file)) + "_MA_plots"
}

// MovingAverageJob plots every column of the raw files with its moving average.
type MovingAverageJob struct {
	Options *config.Options
	Logger  log.Logger
}

// NewMovingAverageJob returns a MovingAverageJob for the options.
func NewMovingAverageJob(opts *config.Options, logger log.Logger) *MovingAverageJob {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &MovingAverageJob{Options: opts, Logger: logger.With(log.ComponentKey, "moving_average")}
}

// Run reads <input_dir>/<folder>/<file>, uses the first column as the index and
// writes one plot per remaining column to
// <output_dir>/<folder>/<stem>_MA_plots/<column>_<window>_moving_average.png.
func (j *MovingAverageJob) Run() (StageResult, error) {
	opts := j.Options
	cfg := opts.MovingAverage
	in := opts.Resolve(cfg.InputDir)
	out := opts.Resolve(cfg.OutputDir)

	var res StageResult
	for _, folder := range opts.Folders {
		for _, file := range cfg.Files {
			res.Units++
			src := filepath.Join(in, strconv.Itoa(folder), file)
			logger := j.Logger.With(log.FolderKey, folder, log.PathKey, src)

			df, err := table.Load(src)
			if err != nil {
				if !errors.IsRecoverable(err) {
					return res, err
				}
				s := skip(StageMovingAverage, folder, file, "", src, err)
				logSkip(logger, s)
				res.Skipped = append(res.Skipped, s)
				continue
			}

			names := df.Names()
			index := df.Col(names[0]).Float()
			if errors.CheckNumericalStability("index", index) != nil {
				for i := range index {
					index[i] = float64(i)
				}
			}

			dir := filepath.Join(out, strconv.Itoa(folder), MovingAverageDir(file))
			for _, col := range names[1:] {
				values := df.Col(col).Float()
				ma, err := preprocessing.MovingAverage(values, cfg.Window)
				if err != nil {
					return res, err
				}
				path := filepath.Join(dir, chart.MovingAverageFileName(col, cfg.Window))
				if err := chart.RenderMovingAverage(path, col, index, values, ma, cfg.Window); err != nil {
					return res, err
				}
				res.Written = append(res.Written, path)
			}
			logger.Info("Moving-average plots written",
				log.OperationKey, log.OperationSmooth,
				"plots", len(names)-1,
			)
		}
	}
	return res, nil
}
