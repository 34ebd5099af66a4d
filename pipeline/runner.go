package pipeline

import (
	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/mat"

	"github.com/scorpio-su/2023-IMDB/config"
	"github.com/scorpio-su/2023-IMDB/linear"
	"github.com/scorpio-su/2023-IMDB/metrics"
	"github.com/scorpio-su/2023-IMDB/pkg/errors"
	"github.com/scorpio-su/2023-IMDB/pkg/log"
	"github.com/scorpio-su/2023-IMDB/table"
)

// Runner fits one single-feature OLS model per candidate target.
type Runner struct {
	Feature      string
	Targets      []string
	Precision    int
	FitIntercept bool
	Logger       log.Logger
}

// NewRunner builds a Runner from the options.
func NewRunner(opts *config.Options, logger log.Logger) *Runner {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &Runner{
		Feature:      opts.Feature,
		Targets:      opts.Targets,
		Precision:    opts.Precision,
		FitIntercept: opts.FitIntercept,
		Logger:       logger.With(log.ComponentKey, "runner"),
	}
}

// RunTargets regresses every candidate target present in df on the feature
// column. Results come back in candidate order, not table column order.
//
// A target absent from df is passed over without a trace beyond a debug record.
// A constant feature or a single-row table still yields a result: the slope is
// 0 and the intercept is the target mean. A target holding NaN/Inf values, or
// one whose least-squares solve fails outright, is returned as a SkippedUnit. A missing or non-finite feature column makes the
// whole unit unusable: the returned error is a recoverable InputError.
func (r *Runner) RunTargets(df dataframe.DataFrame, folder int, dataset, path string) ([]RegressionResult, []Fit, []SkippedUnit, error) {
	logger := r.Logger.With(log.FolderKey, folder, log.DatasetKey, dataset)

	x, err := table.Floats(df, r.Feature)
	if err != nil {
		return nil, nil, nil, errors.NewInputError(path, errors.InputMissing, errors.Newf("feature column %q not found", r.Feature))
	}
	if err := errors.CheckNumericalStability("feature:"+r.Feature, x); err != nil {
		return nil, nil, nil, errors.NewInputError(path, errors.InputMalformed, err)
	}

	n := len(x)
	if n == 0 {
		return nil, nil, nil, errors.NewInputError(path, errors.InputEmpty, nil)
	}
	X := mat.NewDense(n, 1, x)

	var (
		results []RegressionResult
		fits    []Fit
		skipped []SkippedUnit
	)
	for _, target := range r.Targets {
		if !table.HasColumn(df, target) {
			logger.Debug("Target column not present", log.TargetKey, target)
			continue
		}
		y, err := table.Floats(df, target)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := errors.CheckNumericalStability("target:"+target, y); err != nil {
			s := skip(StageRegress, folder, dataset, target, path, errors.NewInputError(path, errors.InputMalformed, err))
			logSkip(logger, s)
			skipped = append(skipped, s)
			continue
		}

		result, fit, err := r.fitTarget(X, y, target)
		if err != nil {
			s := skip(StageRegress, folder, dataset, target, path, errors.NewInputError(path, errors.InputDegenerate, err))
			logSkip(logger, s)
			skipped = append(skipped, s)
			continue
		}
		result.Folder = folder
		result.Dataset = dataset

		logger.Info("Regression results",
			log.TargetKey, target,
			log.MSEKey, table.FormatMetric(result.MSE, r.Precision),
			log.R2ScoreKey, table.FormatMetric(result.RSquared, r.Precision),
		)
		results = append(results, result)
		fits = append(fits, fit)
	}
	return results, fits, skipped, nil
}

func (r *Runner) fitTarget(X *mat.Dense, y []float64, target string) (RegressionResult, Fit, error) {
	n := len(y)
	lr := linear.NewLinearRegression(linear.WithFitIntercept(r.FitIntercept))
	if err := lr.Fit(X, mat.NewDense(n, 1, y)); err != nil {
		return RegressionResult{}, Fit{}, err
	}

	pred, err := lr.Predict(X)
	if err != nil {
		return RegressionResult{}, Fit{}, err
	}
	yPred, err := metrics.ColumnVector(pred)
	if err != nil {
		return RegressionResult{}, Fit{}, err
	}
	scores, err := metrics.Evaluate(mat.NewVecDense(n, y), yPred)
	if err != nil {
		return RegressionResult{}, Fit{}, err
	}
	r.Logger.Debug("Fit diagnostics",
		log.TargetKey, target,
		log.RMSEKey, scores.RMSE,
		log.MAEKey, scores.MAE,
	)

	result := RegressionResult{
		Target:    target,
		MSE:       scores.MSE,
		RSquared:  scores.RSquared,
		Intercept: lr.GetIntercept(),
		Slope:     lr.GetWeights()[0],
	}
	fit := Fit{
		Target: target,
		Model:  lr,
		X:      mat.Col(nil, 0, X),
		Y:      y,
		YPred:  mat.Col(nil, 0, yPred),
	}
	return result, fit, nil
}
