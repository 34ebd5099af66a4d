// Package pipeline runs the regression-and-reporting workflow over a tree of
// numbered folders:
//
//	<base>/<folder>/<dataset file>                      input, one per dataset label
//	<base>/<folder>/<label>/<label>_regression_results.csv
//	<base>/<folder>/<label>/linear_regression_model_<target>.gob
//	<base>/<folder>/<label>/linear_regression_plot_<target>.png
//	<base>/<combine>/combined_<label>_regression_results.csv
//
// The Aggregator fits one single-feature OLS model per (folder, dataset, target),
// the Combiner stacks the per-folder tables in folder order, and the Normalizer
// and MovingAverageJob prepare and inspect the raw inputs.
//
// Input problems never abort a stage. A missing, empty, malformed or degenerate
// unit of work becomes a SkippedUnit and the stage moves on. Write failures are
// returned as errors and end the run.
package pipeline
