// Package log defines standard attribute keys for pipeline operations.
//
// The keys follow a hierarchical naming convention (e.g. "pipeline.folder",
// "metrics.mse") so records from the aggregator, the combiner and the chart
// renderer can be filtered and joined on the same fields.

package log

// Run and component context.
const (
	// RunIDKey identifies one invocation of the pipeline. Every record of a run carries it.
	RunIDKey = "run.id"

	// ComponentKey identifies which component emitted the record.
	// Examples: "aggregator", "combiner", "chart", "normalizer"
	ComponentKey = "pipeline.component"

	// OperationKey specifies the operation being performed.
	// Standard values: see the Operation* constants below.
	OperationKey = "pipeline.operation"

	// ModelNameKey identifies the type of model being fitted.
	ModelNameKey = "model.name"
)

// Unit-of-work coordinates. A unit is one (folder, dataset, target) triple.
const (
	// FolderKey is the numbered input folder (1..13 by default).
	FolderKey = "pipeline.folder"

	// DatasetKey is the dataset-file label, e.g. "Regression_a".
	DatasetKey = "pipeline.dataset"

	// TargetKey is the target column, e.g. "y01_Normalize".
	TargetKey = "pipeline.target"

	// FeatureKey is the feature column the target is regressed on.
	FeatureKey = "pipeline.feature"

	// PathKey is the file the record refers to.
	PathKey = "io.path"

	// RowsKey is the number of rows read or written.
	RowsKey = "io.rows"
)

// Metrics.
const (
	// MSEKey records the mean squared error of a fit.
	MSEKey = "metrics.mse"

	// R2ScoreKey records R² coefficient of determination for regression.
	// Range typically [-∞, 1.0], with 1.0 being perfect prediction.
	R2ScoreKey = "metrics.r2_score"

	// RMSEKey and MAEKey are emitted at debug level next to the two reported metrics.
	RMSEKey = "metrics.rmse"
	MAEKey  = "metrics.mae"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Error context.
const (
	// ErrorKindKey is the recoverable input kind: missing, empty, malformed, degenerate.
	ErrorKindKey = "error.kind"

	// SkippedKey is the number of skipped units in a summary record.
	SkippedKey = "pipeline.skipped"
)

// Standard operation names.
const (
	OperationLoad      = "load"
	OperationFit       = "fit"
	OperationWrite     = "write"
	OperationCombine   = "combine"
	OperationRender    = "render"
	OperationNormalize = "normalize"
	OperationSmooth    = "moving_average"
)
