package pipeline

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/scorpio-su/2023-IMDB/chart"
	"github.com/scorpio-su/2023-IMDB/linear"
	"github.com/scorpio-su/2023-IMDB/table"
)

// RegressionResult is the outcome of one fit. Folder is stamped when the result
// is created, so combined tables never depend on row order.
type RegressionResult struct {
	Folder    int
	Dataset   string
	Target    string
	MSE       float64
	RSquared  float64
	Intercept float64
	Slope     float64
}

// Row converts r to a results-table row.
func (r RegressionResult) Row() table.ResultRow {
	return table.ResultRow{Folder: r.Folder, Target: r.Target, MSE: r.MSE, RSquared: r.RSquared}
}

// Rows converts results to results-table rows, keeping the order.
func Rows(results []RegressionResult) []table.ResultRow {
	rows := make([]table.ResultRow, len(results))
	for i, r := range results {
		rows[i] = r.Row()
	}
	return rows
}

// Fit carries a fitted model with the data it was fitted on, for the artifact writer.
type Fit struct {
	Target string
	Model  *linear.LinearRegression
	X      []float64
	Y      []float64
	YPred  []float64
}

// FolderRSquared holds the R-squared values of one folder's targets, in target order.
type FolderRSquared struct {
	Folder int
	Values []float64
}

// Mean returns the mean R-squared, or NaN when the folder produced no results.
func (f FolderRSquared) Mean() float64 {
	if len(f.Values) == 0 {
		return math.NaN()
	}
	return stat.Mean(f.Values, nil)
}

// StageResult is what every stage reports back to the run.
type StageResult struct {
	Units   int
	Written []string
	Skipped []SkippedUnit
}

// AggregateResult is the output of Aggregator.Aggregate.
type AggregateResult struct {
	StageResult

	// Labels lists the dataset labels in configuration order.
	Labels []string
	// Results holds every RegressionResult per label, in folder order.
	Results map[string][]RegressionResult
	// RSquared holds, per label, one entry per folder whose results table was written.
	RSquared map[string][]FolderRSquared
}

// RSquaredLines returns one chart line per label: the mean R-squared of each
// folder's targets against the folder number.
func (a *AggregateResult) RSquaredLines() []chart.Line {
	lines := make([]chart.Line, 0, len(a.Labels))
	for _, label := range a.Labels {
		line := chart.Line{Label: label}
		for _, f := range a.RSquared[label] {
			line.X = append(line.X, float64(f.Folder))
			line.Y = append(line.Y, f.Mean())
		}
		lines = append(lines, line)
	}
	return lines
}
