package pipeline

import (
	"sort"
	"time"

	"github.com/scorpio-su/2023-IMDB/pkg/errors"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFatal   = 1
	ExitSkipped = 2
)

// Report summarises one run across all the stages it executed.
type Report struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Stages   []string
	Units    int
	Written  []string
	Skipped  []SkippedUnit
}

// NewReport starts a report for the run.
func NewReport(runID string, started time.Time) *Report {
	return &Report{RunID: runID, Started: started}
}

// Add folds a stage's outcome into the report.
func (r *Report) Add(stage Stage, res StageResult) {
	r.Stages = append(r.Stages, string(stage))
	r.Units += res.Units
	r.Written = append(r.Written, res.Written...)
	r.Skipped = append(r.Skipped, res.Skipped...)
}

// Finish stamps the end time.
func (r *Report) Finish(t time.Time) {
	r.Finished = t
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	if r.Finished.IsZero() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}

// SkippedByKind counts skipped units per kind.
func (r *Report) SkippedByKind() map[errors.InputKind]int {
	counts := make(map[errors.InputKind]int)
	for _, s := range r.Skipped {
		counts[s.Kind]++
	}
	return counts
}

// Kinds returns the skipped kinds in a stable order.
func (r *Report) Kinds() []errors.InputKind {
	counts := r.SkippedByKind()
	kinds := make([]errors.InputKind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// ExitCode is ExitSkipped when any unit was skipped, ExitOK otherwise.
// Fatal errors never reach a finished report; the caller exits with ExitFatal.
func (r *Report) ExitCode() int {
	if len(r.Skipped) > 0 {
		return ExitSkipped
	}
	return ExitOK
}
