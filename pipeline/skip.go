package pipeline

import (
	"fmt"
	"strings"

	"github.com/scorpio-su/2023-IMDB/pkg/errors"
	"github.com/scorpio-su/2023-IMDB/pkg/log"
)

// Stage names the step that skipped a unit.
type Stage string

const (
	StageRegress       Stage = "regress"
	StageCombine       Stage = "combine"
	StageChart         Stage = "chart"
	StageNormalize     Stage = "normalize"
	StageMovingAverage Stage = "moving_average"
)

// SkippedUnit records a unit of work that was not processed and why.
// Target is empty when the whole (folder, dataset) unit was skipped.
type SkippedUnit struct {
	Stage   Stage
	Folder  int
	Dataset string
	Target  string
	Path    string
	Kind    errors.InputKind
	Reason  string
}

func (s SkippedUnit) String() string {
	var parts []string
	if s.Folder > 0 {
		parts = append(parts, fmt.Sprintf("folder %d", s.Folder))
	}
	if s.Dataset != "" {
		parts = append(parts, s.Dataset)
	}
	if s.Target != "" {
		parts = append(parts, s.Target)
	}
	unit := strings.Join(parts, " ")
	return fmt.Sprintf("%s: %s skipped (%s): %s", s.Stage, unit, s.Kind, s.Reason)
}

// skip builds a SkippedUnit from a recoverable error.
func skip(stage Stage, folder int, dataset, target, path string, err error) SkippedUnit {
	kind := errors.KindOf(err)
	if kind == "" {
		kind = errors.InputMalformed
	}
	return SkippedUnit{
		Stage:   stage,
		Folder:  folder,
		Dataset: dataset,
		Target:  target,
		Path:    path,
		Kind:    kind,
		Reason:  err.Error(),
	}
}

func logSkip(logger log.Logger, s SkippedUnit) {
	fields := []any{
		log.FolderKey, s.Folder,
		log.PathKey, s.Path,
		log.ErrorKindKey, string(s.Kind),
		"reason", s.Reason,
	}
	if s.Dataset != "" {
		fields = append(fields, log.DatasetKey, s.Dataset)
	}
	if s.Target != "" {
		fields = append(fields, log.TargetKey, s.Target)
	}
	logger.Warn("Skipped unit of work", fields...)
}
