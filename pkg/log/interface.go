// Package log provides a structured logging interface for the regression pipeline.
//
// The interface is slog-compatible so the pipeline packages never depend on a
// concrete backend. Two backends ship with the package: an slog adapter (JSON
// records with cockroachdb/errors stack traces, see SetupLogger) and a zerolog
// console logger for interactive runs. TestLogger captures records for tests.
//
// Example usage:
//
//	logger := log.GetLogger().With(
//	    log.RunIDKey, runID,
//	    log.ComponentKey, "aggregator",
//	)
//	logger.Info("Regression results",
//	    log.FolderKey, 3,
//	    log.DatasetKey, "Regression_a",
//	    log.TargetKey, "y01_Normalize",
//	    log.MSEKey, "0.0123",
//	    log.R2ScoreKey, "0.9812",
//	)
package log

import (
	"context"
	"log/slog"
	"sync"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are alternating key/value pairs. A slog.Attr may also be passed in
// place of a pair. Error values are recognised by every implementation: pass
// them under ErrAttrKey.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message. Skipped units of work are reported here.
	Warn(msg string, fields ...any)

	// Error logs an error-level message. Fatal errors are reported here.
	//
	// Example:
	//   logger.Error("Failed to write results table",
	//       log.ErrAttrKey, err,
	//       log.PathKey, path,
	//   )
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4 // Detailed diagnostic information
	LevelInfo  Level = 0  // General operational information
	LevelWarn  Level = 4  // Warning conditions
	LevelError Level = 8  // Error conditions
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger
)

// GetLogger returns the process-wide logger. Until SetLogger is called it
// forwards to slog.Default().
func GetLogger() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	if defaultLogger == nil {
		return NewSlogLogger(slog.Default())
	}
	return defaultLogger
}

// SetLogger replaces the process-wide logger. Passing nil restores the slog default.
func SetLogger(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}
