package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// InputKind classifies a recoverable input failure.
type InputKind string

const (
	// InputMissing means an expected file or column does not exist.
	InputMissing InputKind = "missing"
	// InputEmpty means the file exists but holds no data rows.
	InputEmpty InputKind = "empty"
	// InputMalformed means the file exists but does not parse as a table,
	// or holds values that cannot be used (NaN, Inf, text in a numeric column).
	InputMalformed InputKind = "malformed"
	// InputDegenerate means the data parsed but the model cannot be fitted on it.
	InputDegenerate InputKind = "degenerate"
)

var (
	// ErrInputMissing is the sentinel matched by errors.Is for InputMissing.
	ErrInputMissing = New("input missing")
	// ErrInputEmpty is the sentinel matched by errors.Is for InputEmpty.
	ErrInputEmpty = New("input empty")
	// ErrInputMalformed is the sentinel matched by errors.Is for InputMalformed.
	ErrInputMalformed = New("input malformed")
	// ErrInputDegenerate is the sentinel matched by errors.Is for InputDegenerate.
	ErrInputDegenerate = New("input degenerate")
)

// InputError reports a unit of work that must be skipped.
// The caller logs it and proceeds with the next unit; it never aborts a run.
type InputError struct {
	Path string
	Kind InputKind
	Err  error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("regpipe: %s input %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("regpipe: %s input %s", e.Kind, e.Path)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrInputMissing) and friends match on the kind.
func (e *InputError) Is(target error) bool {
	switch target {
	case ErrInputMissing:
		return e.Kind == InputMissing
	case ErrInputEmpty:
		return e.Kind == InputEmpty
	case ErrInputMalformed:
		return e.Kind == InputMalformed
	case ErrInputDegenerate:
		return e.Kind == InputDegenerate
	}
	return false
}

// MarshalZerologObject adds the structured fields to a zerolog event.
func (e *InputError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("path", e.Path).
		Str("kind", string(e.Kind)).
		Str("type", "InputError")
	if e.Err != nil {
		event.Str("cause", e.Err.Error())
	}
}

// NewInputError creates an InputError with a stack trace.
func NewInputError(path string, kind InputKind, cause error) error {
	return errors.WithStack(&InputError{Path: path, Kind: kind, Err: cause})
}

// IsRecoverable reports whether err belongs to the skip-and-continue taxonomy.
// Anything else is fatal for the run.
func IsRecoverable(err error) bool {
	var inputErr *InputError
	return errors.As(err, &inputErr)
}

// KindOf returns the InputKind carried by err, or "" when err is not an InputError.
func KindOf(err error) InputKind {
	var inputErr *InputError
	if errors.As(err, &inputErr) {
		return inputErr.Kind
	}
	return ""
}
