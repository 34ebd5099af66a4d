package log

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"

	perrors "github.com/scorpio-su/2023-IMDB/pkg/errors"
)

// ErrFmtHandler is a slog handler that enriches records carrying an error attribute.
// It adds the cockroachdb/errors stacktrace for fatal errors, and the input kind
// (missing, empty, malformed, degenerate) for recoverable ones. Recoverable errors
// are expected during a run, so they do not get a stacktrace.
type ErrFmtHandler struct {
	handler slog.Handler
}

// WrapByErrFmtHandler wraps the standard slog handler.
func WrapByErrFmtHandler(handler slog.Handler) slog.Handler {
	return &ErrFmtHandler{
		handler: handler,
	}
}

func (eh *ErrFmtHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return eh.handler.Enabled(ctx, l)
}

func (eh *ErrFmtHandler) Handle(ctx context.Context, r slog.Record) error {
	var found error
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key != ErrAttrKey {
			return true
		}
		if err, ok := attr.Value.Any().(error); ok {
			found = err
		}
		return false
	})
	if found == nil {
		return eh.handler.Handle(ctx, r)
	}

	if kind := perrors.KindOf(found); kind != "" {
		r.AddAttrs(slog.String(ErrorKindKey, string(kind)))
	} else if stacktrace := extractStacktrace(found); stacktrace != "" {
		r.AddAttrs(slog.String(StacktraceAttrKey, stacktrace))
	}
	return eh.handler.Handle(ctx, r)
}

func (eh *ErrFmtHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithAttrs(attrs)}
}

func (eh *ErrFmtHandler) WithGroup(g string) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithGroup(g)}
}

func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}
