package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ZerologLogger implements Logger on top of zerolog. It is the console backend
// of the CLI; typed errors from pkg/errors are emitted as nested objects.
type ZerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger creates a logger writing to w at the given minimum level.
// With console set, records are rendered by zerolog.ConsoleWriter instead of JSON.
func NewZerologLogger(w io.Writer, level Level, console bool) *ZerologLogger {
	out := w
	if console {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	zl := zerolog.New(out).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &ZerologLogger{zl: zl}
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

func (z *ZerologLogger) Debug(msg string, fields ...any) { emit(z.zl.Debug(), msg, fields) }
func (z *ZerologLogger) Info(msg string, fields ...any)  { emit(z.zl.Info(), msg, fields) }
func (z *ZerologLogger) Warn(msg string, fields ...any)  { emit(z.zl.Warn(), msg, fields) }
func (z *ZerologLogger) Error(msg string, fields ...any) { emit(z.zl.Error(), msg, fields) }

// Warning logs a pkg/errors warning. It is installed with errors.SetZerologWarnFunc.
func (z *ZerologLogger) Warning(w error) {
	emit(z.zl.Warn(), "warning", []any{"warning", w})
}

func (z *ZerologLogger) With(fields ...any) Logger {
	ctx := z.zl.With()
	eachField(fields, func(key string, value any) {
		switch v := value.(type) {
		case error:
			ctx = ctx.AnErr(key, v)
		case string:
			ctx = ctx.Str(key, v)
		default:
			ctx = ctx.Interface(key, v)
		}
	})
	return &ZerologLogger{zl: ctx.Logger()}
}

func (z *ZerologLogger) Enabled(_ context.Context, level Level) bool {
	return toZerologLevel(level) >= z.zl.GetLevel()
}

func emit(e *zerolog.Event, msg string, fields []any) {
	if e == nil {
		return
	}
	eachField(fields, func(key string, value any) {
		addValue(e, key, value)
	})
	e.Msg(msg)
}

// eachField walks key/value pairs; a slog.Attr counts as one complete pair.
func eachField(fields []any, fn func(key string, value any)) {
	for i := 0; i < len(fields); {
		if attr, ok := fields[i].(slog.Attr); ok {
			fn(attr.Key, attr.Value.Any())
			i++
			continue
		}
		if i+1 >= len(fields) {
			fn("!BADKEY", fields[i])
			return
		}
		fn(fmt.Sprint(fields[i]), fields[i+1])
		i += 2
	}
}

func addValue(e *zerolog.Event, key string, value any) {
	switch v := value.(type) {
	case error:
		e.AnErr(key, v)
		var m zerolog.LogObjectMarshaler
		if errors.As(v, &m) {
			e.Object(key+"_detail", m)
		}
	case zerolog.LogObjectMarshaler:
		e.Object(key, v)
	case string:
		e.Str(key, v)
	case int:
		e.Int(key, v)
	case float64:
		e.Float64(key, v)
	case bool:
		e.Bool(key, v)
	case time.Duration:
		e.Dur(key, v)
	default:
		e.Interface(key, v)
	}
}
