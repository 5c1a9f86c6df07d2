package log

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/abkoesdw/esl/pkg/errors"
)

type zerologLogger struct {
	l zerolog.Logger
}

// NewZerologLogger adapts a zerolog.Logger to Logger. Errors passed as the
// first field of a record are attached with Err and, when they implement
// zerolog.LogObjectMarshaler, as a structured "error_detail" object.
func NewZerologLogger(l zerolog.Logger) Logger {
	return &zerologLogger{l: l}
}

// SetupZerolog installs a zerolog backend writing to w as the package default
// logger and routes errors.Warn through it. With console set, output is
// human readable instead of JSON.
func SetupZerolog(w io.Writer, level string, console bool) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", level)
	}
	out := w
	if console {
		out = zerolog.ConsoleWriter{Out: w}
	}
	zl := zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	SetLogger(NewZerologLogger(zl))
	errors.SetZerologWarnFunc(func(warning error) {
		ev := zl.Warn()
		var m zerolog.LogObjectMarshaler
		if errors.As(warning, &m) {
			ev = ev.Object("warning", m)
		}
		ev.Msg(warning.Error())
	})
	return nil
}

func (z *zerologLogger) emit(e *zerolog.Event, msg string, fields []any) {
	if e == nil {
		return
	}
	err, rest := splitError(fields)
	if err != nil {
		e = e.Err(err)
		var m zerolog.LogObjectMarshaler
		if errors.As(err, &m) {
			e = e.Object("error_detail", m)
		}
	}
	if len(rest) > 0 {
		e = e.Fields(rest)
	}
	e.Msg(msg)
}

func (z *zerologLogger) Debug(msg string, fields ...any) { z.emit(z.l.Debug(), msg, fields) }
func (z *zerologLogger) Info(msg string, fields ...any)  { z.emit(z.l.Info(), msg, fields) }
func (z *zerologLogger) Warn(msg string, fields ...any)  { z.emit(z.l.Warn(), msg, fields) }
func (z *zerologLogger) Error(msg string, fields ...any) { z.emit(z.l.Error(), msg, fields) }

func (z *zerologLogger) With(fields ...any) Logger {
	return &zerologLogger{l: z.l.With().Fields(fields).Logger()}
}

func (z *zerologLogger) Enabled(_ context.Context, level Level) bool {
	zl := toZerologLevel(level)
	return zl >= z.l.GetLevel() && zl >= zerolog.GlobalLevel()
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
