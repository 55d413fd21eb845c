// Package logger provides structured, context-aware logging for every
// component in this repository. The public surface intentionally mirrors
// a small, dependency-injectable interface so callers never depend on the
// concrete backend.
package logger

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Level is a logging severity, ordered from most to least verbose.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) zerologLevel() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ParseLevel converts a config string ("debug", "info", "warn", "error")
// into a Level, defaulting to LevelInfo for anything unrecognised.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// LoggerInterface is the contract every component logs through. It is
// satisfied by *Logger and by any test double a caller wants to supply.
type LoggerInterface interface {
	Debug(ctx context.Context, msg string, kv ...interface{})
	Info(ctx context.Context, msg string, kv ...interface{})
	Warn(ctx context.Context, msg string, kv ...interface{})
	Error(ctx context.Context, msg string, kv ...interface{})
	WithComponent(name string) LoggerInterface
}

// Logger is the zerolog-backed implementation of LoggerInterface.
type Logger struct {
	base zerolog.Logger
}

// New creates a Logger writing to w at the given level. service names the
// process for every emitted record; component, if non-empty, scopes this
// particular logger to a subsystem (e.g. "venue.binance.spot").
func New(w io.Writer, level Level, service string, component string) *Logger {
	if w == nil {
		w = os.Stdout
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	base := zerolog.New(w).With().
		Timestamp().
		Str("service", service).
		Logger().
		Level(level.zerologLevel())

	if component != "" {
		base = base.With().Str("component", component).Logger()
	}

	return &Logger{base: base}
}

// Discard returns a Logger that drops everything, for tests that don't
// care about log output but need a LoggerInterface to satisfy a contract.
func Discard() *Logger {
	return New(io.Discard, LevelError, "discard", "")
}

func (l *Logger) WithComponent(name string) LoggerInterface {
	return &Logger{base: l.base.With().Str("component", name).Logger()}
}

func (l *Logger) log(ctx context.Context, level zerolog.Level, msg string, kv []interface{}) {
	ev := l.base.WithLevel(level)
	if traceID := traceIDFromContext(ctx); traceID != "" {
		ev = ev.Str("trace_id", traceID)
	}
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, kv[i+1])
	}
	ev.Msg(msg)
}

func (l *Logger) Debug(ctx context.Context, msg string, kv ...interface{}) {
	l.log(ctx, zerolog.DebugLevel, msg, kv)
}

func (l *Logger) Info(ctx context.Context, msg string, kv ...interface{}) {
	l.log(ctx, zerolog.InfoLevel, msg, kv)
}

func (l *Logger) Warn(ctx context.Context, msg string, kv ...interface{}) {
	l.log(ctx, zerolog.WarnLevel, msg, kv)
}

func (l *Logger) Error(ctx context.Context, msg string, kv ...interface{}) {
	l.log(ctx, zerolog.ErrorLevel, msg, kv)
}

type traceIDKey struct{}

// ContextWithTraceID attaches a trace id to ctx for correlation with spans
// emitted by internal/apm.
func ContextWithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, id)
}

func traceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}
