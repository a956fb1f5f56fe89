package jwtvalidator

import (
	"fmt"
	"log"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

// Logger defines an optional logging interface used throughout the
// middleware. It is compatible with log/slog.Logger; a *slog.Logger can
// be passed to WithLogger directly. Adapters for logrus, zerolog, and
// zap are provided below.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// DefaultLogger is a simple Logger backed by the standard library log
// package.
type DefaultLogger struct{}

func (l *DefaultLogger) Debug(msg string, args ...any) { logPrint("DEBUG", msg, args) }
func (l *DefaultLogger) Info(msg string, args ...any)  { logPrint("INFO", msg, args) }
func (l *DefaultLogger) Warn(msg string, args ...any)  { logPrint("WARN", msg, args) }
func (l *DefaultLogger) Error(msg string, args ...any) { logPrint("ERROR", msg, args) }

func logPrint(level, msg string, args []any) {
	if len(args) == 0 {
		log.Printf("%s: %s", level, msg)
		return
	}
	log.Printf("%s: %s %v", level, msg, args)
}

// kvFields converts slog-style alternating key/value arguments into a
// field map for structured backends.
func kvFields(args []any) map[string]any {
	fields := make(map[string]any, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		fields[key] = args[i+1]
	}
	return fields
}

// NewLogrusLogger returns a Logger adapter for logrus.FieldLogger.
func NewLogrusLogger(l logrus.FieldLogger) Logger {
	return &logrusLoggerAdapter{l}
}

type logrusLoggerAdapter struct{ l logrus.FieldLogger }

func (a *logrusLoggerAdapter) Debug(msg string, args ...any) {
	a.l.WithFields(kvFields(args)).Debug(msg)
}
func (a *logrusLoggerAdapter) Info(msg string, args ...any) {
	a.l.WithFields(kvFields(args)).Info(msg)
}
func (a *logrusLoggerAdapter) Warn(msg string, args ...any) {
	a.l.WithFields(kvFields(args)).Warn(msg)
}
func (a *logrusLoggerAdapter) Error(msg string, args ...any) {
	a.l.WithFields(kvFields(args)).Error(msg)
}

// NewZerologLogger returns a Logger adapter for zerolog.Logger.
func NewZerologLogger(l zerolog.Logger) Logger {
	return &zerologLoggerAdapter{l}
}

type zerologLoggerAdapter struct{ l zerolog.Logger }

func (a *zerologLoggerAdapter) Debug(msg string, args ...any) {
	a.l.Debug().Fields(kvFields(args)).Msg(msg)
}
func (a *zerologLoggerAdapter) Info(msg string, args ...any) {
	a.l.Info().Fields(kvFields(args)).Msg(msg)
}
func (a *zerologLoggerAdapter) Warn(msg string, args ...any) {
	a.l.Warn().Fields(kvFields(args)).Msg(msg)
}
func (a *zerologLoggerAdapter) Error(msg string, args ...any) {
	a.l.Error().Fields(kvFields(args)).Msg(msg)
}

// NewZapLogger returns a Logger adapter for zap.SugaredLogger.
func NewZapLogger(l *zap.SugaredLogger) Logger {
	return &zapLoggerAdapter{l}
}

type zapLoggerAdapter struct{ l *zap.SugaredLogger }

func (a *zapLoggerAdapter) Debug(msg string, args ...any) { a.l.Debugw(msg, args...) }
func (a *zapLoggerAdapter) Info(msg string, args ...any)  { a.l.Infow(msg, args...) }
func (a *zapLoggerAdapter) Warn(msg string, args ...any)  { a.l.Warnw(msg, args...) }
func (a *zapLoggerAdapter) Error(msg string, args ...any) { a.l.Errorw(msg, args...) }
