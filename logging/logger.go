// Package logging provides the leveled logger threaded through every
// planner constructor. It is a thin wrapper over zap's SugaredLogger,
// mirroring the call shape of go.viam.com/rdk/logging (Named loggers
// passed explicitly rather than a package-level global).
package logging

import (
	"go.uber.org/zap"
)

// Logger is the leveled logging interface used throughout this module.
type Logger interface {
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Named(name string) Logger
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// FromZapCompatible wraps an existing *zap.SugaredLogger.
func FromZapCompatible(sugar *zap.SugaredLogger) Logger {
	return &zapLogger{sugar: sugar}
}

// NewLogger returns a development-mode logger writing to stderr, suitable
// for test fixtures and standalone tools.
func NewLogger(name string) Logger {
	z, err := zap.NewDevelopment()
	if err != nil {
		z = zap.NewNop()
	}
	return &zapLogger{sugar: z.Sugar().Named(name)}
}

// NewTestLogger returns a logger suitable for use inside `go test`; it
// discards everything logged to it.
func NewTestLogger() Logger {
	return &zapLogger{sugar: zap.NewNop().Sugar()}
}

func (l *zapLogger) Debug(args ...interface{}) { l.sugar.Debug(args...) }
func (l *zapLogger) Debugf(template string, args ...interface{}) { l.sugar.Debugf(template, args...) }
func (l *zapLogger) Info(args ...interface{}) { l.sugar.Info(args...) }
func (l *zapLogger) Infof(template string, args ...interface{}) { l.sugar.Infof(template, args...) }
func (l *zapLogger) Warn(args ...interface{}) { l.sugar.Warn(args...) }
func (l *zapLogger) Warnf(template string, args ...interface{}) { l.sugar.Warnf(template, args...) }
func (l *zapLogger) Error(args ...interface{}) { l.sugar.Error(args...) }
func (l *zapLogger) Errorf(template string, args ...interface{}) { l.sugar.Errorf(template, args...) }

func (l *zapLogger) Named(name string) Logger {
	return &zapLogger{sugar: l.sugar.Named(name)}
}
