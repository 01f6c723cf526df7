// Package logx builds the zap loggers used by services and commands.
package logx

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewConfig returns a console config: ISO8601 time, capital levels, short
// callers, no stacktraces.
func NewConfig(level zapcore.Level) zap.Config {
	return zap.Config{
		Level:    zap.NewAtomicLevelAt(level),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		DisableStacktrace: true,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}
}

// New builds a named logger at the given level ("debug", "info", "warn",
// "error"). An unknown level falls back to info.
func New(name, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	l, err := NewConfig(lvl).Build()
	if err != nil {
		return nil, err
	}
	return l.Named(name), nil
}
