// Package logging builds the zap loggers used by the command line tools.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel converts a level name into a zap level. An empty name means
// info.
func ParseLevel(name string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", name)
	}
}

// New creates a sugared logger writing to w. JSON output is meant for
// machines, console output for people.
func New(level zapcore.Level, w io.Writer, json bool) *zap.SugaredLogger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var encoder zapcore.Encoder
	if json {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), level)

	return zap.New(core).Sugar()
}

// NewFromEnv creates a console logger on stderr with the level taken from
// LOG_LEVEL.
func NewFromEnv() *zap.SugaredLogger {
	level, err := ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = zapcore.InfoLevel
	}

	return New(level, os.Stderr, false)
}
