package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Initialize sets up the global zap logger. Production code calls this once
// at startup; packages log through zap.S()/zap.L() afterwards. Tests get the
// zap default (no-op) unless they initialize explicitly.
func Initialize(level string, useJSON bool) {
	cfg := zap.NewProductionConfig()
	if !useJSON {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))

	logger, err := cfg.Build(zap.AddCaller())
	if err != nil {
		// Config is static; this only fires on programmer error.
		panic("logger: " + err.Error())
	}
	zap.ReplaceGlobals(logger)
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
