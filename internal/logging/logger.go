// Package logging provides a small zap-backed structured logger factory.
// Components receive a *zap.Logger via constructor injection rather than
// reaching for a package-level global, so tests can swap in zap's no-op
// logger freely.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config carries the parameters New needs to build a logger; populated
// from CLI flags or a loaded config.Settings.
type Config struct {
	// Level is one of "debug", "info", "warn", "error"; unrecognized or
	// empty values default to "info".
	Level string
	// Console selects human-readable colored output instead of JSON,
	// for local development; production runs default to JSON.
	Console bool
	// OutputPath is a file path or "stdout"/"stderr"; empty defaults to
	// "stdout".
	OutputPath string
}

// New builds a *zap.Logger per cfg. Returns an error only if zap itself
// fails to open an output path.
func New(cfg Config) (*zap.Logger, error) {
	output := cfg.OutputPath
	if output == "" {
		output = "stdout"
	}

	encCfg := zap.NewProductionEncoderConfig()
	encoding := "json"
	if cfg.Console {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encoding = "console"
	}
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	zapCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(parseLevel(cfg.Level)),
		Development:      cfg.Console,
		Encoding:         encoding,
		EncoderConfig:    encCfg,
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}

	return zapCfg.Build()
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Nop returns a logger that discards everything, for tests and for
// callers that opt out of logging entirely.
func Nop() *zap.Logger { return zap.NewNop() }
