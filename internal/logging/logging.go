package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a JSON logger writing to stderr at the given level
// ("debug", "info", "warn" or "error"; empty means info).
func New(level string) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	cfg.Sampling = nil

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// ParseLevel maps a level name to a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	s := strings.TrimSpace(level)
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	switch lvl, err := zapcore.ParseLevel(strings.ToLower(s)); {
	case err != nil:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	case lvl > zapcore.ErrorLevel:
		return zapcore.InfoLevel, fmt.Errorf("unsupported log level %q", level)
	default:
		return lvl, nil
	}
}
