package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the application logger. "production" gets the JSON encoder at Info level,
// every other environment a colored console encoder at Debug level.
func New(environment string) (*zap.Logger, error) {
	if strings.EqualFold(strings.TrimSpace(environment), "production") {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg.Build()
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	return cfg.Build()
}

// NewOrNop is New that reports a construction error on stderr and falls back to a
// no-op logger.
func NewOrNop(environment string) *zap.Logger {
	return newOrNop(func() (*zap.Logger, error) { return New(environment) }, os.Stderr)
}

func newOrNop(build func() (*zap.Logger, error), stderr io.Writer) *zap.Logger {
	l, err := build()
	if err != nil {
		fmt.Fprintf(stderr, "logger: %v; logging disabled\n", err)
		return zap.NewNop()
	}
	return l
}
