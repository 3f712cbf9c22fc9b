// Package observability provides logging utilities.
package observability

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/tridentbot/internal/config"
)

// NewLogger creates a structured logger from the given logging configuration.
// Every entry carries a "service" field set to service.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig, service string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	// Chat traffic at debug level would otherwise be sampled away.
	zapCfg.Sampling = nil

	logger, err := zapCfg.Build(zap.Fields(zap.String("service", service)))
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// MigrateLogger adapts a zap.Logger to the golang-migrate Logger interface.
type MigrateLogger struct {
	logger *zap.SugaredLogger
}

// NewMigrateLogger wraps logger for migration progress output.
func NewMigrateLogger(logger *zap.Logger) MigrateLogger {
	return MigrateLogger{logger: logger.Named("migrate").Sugar()}
}

// Printf logs a migration progress line at info level.
func (l MigrateLogger) Printf(format string, v ...any) {
	l.logger.Infof(strings.TrimRight(format, "\n"), v...)
}

// Verbose reports whether golang-migrate should emit per-step detail.
func (l MigrateLogger) Verbose() bool {
	return l.logger.Desugar().Core().Enabled(zapcore.DebugLevel)
}
