// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while allowing users to plug
// any structured logger. It also offers a RunLogger with contextual helpers
// (run, component) and domain specific helpers for tool dispatch and oracle
// calls.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger defines the minimal structured logging interface used across the
// module. Arguments are slog-style alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// Config configures construction of a RunLogger.
type Config struct {
	Level     slog.Level
	Format    string // json or text
	Output    io.Writer
	AddSource bool
	Component string
}

// DefaultConfig returns a baseline JSON info level configuration.
func DefaultConfig() *Config {
	return &Config{Level: slog.LevelInfo, Format: "json", Output: os.Stdout}
}

// RunLogger is an slog-backed Logger with contextual cloning helpers and
// domain convenience methods. It is cheap to copy via With* methods.
type RunLogger struct {
	logger *slog.Logger
}

// NewRunLogger builds a RunLogger from a config (or defaults if nil).
func NewRunLogger(cfg *Config) *RunLogger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	opts := &slog.HandlerOptions{Level: cfg.Level, AddSource: cfg.AddSource}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(cfg.Output, opts)
	} else {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	}
	logger := slog.New(handler)
	if cfg.Component != "" {
		logger = logger.With("component", cfg.Component)
	}
	return &RunLogger{logger: logger}
}

// WithRun attaches a run identifier to every subsequent log entry.
func (l *RunLogger) WithRun(runID string) *RunLogger {
	return &RunLogger{logger: l.logger.With("run_id", runID)}
}

// WithComponent sets the logical component (runner, registry, oracle).
func (l *RunLogger) WithComponent(c string) *RunLogger {
	return &RunLogger{logger: l.logger.With("component", c)}
}

// Debug logs at debug level.
func (l *RunLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }

// Info logs at info level.
func (l *RunLogger) Info(msg string, args ...any) { l.logger.Info(msg, args...) }

// Warn logs at warn level.
func (l *RunLogger) Warn(msg string, args ...any) { l.logger.Warn(msg, args...) }

// Error logs at error level.
func (l *RunLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

// LogToolDispatch records execution details for one tool dispatch.
func (l *RunLogger) LogToolDispatch(toolName string, dur time.Duration, err error) {
	if err != nil {
		l.logger.Warn("tool dispatch failed", "tool", toolName, "duration", dur, "error", err.Error())
		return
	}
	l.logger.Info("tool dispatch completed", "tool", toolName, "duration", dur)
}

// LogOracleCall records latency and outcome of one oracle call.
func (l *RunLogger) LogOracleCall(dur time.Duration, err error) {
	if err != nil {
		l.logger.Error("oracle call failed", "duration", dur, "error", err.Error())
		return
	}
	l.logger.Info("oracle call completed", "duration", dur)
}

// NoOpLogger discards all log messages. Useful for testing or when logging
// is disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}
