package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar controls logging verbosity when no level is passed explicitly.
// When unset or empty, logging is silent.
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "HATUI_LOG_LEVEL"

// LogFileEnvVar overrides the log file location.
const LogFileEnvVar = "HATUI_LOG_FILE"

// Initialize creates the global logger.
//
// The dashboard owns the terminal, so output always goes to a file; path falls back
// to HATUI_LOG_FILE. If both level and HATUI_LOG_LEVEL are empty the logger is a nop.
func Initialize(level, path string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}
	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	if path == "" {
		path = os.Getenv(LogFileEnvVar)
	}
	if path == "" {
		return fmt.Errorf("log level %q set but no log file configured", level)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(parseLevel(level)),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{path},
		ErrorOutputPaths: []string{path},
	}
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		// explicitly set to something unknown
		return zapcore.InfoLevel
	}
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer cores.
func SetLogger(l *zap.Logger) {
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogRequest records one REST round trip.
func LogRequest(method, path string, status int, elapsed time.Duration, err error) {
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("elapsed", elapsed),
	}
	if err != nil {
		Warn("Request failed", append(fields, zap.Error(err))...)
		return
	}
	Debug("Request completed", fields...)
}

// LogServiceCall records an outgoing service invocation.
func LogServiceCall(domain, service, entityID string, extras map[string]any) {
	Info("Service call",
		zap.String("domain", domain),
		zap.String("service", service),
		zap.String("entity_id", entityID),
		zap.Any("extras", extras),
	)
}

// LogRefreshFailure records a tile whose state could not be fetched.
func LogRefreshFailure(entityID string, err error) {
	Warn("State refresh failed",
		zap.String("entity_id", entityID),
		zap.Error(err),
	)
}

// LogLayoutChange records a persisted dashboard mutation.
func LogLayoutChange(action, dashboard string, fields ...zap.Field) {
	Info("Layout changed",
		append([]zap.Field{zap.String("action", action), zap.String("dashboard", dashboard)}, fields...)...,
	)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
