// Package logger defines the structured logging contract used across the sample application.
// The concrete implementation lives in internal/infrastructure/monitoring and is backed by zap.
package logger

import "context"

// Fields is a set of key/value pairs attached to a log entry.
type Fields map[string]interface{}

// Logger is the structured logger used by every component.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...Fields)
	Info(ctx context.Context, msg string, fields ...Fields)
	Warn(ctx context.Context, msg string, fields ...Fields)
	Error(ctx context.Context, msg string, err error, fields ...Fields)
	// Fatal logs the message and terminates the process.
	Fatal(ctx context.Context, msg string, err error, fields ...Fields)

	// WithFields returns a child logger that adds fields to every entry.
	WithFields(fields Fields) Logger
	// ForContext returns the logger stored in ctx, or the receiver when there is none.
	ForContext(ctx context.Context) Logger
	// SetLevel changes the minimum level at runtime.
	SetLevel(level string) error
}
