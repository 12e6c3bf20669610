package log

import (
	"context"
	"log/slog"

	"ledger/internal/core"
)

type contextKey struct{}

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext extracts a logger from ctx, falling back to slog.Default.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(contextKey{}).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

// StructuredLogger provides the recurring ledger log lines
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

// LogTransaction logs a successful mutation of one transaction
func (sl *StructuredLogger) LogTransaction(ctx context.Context, operation string, t core.Transaction) {
	fields := NewFields().
		WithTransaction(t).
		WithOperation(operation)
	fields[FieldSuccess] = true

	sl.logger.InfoContext(ctx, "Transaction "+operation+"d", fields.ToSlice()...)
}

// LogError logs an error with its operation and classification. Validation
// and not-found errors are user mistakes and log at Warn.
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	all := fields.
		WithError(err).
		WithOperation(operation)

	switch ErrorType(err) {
	case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeConfiguration:
		sl.logger.WarnContext(ctx, msg, all.ToSlice()...)
	default:
		sl.logger.ErrorContext(ctx, msg, all.ToSlice()...)
	}
}
