package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	jobRunIDKey  contextKey = "job_run_id"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext retrieves the logger from context, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID adds request ID to context and returns the enriched logger
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	enriched := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, enriched), enriched
}

// WithJobRun tags the context with a background job run ID.
// Everything logged through L(ctx) afterwards carries job and run_id fields.
func WithJobRun(ctx context.Context, logger *zap.Logger, job, runID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, jobRunIDKey, runID)
	enriched := logger.With(zap.String("job", job), zap.String("run_id", runID))
	return WithContext(ctx, enriched), enriched
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetJobRunID retrieves the job run ID from context
func GetJobRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(jobRunIDKey).(string); ok {
		return runID
	}
	return ""
}

// L returns the context logger.
// Usage: logger.L(ctx).Info("message", zap.String("key", "value"))
func L(ctx context.Context) *zap.Logger {
	return FromContext(ctx)
}

// WithActor tags the context logger with the authenticated tenant and user
func WithActor(ctx context.Context, logger *zap.Logger, tenantID, userID string) (context.Context, *zap.Logger) {
	enriched := logger.With(zap.String("tenant_id", tenantID), zap.String("user_id", userID))
	return WithContext(ctx, enriched), enriched
}
