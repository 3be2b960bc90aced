package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// contextKey is an unexported type so context values cannot collide.
type contextKey int

const loggerKey contextKey = iota

// WithLogger stores logger in ctx. A nil logger falls back to the default.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// Ctx is a short alias for FromContext.
func Ctx(ctx context.Context) *zerolog.Logger {
	return FromContext(ctx)
}

// WithField returns a ctx whose logger carries an extra field.
func WithField(ctx context.Context, key string, value any) context.Context {
	logger := FromContext(ctx).With().Interface(key, value).Logger()
	return WithLogger(ctx, &logger)
}

// WithFeed tags the context logger with the feed label being processed.
func WithFeed(ctx context.Context, label string) context.Context {
	logger := FromContext(ctx).With().Str("feed", label).Logger()
	return WithLogger(ctx, &logger)
}

// WithKeyword tags the context logger with the active search keyword.
func WithKeyword(ctx context.Context, keyword string) context.Context {
	logger := FromContext(ctx).With().Str("keyword", keyword).Logger()
	return WithLogger(ctx, &logger)
}

// WithOperation tags the context logger with a named operation.
func WithOperation(ctx context.Context, operation string) context.Context {
	logger := FromContext(ctx).With().Str("operation", operation).Logger()
	return WithLogger(ctx, &logger)
}
