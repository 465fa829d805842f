// Package ctxlog passes a zap.Logger through context.Context.
package ctxlog

import (
	"context"

	"go.uber.org/zap"
)

// key is an unexported type to prevent collisions with context keys from other packages.
type key struct{}

// WithLogger returns a new context with the provided logger embedded.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, key{}, logger)
}

// FromContext extracts the logger from a context. If no logger is found, it
// returns a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(key{}).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return zap.NewNop()
}
