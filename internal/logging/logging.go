// Package logging carries a zerolog logger through a context.Context so
// library components can emit structured events without depending on a
// process-global logger. The zero state is a disabled logger: unless the
// host application supplies one, the library stays silent.
package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey struct{}

// WithContext returns a child context carrying the given logger.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger stored in ctx by WithContext, or a
// disabled logger when none is present.
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(ctxKey{}).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}
