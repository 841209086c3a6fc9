// Package logging is the structured-logging surface of sealbox: a small
// context-aware interface, its log/slog implementation and an adapter that
// routes badger's printf-style output through it.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// Args are key-value pairs:
//
//	log.Info(ctx, "file shared", "file_id", id, "recipient_id", rid)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}
