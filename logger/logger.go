// Package logger wraps log/slog with a process-wide logger and a
// request-scoped logger carried in the context.
//
//	log := logger.FromCtx(ctx)
//	log.Info("cart item added", "user_id", userID, "product_id", productID)
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"gin-bytemarket/config"
)

// L is the base logger. It is replaced by Setup.
var L = slog.New(slog.NewTextHandler(os.Stdout, nil))

type ctxKey struct{}

// Setup builds the base logger for the current environment: JSON in prod,
// human readable text everywhere else.
func Setup() *slog.Logger {
	L = New(os.Stdout, config.IsProd())
	slog.SetDefault(L)
	return L
}

func New(w io.Writer, json bool) *slog.Logger {
	if json {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// WithLogger stores log in ctx.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// FromCtx returns the request logger stored in ctx, or the base logger.
func FromCtx(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
			return log
		}
	}
	return L
}
