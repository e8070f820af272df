// Package logger provides a structured, levelled logger built on log/slog.
//
// WithCtx returns the per-request logger injected by the access-log
// middleware, so every line a handler writes carries its request_id:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("item added to cart", "product_id", 7)
//	// → time=... level=INFO msg="item added to cart" request_id=a1b2c3d4 product_id=7
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/kashvishop/storefront/config"
)

var L *slog.Logger

func init() {
	L = New(os.Stdout, config.IsProduction())
	slog.SetDefault(L)
}

// New builds a logger writing to w: JSON for production, text otherwise.
func New(w io.Writer, production bool) *slog.Logger {
	if production {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// SetOutput replaces the base logger. Tests use it to silence or capture output.
func SetOutput(w io.Writer) {
	L = New(w, config.IsProduction())
	slog.SetDefault(L)
}

type ctxKey struct{}

// WithCtx returns the logger stored in ctx by InjectLogger, or the base logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a request-scoped logger in ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }

func Info(msg string, args ...any) { L.Info(msg, args...) }

func Warn(msg string, args ...any) { L.Warn(msg, args...) }

func Error(msg string, args ...any) { L.Error(msg, args...) }

// LevelFor picks the access-log level for an HTTP status.
func LevelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	}
	return slog.LevelInfo
}
