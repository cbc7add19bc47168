// Package logger provides a structured, levelled logger built on log/slog.
//
// WithCtx returns the per-request logger injected by the Logger middleware,
// so every line from a handler or service carries the request_id:
//
//	log := logger.WithCtx(ctx)
//	log.Info("order placed", "order_id", order.ID.Hex())
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu sync.RWMutex
	L  = slog.New(newBaseHandler(os.Stdout, false))
)

func newBaseHandler(w io.Writer, production bool) slog.Handler {
	if production {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
}

// Setup installs the base logger: JSON at INFO in production, text at DEBUG
// otherwise. Extra handlers (e.g. a MongoHandler) receive every record too.
func Setup(production bool, extra ...slog.Handler) *slog.Logger {
	var handler slog.Handler = newBaseHandler(os.Stdout, production)
	if len(extra) > 0 {
		handler = NewMultiHandler(append([]slog.Handler{handler}, extra...)...)
	}

	log := slog.New(handler)
	mu.Lock()
	L = log
	mu.Unlock()
	slog.SetDefault(log)
	return log
}

func base() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return L
}

type ctxKey struct{}

// WithCtx returns the logger stored in ctx by InjectLogger, or the base logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
			return log
		}
	}
	return base()
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { base().Debug(msg, args...) }
func Info(msg string, args ...any)  { base().Info(msg, args...) }
func Warn(msg string, args ...any)  { base().Warn(msg, args...) }
func Error(msg string, args ...any) { base().Error(msg, args...) }
