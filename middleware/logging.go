package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/Camilotk/lspclient/jsonrpc"
)

// Logging returns middleware that logs each outgoing request's method,
// duration, and errors.
func Logging(logger *slog.Logger) Middleware {
	return func(next Caller) Caller {
		return func(ctx context.Context, method string, params interface{}) (jsonrpc.RawMessage, error) {
			start := time.Now()
			result, err := next(ctx, method, params)
			duration := time.Since(start)

			attrs := []slog.Attr{
				slog.String("method", method),
				slog.Duration("duration", duration),
			}
			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
				logger.LogAttrs(ctx, slog.LevelError, "request failed", attrs...)
			} else {
				logger.LogAttrs(ctx, slog.LevelDebug, "request completed", attrs...)
			}

			return result, err
		}
	}
}
