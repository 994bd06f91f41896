package middleware

import (
	"context"

	"github.com/Camilotk/lspclient/jsonrpc"
)

// Tracing returns middleware that tags the context with the outgoing method.
// Interceptors and transports further down the chain can recover it with
// TraceMethod.
func Tracing() Middleware {
	return func(next Caller) Caller {
		return func(ctx context.Context, method string, params interface{}) (jsonrpc.RawMessage, error) {
			ctx = context.WithValue(ctx, traceMethodKey{}, method)
			return next(ctx, method, params)
		}
	}
}

type traceMethodKey struct{}

// TraceMethod returns the LSP method name from the context, if set by Tracing middleware.
func TraceMethod(ctx context.Context) string {
	if v, ok := ctx.Value(traceMethodKey{}).(string); ok {
		return v
	}
	return ""
}
