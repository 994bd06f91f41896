// Package middleware provides composable middleware for the outgoing
// request path of an LSP client. Middleware wraps the caller that puts
// requests on the wire, allowing cross-cutting concerns like logging,
// panic recovery, and telemetry to observe every request the client sends.
package middleware

import (
	"context"

	"github.com/Camilotk/lspclient/jsonrpc"
)

// Caller sends a JSON-RPC request to the server and returns the raw result.
type Caller func(ctx context.Context, method string, params interface{}) (jsonrpc.RawMessage, error)

// Middleware wraps a Caller to add cross-cutting behavior.
type Middleware func(Caller) Caller

// Chain composes multiple middleware into a single middleware.
// Middleware is applied in the order given: the first middleware in the slice
// is the outermost wrapper (executes first).
func Chain(mws ...Middleware) Middleware {
	return func(next Caller) Caller {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
