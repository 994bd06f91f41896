package lspclient

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/Camilotk/lspclient/jsonrpc"
)

// contextWithToken derives a context that is cancelled when either the parent
// context or the token is cancelled. The returned cleanup releases the token
// callback and must always be called.
func contextWithToken(ctx context.Context, token *CancellationToken) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	if token == nil {
		return ctx, cancel
	}
	remove := token.OnCancellation(cancel)
	return ctx, func() {
		remove()
		cancel()
	}
}

// roundTrip sends one request over the session connection and decodes the
// result. A token cancelled before or after the response settles yields
// context.Canceled so the caller never observes a stale result.
func roundTrip[R any](ctx context.Context, c *Client, token *CancellationToken, method string, params interface{}) (R, error) {
	var zero R

	if token != nil && token.IsCancellationRequested() {
		return zero, context.Canceled
	}

	ctx, cleanup := contextWithToken(ctx, token)
	defer cleanup()

	raw, err := c.call(ctx, method, params)
	if err != nil {
		return zero, err
	}
	if token != nil && token.IsCancellationRequested() {
		return zero, context.Canceled
	}

	if len(raw) == 0 || string(raw) == "null" {
		return zero, nil
	}
	var result R
	if err := json.Unmarshal(raw, &result); err != nil {
		return zero, &jsonrpc.Error{
			Code:    jsonrpc.CodeInvalidParams,
			Message: "decoding " + method + " result: " + err.Error(),
		}
	}
	return result, nil
}

// handleFailedRequest is the failure funnel for dispatch errors. A cancelled
// token, a cancelled context, or a ContentModified/RequestCancelled wire
// error is expected churn: it is logged at debug level and the fallback is
// returned. Anything else propagates.
func handleFailedRequest[R any](logger *slog.Logger, method string, token *CancellationToken, err error, fallback R) (R, error) {
	if token != nil && token.IsCancellationRequested() {
		logger.Debug("request cancelled", "method", method)
		return fallback, nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		logger.Debug("request cancelled", "method", method)
		return fallback, nil
	}
	switch jsonrpc.ErrorCode(err) {
	case jsonrpc.CodeContentModified, jsonrpc.CodeRequestCancelled:
		logger.Debug("request superseded by server", "method", method, "error", err)
		return fallback, nil
	}
	return fallback, err
}
