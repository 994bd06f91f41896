package lspclient

import (
	"context"
	"errors"
	"testing"

	"github.com/Camilotk/lspclient/jsonrpc"
)

func TestHandleFailedRequestClassification(t *testing.T) {
	logger := discardLogger()
	fallback := []string{"fallback"}

	t.Run("cancelled token yields fallback", func(t *testing.T) {
		src := NewCancellationTokenSource()
		src.Cancel()
		got, err := handleFailedRequest(logger, "textDocument/completion", src.Token(), errors.New("anything"), fallback)
		if err != nil {
			t.Fatalf("cancelled token propagated error: %v", err)
		}
		if got[0] != "fallback" {
			t.Fatal("fallback not returned")
		}
	})

	t.Run("context cancellation yields fallback", func(t *testing.T) {
		got, err := handleFailedRequest(logger, "textDocument/completion", nil, context.Canceled, fallback)
		if err != nil {
			t.Fatalf("context.Canceled propagated: %v", err)
		}
		if got[0] != "fallback" {
			t.Fatal("fallback not returned")
		}
	})

	t.Run("content modified yields fallback", func(t *testing.T) {
		wireErr := &jsonrpc.Error{Code: jsonrpc.CodeContentModified, Message: "content modified"}
		if _, err := handleFailedRequest(logger, "m", nil, wireErr, fallback); err != nil {
			t.Fatalf("ContentModified propagated: %v", err)
		}
	})

	t.Run("request cancelled yields fallback", func(t *testing.T) {
		wireErr := &jsonrpc.Error{Code: jsonrpc.CodeRequestCancelled, Message: "cancelled by server"}
		if _, err := handleFailedRequest(logger, "m", nil, wireErr, fallback); err != nil {
			t.Fatalf("RequestCancelled propagated: %v", err)
		}
	})

	t.Run("other errors propagate", func(t *testing.T) {
		wireErr := &jsonrpc.Error{Code: jsonrpc.CodeInternalError, Message: "boom"}
		if _, err := handleFailedRequest(logger, "m", nil, wireErr, fallback); err == nil {
			t.Fatal("internal error was swallowed")
		}
	})
}

func TestContextWithTokenBridging(t *testing.T) {
	src := NewCancellationTokenSource()
	ctx, cleanup := contextWithToken(context.Background(), src.Token())
	defer cleanup()

	select {
	case <-ctx.Done():
		t.Fatal("context cancelled before token")
	default:
	}

	src.Cancel()
	select {
	case <-ctx.Done():
	default:
		t.Fatal("token cancellation did not reach the context")
	}
}
