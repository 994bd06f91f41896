package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/Camilotk/lspclient/jsonrpc"
)

func TestChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next Caller) Caller {
			return func(ctx context.Context, method string, params interface{}) (jsonrpc.RawMessage, error) {
				order = append(order, name)
				return next(ctx, method, params)
			}
		}
	}

	caller := Chain(tag("outer"), tag("inner"))(func(ctx context.Context, method string, params interface{}) (jsonrpc.RawMessage, error) {
		order = append(order, "base")
		return nil, nil
	})

	if _, err := caller(context.Background(), "test", nil); err != nil {
		t.Fatal(err)
	}
	if len(order) != 3 || order[0] != "outer" || order[1] != "inner" || order[2] != "base" {
		t.Errorf("wrong execution order: %v", order)
	}
}

func TestRecoveryConvertsPanic(t *testing.T) {
	caller := Recovery()(func(ctx context.Context, method string, params interface{}) (jsonrpc.RawMessage, error) {
		panic("boom")
	})

	_, err := caller(context.Background(), "test", nil)
	if err == nil {
		t.Fatal("panic was not converted to an error")
	}
	if jsonrpc.ErrorCode(err) != jsonrpc.CodeInternalError {
		t.Errorf("expected internal error code, got %d", jsonrpc.ErrorCode(err))
	}
}

func TestTelemetryCountsRequests(t *testing.T) {
	metrics := NewMetrics()
	fail := errors.New("fail")

	caller := Telemetry(metrics)(func(ctx context.Context, method string, params interface{}) (jsonrpc.RawMessage, error) {
		if method == "bad" {
			return nil, fail
		}
		return nil, nil
	})

	caller(context.Background(), "good", nil)
	caller(context.Background(), "good", nil)
	caller(context.Background(), "bad", nil)

	snap := metrics.Snapshot()
	if snap["good"].Count != 2 || snap["good"].Errors != 0 {
		t.Errorf("good: %+v", snap["good"])
	}
	if snap["bad"].Count != 1 || snap["bad"].Errors != 1 {
		t.Errorf("bad: %+v", snap["bad"])
	}
}

func TestTraceMethod(t *testing.T) {
	caller := Tracing()(func(ctx context.Context, method string, params interface{}) (jsonrpc.RawMessage, error) {
		if got := TraceMethod(ctx); got != "traced" {
			t.Errorf("TraceMethod = %q, want traced", got)
		}
		return nil, nil
	})
	caller(context.Background(), "traced", nil)

	if TraceMethod(context.Background()) != "" {
		t.Error("TraceMethod on untagged context should be empty")
	}
}
