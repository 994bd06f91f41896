package lspclient

import (
	"context"

	"github.com/Camilotk/lspclient/protocol"
)

// Dispatch function types. Each one is the shape of a feature operation; the
// corresponding interceptor receives the base implementation as a
// continuation.
type (
	CompletionFunc     func(ctx context.Context, params *protocol.CompletionParams, token *CancellationToken) (*protocol.CompletionList, error)
	ResolveItemFunc    func(ctx context.Context, item protocol.CompletionItem, token *CancellationToken) (protocol.CompletionItem, error)
	FoldingRangesFunc  func(ctx context.Context, params *protocol.FoldingRangeParams, token *CancellationToken) ([]protocol.FoldingRange, error)
	PrepareCallsFunc   func(ctx context.Context, params *protocol.CallHierarchyPrepareParams, token *CancellationToken) ([]protocol.CallHierarchyItem, error)
	IncomingCallsFunc  func(ctx context.Context, item protocol.CallHierarchyItem, token *CancellationToken) ([]protocol.CallHierarchyIncomingCall, error)
	OutgoingCallsFunc  func(ctx context.Context, item protocol.CallHierarchyItem, token *CancellationToken) ([]protocol.CallHierarchyOutgoingCall, error)
)

// Interceptors lets the embedding editor wrap individual feature dispatches.
// Each field, when set, runs instead of the base implementation and receives
// it as a continuation: the interceptor may call it zero or more times,
// rewrite arguments or results, or answer without touching the network.
// An interceptor that does not delegate must not publish stale results after
// its token is cancelled.
type Interceptors struct {
	Completion            func(ctx context.Context, params *protocol.CompletionParams, token *CancellationToken, next CompletionFunc) (*protocol.CompletionList, error)
	ResolveCompletionItem func(ctx context.Context, item protocol.CompletionItem, token *CancellationToken, next ResolveItemFunc) (protocol.CompletionItem, error)
	FoldingRanges         func(ctx context.Context, params *protocol.FoldingRangeParams, token *CancellationToken, next FoldingRangesFunc) ([]protocol.FoldingRange, error)
	PrepareCallHierarchy  func(ctx context.Context, params *protocol.CallHierarchyPrepareParams, token *CancellationToken, next PrepareCallsFunc) ([]protocol.CallHierarchyItem, error)
	IncomingCalls         func(ctx context.Context, item protocol.CallHierarchyItem, token *CancellationToken, next IncomingCallsFunc) ([]protocol.CallHierarchyIncomingCall, error)
	OutgoingCalls         func(ctx context.Context, item protocol.CallHierarchyItem, token *CancellationToken, next OutgoingCallsFunc) ([]protocol.CallHierarchyOutgoingCall, error)
}
