package lspclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/Camilotk/lspclient/protocol"
)

// CallHierarchyFeature provides the three call hierarchy dispatches: prepare,
// incoming calls, and outgoing calls. The interactive tree built on top of
// them lives in CallHierarchyTree.
type CallHierarchyFeature struct {
	client        *Client
	registrations *registrationSet[protocol.CallHierarchyRegistrationOptions]
}

// NewCallHierarchyFeature creates the call hierarchy feature.
func NewCallHierarchyFeature() *CallHierarchyFeature {
	return &CallHierarchyFeature{}
}

func (f *CallHierarchyFeature) bind(c *Client) {
	f.client = c
	f.registrations = newRegistrationSet[protocol.CallHierarchyRegistrationOptions](c.logger)
}

func (f *CallHierarchyFeature) Method() string { return protocol.MethodPrepareCallHierarchy }

func (f *CallHierarchyFeature) FillClientCapabilities(b *CapabilityBuilder) {
	b.Ensure("textDocument.callHierarchy")
	b.Set("textDocument.callHierarchy.dynamicRegistration", true)
}

func (f *CallHierarchyFeature) Initialize(caps gjson.Result, defaultSelector protocol.DocumentSelector) error {
	entry := caps.Get("callHierarchyProvider")
	if !entry.Exists() || (entry.IsBool() && !entry.Bool()) {
		return nil
	}

	var options protocol.CallHierarchyRegistrationOptions
	if entry.IsObject() {
		if err := json.Unmarshal([]byte(entry.Raw), &options); err != nil {
			return fmt.Errorf("decoding callHierarchyProvider: %w", err)
		}
	}
	return f.register(staticRegistration(options.ID, protocol.MethodPrepareCallHierarchy, &options.TextDocumentRegistrationOptions, defaultSelector), options)
}

func (f *CallHierarchyFeature) Register(reg protocol.Registration) error {
	var options protocol.CallHierarchyRegistrationOptions
	if err := decodeRegistrationOptions(reg, &options); err != nil {
		return err
	}
	if options.DocumentSelector == nil {
		options.DocumentSelector = f.client.defaultSelector
	}
	return f.register(reg, options)
}

func (f *CallHierarchyFeature) register(reg protocol.Registration, options protocol.CallHierarchyRegistrationOptions) error {
	dispose, err := f.client.registrar.Register(protocol.MethodPrepareCallHierarchy, reg.ID, options.DocumentSelector)
	if err != nil {
		return err
	}
	f.registrations.add(reg.ID, options.DocumentSelector, 0, options, dispose)
	return nil
}

func (f *CallHierarchyFeature) Unregister(id string) bool {
	return f.registrations.remove(id)
}

func (f *CallHierarchyFeature) Dispose() {
	f.registrations.disposeAll()
}

// Providers returns the registrations matching the document.
func (f *CallHierarchyFeature) Providers(uri protocol.DocumentURI, languageID string) []protocol.CallHierarchyRegistrationOptions {
	return f.registrations.matching(uri, languageID)
}

// PrepareCallHierarchy resolves the callable symbols at a position. Without a
// matching provider the result is empty.
func (c *Client) PrepareCallHierarchy(ctx context.Context, params *protocol.CallHierarchyPrepareParams, token *CancellationToken) ([]protocol.CallHierarchyItem, error) {
	if fn := c.interceptors.PrepareCallHierarchy; fn != nil {
		return fn(ctx, params, token, c.prepareCallHierarchyBase)
	}
	return c.prepareCallHierarchyBase(ctx, params, token)
}

func (c *Client) prepareCallHierarchyBase(ctx context.Context, params *protocol.CallHierarchyPrepareParams, token *CancellationToken) ([]protocol.CallHierarchyItem, error) {
	feature, ok := c.features.get(protocol.MethodPrepareCallHierarchy)
	if !ok {
		return nil, nil
	}
	uri := params.TextDocument.URI
	if chf, ok := feature.(*CallHierarchyFeature); ok && len(chf.Providers(uri, c.languageIDFor(uri))) == 0 {
		return nil, nil
	}

	items, err := roundTrip[[]protocol.CallHierarchyItem](ctx, c, token, protocol.MethodPrepareCallHierarchy, params)
	if err != nil {
		return handleFailedRequest[[]protocol.CallHierarchyItem](c.logger, protocol.MethodPrepareCallHierarchy, token, err, nil)
	}
	return items, nil
}

// IncomingCalls fetches the callers of an item.
func (c *Client) IncomingCalls(ctx context.Context, item protocol.CallHierarchyItem, token *CancellationToken) ([]protocol.CallHierarchyIncomingCall, error) {
	if fn := c.interceptors.IncomingCalls; fn != nil {
		return fn(ctx, item, token, c.incomingCallsBase)
	}
	return c.incomingCallsBase(ctx, item, token)
}

func (c *Client) incomingCallsBase(ctx context.Context, item protocol.CallHierarchyItem, token *CancellationToken) ([]protocol.CallHierarchyIncomingCall, error) {
	calls, err := roundTrip[[]protocol.CallHierarchyIncomingCall](ctx, c, token, protocol.MethodCallHierarchyIncomingCalls, &protocol.CallHierarchyIncomingCallsParams{Item: item})
	if err != nil {
		return handleFailedRequest[[]protocol.CallHierarchyIncomingCall](c.logger, protocol.MethodCallHierarchyIncomingCalls, token, err, nil)
	}
	return calls, nil
}

// OutgoingCalls fetches the callees of an item.
func (c *Client) OutgoingCalls(ctx context.Context, item protocol.CallHierarchyItem, token *CancellationToken) ([]protocol.CallHierarchyOutgoingCall, error) {
	if fn := c.interceptors.OutgoingCalls; fn != nil {
		return fn(ctx, item, token, c.outgoingCallsBase)
	}
	return c.outgoingCallsBase(ctx, item, token)
}

func (c *Client) outgoingCallsBase(ctx context.Context, item protocol.CallHierarchyItem, token *CancellationToken) ([]protocol.CallHierarchyOutgoingCall, error) {
	calls, err := roundTrip[[]protocol.CallHierarchyOutgoingCall](ctx, c, token, protocol.MethodCallHierarchyOutgoingCalls, &protocol.CallHierarchyOutgoingCallsParams{Item: item})
	if err != nil {
		return handleFailedRequest[[]protocol.CallHierarchyOutgoingCall](c.logger, protocol.MethodCallHierarchyOutgoingCalls, token, err, nil)
	}
	return calls, nil
}
