package lspclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/Camilotk/lspclient/protocol"
)

// FoldingRangeFeature provides textDocument/foldingRange, the minimal
// one-shot feature shape: no resolve step and no per-provider options beyond
// the selector.
type FoldingRangeFeature struct {
	client        *Client
	registrations *registrationSet[protocol.FoldingRangeRegistrationOptions]
}

// NewFoldingRangeFeature creates the folding range feature.
func NewFoldingRangeFeature() *FoldingRangeFeature {
	return &FoldingRangeFeature{}
}

func (f *FoldingRangeFeature) bind(c *Client) {
	f.client = c
	f.registrations = newRegistrationSet[protocol.FoldingRangeRegistrationOptions](c.logger)
}

func (f *FoldingRangeFeature) Method() string { return protocol.MethodFoldingRange }

func (f *FoldingRangeFeature) FillClientCapabilities(b *CapabilityBuilder) {
	b.Ensure("textDocument.foldingRange")
	b.Set("textDocument.foldingRange.dynamicRegistration", true)
	b.Set("textDocument.foldingRange.lineFoldingOnly", false)
	b.Set("textDocument.foldingRange.foldingRangeKind.valueSet", []protocol.FoldingRangeKind{
		protocol.FoldingRangeComment,
		protocol.FoldingRangeImports,
		protocol.FoldingRangeRegion,
	})
}

func (f *FoldingRangeFeature) Initialize(caps gjson.Result, defaultSelector protocol.DocumentSelector) error {
	entry := caps.Get("foldingRangeProvider")
	if !entry.Exists() || (entry.IsBool() && !entry.Bool()) {
		return nil
	}

	var options protocol.FoldingRangeRegistrationOptions
	if entry.IsObject() {
		if err := json.Unmarshal([]byte(entry.Raw), &options); err != nil {
			return fmt.Errorf("decoding foldingRangeProvider: %w", err)
		}
	}
	return f.register(staticRegistration(options.ID, protocol.MethodFoldingRange, &options.TextDocumentRegistrationOptions, defaultSelector), options)
}

func (f *FoldingRangeFeature) Register(reg protocol.Registration) error {
	var options protocol.FoldingRangeRegistrationOptions
	if err := decodeRegistrationOptions(reg, &options); err != nil {
		return err
	}
	if options.DocumentSelector == nil {
		options.DocumentSelector = f.client.defaultSelector
	}
	return f.register(reg, options)
}

func (f *FoldingRangeFeature) register(reg protocol.Registration, options protocol.FoldingRangeRegistrationOptions) error {
	dispose, err := f.client.registrar.Register(protocol.MethodFoldingRange, reg.ID, options.DocumentSelector)
	if err != nil {
		return err
	}
	f.registrations.add(reg.ID, options.DocumentSelector, 0, options, dispose)
	return nil
}

func (f *FoldingRangeFeature) Unregister(id string) bool {
	return f.registrations.remove(id)
}

func (f *FoldingRangeFeature) Dispose() {
	f.registrations.disposeAll()
}

// Providers returns the registrations matching the document.
func (f *FoldingRangeFeature) Providers(uri protocol.DocumentURI, languageID string) []protocol.FoldingRangeRegistrationOptions {
	return f.registrations.matching(uri, languageID)
}

// FoldingRanges requests the folding ranges of a document. Without a
// matching provider the result is empty.
func (c *Client) FoldingRanges(ctx context.Context, params *protocol.FoldingRangeParams, token *CancellationToken) ([]protocol.FoldingRange, error) {
	if fn := c.interceptors.FoldingRanges; fn != nil {
		return fn(ctx, params, token, c.foldingRangesBase)
	}
	return c.foldingRangesBase(ctx, params, token)
}

func (c *Client) foldingRangesBase(ctx context.Context, params *protocol.FoldingRangeParams, token *CancellationToken) ([]protocol.FoldingRange, error) {
	feature, ok := c.features.get(protocol.MethodFoldingRange)
	if !ok {
		return nil, nil
	}
	uri := params.TextDocument.URI
	if ff, ok := feature.(*FoldingRangeFeature); ok && len(ff.Providers(uri, c.languageIDFor(uri))) == 0 {
		return nil, nil
	}

	ranges, err := roundTrip[[]protocol.FoldingRange](ctx, c, token, protocol.MethodFoldingRange, params)
	if err != nil {
		return handleFailedRequest[[]protocol.FoldingRange](c.logger, protocol.MethodFoldingRange, token, err, nil)
	}
	return ranges, nil
}
