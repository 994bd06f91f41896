package lspclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/Camilotk/lspclient/jsonrpc"
	"github.com/Camilotk/lspclient/protocol"
)

// CompletionFeature provides textDocument/completion with item resolution.
// Multiple registrations can match the same document; their providers are
// ranked by the per-registration priority.
type CompletionFeature struct {
	client        *Client
	registrations *registrationSet[protocol.CompletionRegistrationOptions]
}

// NewCompletionFeature creates the completion feature.
func NewCompletionFeature() *CompletionFeature {
	return &CompletionFeature{}
}

func (f *CompletionFeature) bind(c *Client) {
	f.client = c
	f.registrations = newRegistrationSet[protocol.CompletionRegistrationOptions](c.logger)
}

// Method returns the request method this feature serves.
func (f *CompletionFeature) Method() string { return protocol.MethodCompletion }

func (f *CompletionFeature) FillClientCapabilities(b *CapabilityBuilder) {
	b.Ensure("textDocument.completion")
	b.Set("textDocument.completion.dynamicRegistration", true)
	b.Set("textDocument.completion.contextSupport", true)
	b.Set("textDocument.completion.completionItem.snippetSupport", true)
	b.Set("textDocument.completion.completionItem.commitCharactersSupport", true)
	b.Set("textDocument.completion.completionItem.deprecatedSupport", true)
	b.Set("textDocument.completion.completionItem.tagSupport.valueSet", []int{int(protocol.CompletionTagDeprecated)})
	b.Set("textDocument.completion.completionItem.resolveSupport.properties", []string{"documentation", "detail", "additionalTextEdits"})
	b.Set("textDocument.completion.completionList.itemDefaults", []string{"commitCharacters", "editRange", "insertTextFormat", "data"})
}

func (f *CompletionFeature) Initialize(caps gjson.Result, defaultSelector protocol.DocumentSelector) error {
	entry := caps.Get("completionProvider")
	if !entry.Exists() || (entry.IsBool() && !entry.Bool()) {
		return nil
	}

	var options protocol.CompletionRegistrationOptions
	if entry.IsObject() {
		if err := json.Unmarshal([]byte(entry.Raw), &options); err != nil {
			return fmt.Errorf("decoding completionProvider: %w", err)
		}
	}
	return f.register(staticRegistration(options.ID, protocol.MethodCompletion, &options.TextDocumentRegistrationOptions, defaultSelector), options)
}

func (f *CompletionFeature) Register(reg protocol.Registration) error {
	var options protocol.CompletionRegistrationOptions
	if err := decodeRegistrationOptions(reg, &options); err != nil {
		return err
	}
	if options.DocumentSelector == nil {
		options.DocumentSelector = f.client.defaultSelector
	}
	return f.register(reg, options)
}

func (f *CompletionFeature) register(reg protocol.Registration, options protocol.CompletionRegistrationOptions) error {
	dispose, err := f.client.registrar.Register(protocol.MethodCompletion, reg.ID, options.DocumentSelector)
	if err != nil {
		return err
	}
	f.registrations.add(reg.ID, options.DocumentSelector, options.Priority, options, dispose)
	return nil
}

func (f *CompletionFeature) Unregister(id string) bool {
	return f.registrations.remove(id)
}

func (f *CompletionFeature) Dispose() {
	f.registrations.disposeAll()
}

// Providers returns the registration options of every provider matching the
// document, ranked by priority descending.
func (f *CompletionFeature) Providers(uri protocol.DocumentURI, languageID string) []protocol.CompletionRegistrationOptions {
	return f.registrations.matching(uri, languageID)
}

// TriggerCharacters returns the union of trigger characters of all providers
// matching the document.
func (f *CompletionFeature) TriggerCharacters(uri protocol.DocumentURI, languageID string) []string {
	seen := make(map[string]bool)
	var chars []string
	for _, opts := range f.registrations.matching(uri, languageID) {
		for _, ch := range opts.TriggerCharacters {
			if !seen[ch] {
				seen[ch] = true
				chars = append(chars, ch)
			}
		}
	}
	return chars
}

// staticRegistration builds the registration record for a capability
// announced in the initialize result. The server's selector, when present,
// wins over the workspace default; a missing id gets a fresh one.
func staticRegistration(id, method string, base *protocol.TextDocumentRegistrationOptions, defaultSelector protocol.DocumentSelector) protocol.Registration {
	if id == "" {
		id = uuid.NewString()
	}
	if base.DocumentSelector == nil {
		base.DocumentSelector = defaultSelector
	}
	return protocol.Registration{ID: id, Method: method}
}

// Completion requests completions at the given position. When an interceptor
// is installed it runs instead of the base dispatch and receives it as a
// continuation. Without a matching provider the result is an empty list.
func (c *Client) Completion(ctx context.Context, params *protocol.CompletionParams, token *CancellationToken) (*protocol.CompletionList, error) {
	if fn := c.interceptors.Completion; fn != nil {
		return fn(ctx, params, token, c.completionBase)
	}
	return c.completionBase(ctx, params, token)
}

func (c *Client) completionBase(ctx context.Context, params *protocol.CompletionParams, token *CancellationToken) (*protocol.CompletionList, error) {
	empty := &protocol.CompletionList{Items: []protocol.CompletionItem{}}

	feature, ok := c.features.get(protocol.MethodCompletion)
	if !ok {
		return empty, nil
	}
	uri := params.TextDocument.URI
	if cf, ok := feature.(*CompletionFeature); ok && len(cf.Providers(uri, c.languageIDFor(uri))) == 0 {
		return empty, nil
	}

	raw, err := roundTrip[jsonrpc.RawMessage](ctx, c, token, protocol.MethodCompletion, params)
	if err != nil {
		return handleFailedRequest(c.logger, protocol.MethodCompletion, token, err, empty)
	}

	list, err := normalizeCompletionResult(raw)
	if err != nil {
		return empty, err
	}
	return list, nil
}

// ResolveCompletionItem fills in lazily computed fields of a completion item.
// Expected failures (cancellation, content drift) return the item unresolved.
func (c *Client) ResolveCompletionItem(ctx context.Context, item protocol.CompletionItem, token *CancellationToken) (protocol.CompletionItem, error) {
	if fn := c.interceptors.ResolveCompletionItem; fn != nil {
		return fn(ctx, item, token, c.resolveCompletionItemBase)
	}
	return c.resolveCompletionItemBase(ctx, item, token)
}

func (c *Client) resolveCompletionItemBase(ctx context.Context, item protocol.CompletionItem, token *CancellationToken) (protocol.CompletionItem, error) {
	resolved, err := roundTrip[protocol.CompletionItem](ctx, c, token, protocol.MethodCompletionItemResolve, item)
	if err != nil {
		return handleFailedRequest(c.logger, protocol.MethodCompletionItemResolve, token, err, item)
	}
	if resolved.Label == "" {
		// A null response means the server had nothing to add.
		return item, nil
	}
	return resolved, nil
}

// normalizeCompletionResult turns the wire response into a CompletionList.
// Servers may answer with a bare item array, a tagged list, or null; list
// item defaults are folded into items that did not set their own values.
func normalizeCompletionResult(raw jsonrpc.RawMessage) (*protocol.CompletionList, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return &protocol.CompletionList{Items: []protocol.CompletionItem{}}, nil
	}

	parsed := gjson.ParseBytes(raw)
	if parsed.IsArray() {
		var items []protocol.CompletionItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decoding completion items: %w", err)
		}
		if items == nil {
			items = []protocol.CompletionItem{}
		}
		return &protocol.CompletionList{Items: items}, nil
	}

	var list protocol.CompletionList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decoding completion list: %w", err)
	}
	if list.Items == nil {
		list.Items = []protocol.CompletionItem{}
	}
	applyItemDefaults(&list)
	return &list, nil
}

// applyItemDefaults copies list-level defaults into items that did not
// specify their own value for the corresponding field.
func applyItemDefaults(list *protocol.CompletionList) {
	defaults := list.ItemDefaults
	if defaults == nil {
		return
	}
	for i := range list.Items {
		item := &list.Items[i]
		if item.CommitCharacters == nil && defaults.CommitCharacters != nil {
			item.CommitCharacters = defaults.CommitCharacters
		}
		if item.TextEdit == nil && defaults.EditRange != nil {
			newText := item.TextEditText
			if newText == "" {
				newText = item.InsertText
			}
			if newText == "" {
				newText = item.Label
			}
			item.TextEdit = &protocol.TextEdit{Range: *defaults.EditRange, NewText: newText}
		}
		if item.InsertTextFormat == 0 && defaults.InsertTextFormat != 0 {
			item.InsertTextFormat = defaults.InsertTextFormat
		}
		if item.Data == nil && defaults.Data != nil {
			item.Data = defaults.Data
		}
	}
}
