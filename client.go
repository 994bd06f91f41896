package lspclient

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Camilotk/lspclient/document"
	"github.com/Camilotk/lspclient/jsonrpc"
	"github.com/Camilotk/lspclient/middleware"
	"github.com/Camilotk/lspclient/protocol"
	"github.com/Camilotk/lspclient/transport"
)

// Client is an LSP client session: it owns the capability handshake, the
// feature registry, the document store, and the connection to one language
// server. Construct it with New, attach a transport with Connect, and tear
// it down with Close.
type Client struct {
	name    string
	version string

	logger       *slog.Logger
	features     *featureRegistry
	capabilities *CapabilityBuilder
	registrar    ProviderRegistrar
	interceptors Interceptors
	chain        []middleware.Middleware
	documents    *document.Store

	defaultSelector  protocol.DocumentSelector
	workspaceFolders []protocol.WorkspaceFolder
	rootURI          *protocol.DocumentURI
	initOptions      interface{}
	trace            string
	settings         *Settings

	mu         sync.Mutex
	transport  transport.Transport
	conn       *jsonrpc.Conn
	caller     middleware.Caller
	serverCaps *ServerCapabilities
	serverInfo *protocol.ServerInfo
	connected  bool
	closed     bool
}

// New creates a client with the given name and version. Features must be
// attached here; the capability handshake during Connect consumes them.
func New(name, version string, opts ...Option) (*Client, error) {
	c := &Client{
		name:         name,
		version:      version,
		logger:       slog.Default(),
		features:     newFeatureRegistry(),
		capabilities: NewCapabilityBuilder(),
		registrar:    nopRegistrar{},
		documents:    document.NewStore(),
	}

	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errs[0]
	}

	for _, f := range c.features.all() {
		if bound, ok := f.(clientBound); ok {
			bound.bind(c)
		}
	}
	return c, nil
}

// clientBound is implemented by features that need access to the session.
type clientBound interface {
	bind(c *Client)
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger { return c.logger }

// Documents returns the client-side store of open documents.
func (c *Client) Documents() *document.Store { return c.documents }

// Capabilities returns the client capability builder. It is frozen when
// Connect starts the handshake.
func (c *Client) Capabilities() *CapabilityBuilder { return c.capabilities }

// DefaultSelector returns the workspace default document selector.
func (c *Client) DefaultSelector() protocol.DocumentSelector { return c.defaultSelector }

// ServerCapabilities returns the capabilities announced by the server, or
// nil before the handshake completes.
func (c *Client) ServerCapabilities() *ServerCapabilities {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.serverCaps
}

// ServerInfo returns the server's self-reported identity, if any.
func (c *Client) ServerInfo() *protocol.ServerInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.serverInfo
}

// Feature returns the registered feature serving the given method.
func (c *Client) Feature(method string) (Feature, bool) {
	return c.features.get(method)
}

// call sends a request through the middleware chain. It fails when the
// client has not connected yet or has been closed.
func (c *Client) call(ctx context.Context, method string, params interface{}) (jsonrpc.RawMessage, error) {
	c.mu.Lock()
	caller := c.caller
	c.mu.Unlock()
	if caller == nil {
		return nil, &jsonrpc.Error{
			Code:    jsonrpc.CodeServerNotInitialized,
			Message: "client is not connected",
		}
	}
	return caller(ctx, method, params)
}

// notify sends a notification to the server.
func (c *Client) notify(ctx context.Context, method string, params interface{}) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return &jsonrpc.Error{
			Code:    jsonrpc.CodeServerNotInitialized,
			Message: "client is not connected",
		}
	}
	return conn.Notify(ctx, method, params)
}

// OpenDocument adds the document to the store and announces it to the server.
func (c *Client) OpenDocument(ctx context.Context, item protocol.TextDocumentItem) error {
	c.documents.Open(item)
	return c.notify(ctx, protocol.MethodDidOpen, &protocol.DidOpenTextDocumentParams{
		TextDocument: item,
	})
}

// ChangeDocument applies content changes to the stored document and sends the
// didChange notification. Changing a document that is not open is an error.
func (c *Client) ChangeDocument(ctx context.Context, uri protocol.DocumentURI, version int32, changes []protocol.TextDocumentContentChangeEvent) error {
	doc := c.documents.Change(uri, version, changes)
	if doc == nil {
		return &jsonrpc.Error{
			Code:    jsonrpc.CodeInvalidParams,
			Message: "document is not open: " + string(uri),
		}
	}
	return c.notify(ctx, protocol.MethodDidChange, &protocol.DidChangeTextDocumentParams{
		TextDocument:   doc.VersionedIdentifier(),
		ContentChanges: changes,
	})
}

// SaveDocument sends the didSave notification, including the document text
// when includeText is set.
func (c *Client) SaveDocument(ctx context.Context, uri protocol.DocumentURI, includeText bool) error {
	params := &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}
	if includeText {
		if doc := c.documents.Get(uri); doc != nil {
			text := doc.Text()
			params.Text = &text
		}
	}
	return c.notify(ctx, protocol.MethodDidSave, params)
}

// CloseDocument removes the document from the store and announces it.
func (c *Client) CloseDocument(ctx context.Context, uri protocol.DocumentURI) error {
	c.documents.Close(uri)
	return c.notify(ctx, protocol.MethodDidClose, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
}

// languageIDFor returns the language id of an open document, or empty when
// the document is not in the store.
func (c *Client) languageIDFor(uri protocol.DocumentURI) string {
	if doc := c.documents.Get(uri); doc != nil {
		return doc.LanguageID()
	}
	return ""
}

// Close performs the shutdown handshake, disposes all features, and tears
// down the connection. It is safe to call more than once.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	connected := c.connected
	conn := c.conn
	tr := c.transport
	c.mu.Unlock()

	var shutdownErr error
	if connected {
		if _, err := c.call(ctx, protocol.MethodShutdown, nil); err != nil {
			c.logger.Warn("shutdown request failed", "error", err)
			shutdownErr = err
		}
		if err := c.notify(ctx, protocol.MethodExit, nil); err != nil {
			c.logger.Warn("exit notification failed", "error", err)
		}
	}

	for _, f := range c.features.all() {
		f.Dispose()
	}

	if conn != nil {
		conn.Close()
	}
	if tr != nil {
		if err := tr.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}
	return shutdownErr
}
