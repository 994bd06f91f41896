package lspclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/Camilotk/lspclient/jsonrpc"
	"github.com/Camilotk/lspclient/middleware"
	"github.com/Camilotk/lspclient/protocol"
	"github.com/Camilotk/lspclient/transport"
)

// Connect attaches the client to a language server over the given transport,
// starts the read loop, and performs the initialize handshake. Client
// capabilities are frozen here: the baseline plus every feature's fragment
// form the announced document. After the server answers, each feature is
// initialized from the server capability document. Connect returns once the
// session is ready.
func (c *Client) Connect(ctx context.Context, t transport.Transport) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return errors.New("client is closed")
	}
	if c.conn != nil {
		c.mu.Unlock()
		return errors.New("client is already connected")
	}

	codec := jsonrpc.NewCodec(t, t)
	conn := jsonrpc.NewConn(codec, c.handleRequest, c.handleNotification)
	c.transport = t
	c.conn = conn
	c.caller = middleware.Chain(c.chain...)(func(ctx context.Context, method string, params interface{}) (jsonrpc.RawMessage, error) {
		resp, err := conn.Call(ctx, method, params)
		if err != nil {
			return nil, err
		}
		if resp.Error != nil {
			return nil, resp.Error
		}
		return resp.Result, nil
	})
	c.mu.Unlock()

	go func() {
		if err := conn.Run(context.Background()); err != nil {
			c.logger.Error("connection read loop ended", "error", err)
		}
	}()

	baselineCapabilities(c.capabilities)
	for _, f := range c.features.all() {
		f.FillClientCapabilities(c.capabilities)
	}
	caps := c.capabilities.Freeze()

	pid := int32(os.Getpid())
	params := &protocol.InitializeParams{
		ProcessID:             &pid,
		ClientInfo:            &protocol.ClientInfo{Name: c.name, Version: c.version},
		RootURI:               c.rootURI,
		Capabilities:          caps,
		InitializationOptions: c.initOptions,
		WorkspaceFolders:      c.workspaceFolders,
		Trace:                 c.trace,
	}

	raw, err := c.call(ctx, protocol.MethodInitialize, params)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	var result protocol.InitializeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("decoding initialize result: %w", err)
	}

	c.mu.Lock()
	c.serverCaps = NewServerCapabilities(result.Capabilities)
	c.serverInfo = result.ServerInfo
	c.mu.Unlock()

	if err := c.notify(ctx, protocol.MethodInitialized, &protocol.InitializedParams{}); err != nil {
		return fmt.Errorf("initialized: %w", err)
	}

	capsDoc := gjson.ParseBytes(result.Capabilities)
	for _, f := range c.features.all() {
		if err := f.Initialize(capsDoc, c.defaultSelector); err != nil {
			return fmt.Errorf("initializing %s: %w", f.Method(), err)
		}
	}

	if c.settings != nil {
		c.pushSettings(ctx)
		c.settings.OnChange(func(_, _ *map[string]interface{}) {
			c.pushSettings(context.Background())
		})
	}

	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()

	c.logger.Info("session established",
		"server", serverName(result.ServerInfo),
	)
	return nil
}

func (c *Client) pushSettings(ctx context.Context) {
	values := c.settings.Get()
	if values == nil {
		return
	}
	err := c.notify(ctx, protocol.MethodDidChangeConfiguration, &protocol.DidChangeConfigurationParams{
		Settings: *values,
	})
	if err != nil {
		c.logger.Warn("didChangeConfiguration failed", "error", err)
	}
}

func serverName(info *protocol.ServerInfo) string {
	if info == nil {
		return "unknown"
	}
	if info.Version != "" {
		return info.Name + " " + info.Version
	}
	return info.Name
}
