package lspclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Camilotk/lspclient/jsonrpc"
	"github.com/Camilotk/lspclient/protocol"
)

// handleRequest serves requests the server sends to the client: dynamic
// capability registration and workspace configuration lookups.
func (c *Client) handleRequest(ctx context.Context, method string, params jsonrpc.RawMessage) (interface{}, error) {
	switch method {
	case protocol.MethodRegisterCapability:
		return c.registerCapabilities(params)
	case protocol.MethodUnregisterCapability:
		return c.unregisterCapabilities(params)
	case protocol.MethodWorkspaceConfiguration:
		return c.configurationFor(params)
	case protocol.MethodShowMessageRequest:
		// No UI to ask; log the message and pick no action.
		var p protocol.ShowMessageRequestParams
		if err := json.Unmarshal(params, &p); err == nil {
			c.logServerMessage(p.Type, p.Message)
		}
		return nil, nil
	default:
		return nil, &jsonrpc.Error{
			Code:    jsonrpc.CodeMethodNotFound,
			Message: fmt.Sprintf("method not supported: %s", method),
		}
	}
}

// registerCapabilities routes each registration to the feature serving its
// method. A registration for a method no feature serves fails the whole
// request, as the server relies on the registration being live afterwards.
func (c *Client) registerCapabilities(params jsonrpc.RawMessage) (interface{}, error) {
	var p protocol.RegistrationParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &jsonrpc.Error{Code: jsonrpc.CodeInvalidParams, Message: err.Error()}
	}

	for _, reg := range p.Registrations {
		feature, ok := c.features.get(reg.Method)
		if !ok {
			return nil, &jsonrpc.Error{
				Code:    jsonrpc.CodeInvalidParams,
				Message: fmt.Sprintf("no feature handles %s registrations", reg.Method),
			}
		}
		if err := feature.Register(reg); err != nil {
			return nil, &jsonrpc.Error{
				Code:    jsonrpc.CodeInvalidParams,
				Message: fmt.Sprintf("registering %s: %v", reg.Method, err),
			}
		}
		c.logger.Debug("capability registered",
			"method", reg.Method,
			"registration", reg.ID,
		)
	}
	return nil, nil
}

// unregisterCapabilities removes registrations by id. Unknown ids are a
// no-op: the registration may already have been disposed.
func (c *Client) unregisterCapabilities(params jsonrpc.RawMessage) (interface{}, error) {
	var p protocol.UnregistrationParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &jsonrpc.Error{Code: jsonrpc.CodeInvalidParams, Message: err.Error()}
	}

	for _, unreg := range p.Unregistrations {
		feature, ok := c.features.get(unreg.Method)
		if !ok {
			continue
		}
		if feature.Unregister(unreg.ID) {
			c.logger.Debug("capability unregistered",
				"method", unreg.Method,
				"registration", unreg.ID,
			)
		}
	}
	return nil, nil
}

// configurationFor answers workspace/configuration from the settings store.
// Items the store cannot resolve get a null entry, preserving positions.
func (c *Client) configurationFor(params jsonrpc.RawMessage) (interface{}, error) {
	var p protocol.ConfigurationParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &jsonrpc.Error{Code: jsonrpc.CodeInvalidParams, Message: err.Error()}
	}

	results := make([]interface{}, len(p.Items))
	if c.settings == nil {
		return results, nil
	}
	values := c.settings.Get()
	if values == nil {
		return results, nil
	}
	for i, item := range p.Items {
		if v, ok := settingsSection(*values, item.Section); ok {
			results[i] = v
		}
	}
	return results, nil
}

// handleNotification serves notifications from the server. Window and
// telemetry traffic is logged; everything else is noted at debug level.
func (c *Client) handleNotification(ctx context.Context, method string, params jsonrpc.RawMessage) {
	switch method {
	case protocol.MethodLogMessage:
		var p protocol.LogMessageParams
		if err := json.Unmarshal(params, &p); err == nil {
			c.logServerMessage(p.Type, p.Message)
		}
	case protocol.MethodShowMessage:
		var p protocol.ShowMessageParams
		if err := json.Unmarshal(params, &p); err == nil {
			c.logServerMessage(p.Type, p.Message)
		}
	case protocol.MethodTelemetryEvent:
		c.logger.Debug("telemetry event", "payload", string(params))
	default:
		c.logger.Debug("unhandled notification", "method", method)
	}
}

func (c *Client) logServerMessage(level protocol.MessageType, message string) {
	switch level {
	case protocol.Error:
		c.logger.Error("server message", "message", message)
	case protocol.Warning:
		c.logger.Warn("server message", "message", message)
	case protocol.Info:
		c.logger.Info("server message", "message", message)
	default:
		c.logger.Debug("server message", "message", message)
	}
}
