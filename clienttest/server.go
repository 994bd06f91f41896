// Package clienttest provides testing utilities for lspclient sessions.
// It includes a scripted in-memory language server that answers requests
// from handler functions registered per method, plus assertion helpers for
// common client-side patterns.
package clienttest

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/Camilotk/lspclient/jsonrpc"
	"github.com/Camilotk/lspclient/protocol"
	"github.com/Camilotk/lspclient/transport"
)

// Handler answers one scripted request. Handlers run on their own goroutine,
// so a handler may block to hold a request in flight.
type Handler func(params json.RawMessage) (interface{}, error)

// Server is a scripted in-memory language server. It answers initialize with
// the configured capability document, dispatches other requests to scripted
// handlers, and records everything the client sends.
type Server struct {
	t testing.TB

	conn      *jsonrpc.Conn
	transport transport.Transport

	mu            sync.Mutex
	capabilities  interface{}
	handlers      map[string]Handler
	requests      []Message
	notifications []Message
}

// Message is one recorded inbound message.
type Message struct {
	Method string
	Params json.RawMessage
}

// ServerOption configures a test server.
type ServerOption func(*Server)

// WithCapabilities sets the capability document the server announces on
// initialize. Any JSON-marshalable value works; maps keep tests readable.
func WithCapabilities(caps interface{}) ServerOption {
	return func(s *Server) { s.capabilities = caps }
}

// WithHandler scripts the response for a method.
func WithHandler(method string, h Handler) ServerOption {
	return func(s *Server) { s.handlers[method] = h }
}

// NewServer starts a scripted server on one end of an in-memory pipe and
// returns it together with the transport for the client end. The server is
// shut down when the test completes.
func NewServer(t testing.TB, opts ...ServerOption) (*Server, transport.Transport) {
	clientTransport, serverTransport := transport.MemoryPipe()

	s := &Server{
		t:            t,
		transport:    serverTransport,
		capabilities: map[string]interface{}{},
		handlers:     make(map[string]Handler),
	}
	for _, opt := range opts {
		opt(s)
	}

	codec := jsonrpc.NewCodec(serverTransport, serverTransport)
	s.conn = jsonrpc.NewConn(codec, s.handleRequest, s.handleNotification)

	ctx, cancel := context.WithCancel(context.Background())
	go s.conn.Run(ctx)

	t.Cleanup(func() {
		cancel()
		s.conn.Close()
		serverTransport.Close()
		clientTransport.Close()
	})

	return s, clientTransport
}

// Handle scripts (or replaces) the response for a method after creation.
func (s *Server) Handle(method string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method] = h
}

func (s *Server) handleRequest(ctx context.Context, method string, params jsonrpc.RawMessage) (interface{}, error) {
	s.mu.Lock()
	s.requests = append(s.requests, Message{Method: method, Params: params})
	handler := s.handlers[method]
	caps := s.capabilities
	s.mu.Unlock()

	switch method {
	case protocol.MethodInitialize:
		if handler != nil {
			return handler(params)
		}
		return map[string]interface{}{
			"capabilities": caps,
			"serverInfo":   map[string]string{"name": "clienttest", "version": "0.0.0"},
		}, nil
	case protocol.MethodShutdown:
		return nil, nil
	}

	if handler != nil {
		return handler(params)
	}
	return nil, &jsonrpc.Error{
		Code:    jsonrpc.CodeMethodNotFound,
		Message: "no scripted handler for " + method,
	}
}

func (s *Server) handleNotification(ctx context.Context, method string, params jsonrpc.RawMessage) {
	s.mu.Lock()
	s.notifications = append(s.notifications, Message{Method: method, Params: params})
	handler := s.handlers[method]
	s.mu.Unlock()
	if handler != nil {
		handler(params)
	}
}

// Requests returns all recorded requests for the given method, in order.
func (s *Server) Requests(method string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Message
	for _, m := range s.requests {
		if m.Method == method {
			out = append(out, m)
		}
	}
	return out
}

// Notifications returns all recorded notifications for the given method.
func (s *Server) Notifications(method string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Message
	for _, m := range s.notifications {
		if m.Method == method {
			out = append(out, m)
		}
	}
	return out
}

// WaitForNotification polls until a notification for the method arrives, or
// fails the test after the timeout.
func (s *Server) WaitForNotification(method string, timeout time.Duration) Message {
	s.t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if msgs := s.Notifications(method); len(msgs) > 0 {
			return msgs[len(msgs)-1]
		}
		time.Sleep(5 * time.Millisecond)
	}
	s.t.Fatalf("timed out waiting for %s notification", method)
	return Message{}
}

// CancelledIDs returns the request ids the client has cancelled so far.
func (s *Server) CancelledIDs() []interface{} {
	var ids []interface{}
	for _, m := range s.Notifications(protocol.MethodCancelRequest) {
		var p protocol.CancelParams
		if json.Unmarshal(m.Params, &p) == nil {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// SendRequest sends a server-to-client request and decodes the result.
func (s *Server) SendRequest(method string, params, result interface{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := s.conn.Call(ctx, method, params)
	if err != nil {
		return err
	}
	if resp.Error != nil {
		return resp.Error
	}
	if result != nil && resp.Result != nil && string(resp.Result) != "null" {
		return json.Unmarshal(resp.Result, result)
	}
	return nil
}

// RegisterCapability pushes dynamic registrations to the client and fails
// the test if the client rejects them.
func (s *Server) RegisterCapability(regs ...protocol.Registration) {
	s.t.Helper()
	err := s.SendRequest(protocol.MethodRegisterCapability, &protocol.RegistrationParams{
		Registrations: regs,
	}, nil)
	if err != nil {
		s.t.Fatalf("client/registerCapability failed: %v", err)
	}
}

// UnregisterCapability withdraws dynamic registrations.
func (s *Server) UnregisterCapability(unregs ...protocol.Unregistration) {
	s.t.Helper()
	err := s.SendRequest(protocol.MethodUnregisterCapability, &protocol.UnregistrationParams{
		Unregistrations: unregs,
	}, nil)
	if err != nil {
		s.t.Fatalf("client/unregisterCapability failed: %v", err)
	}
}

// Notify sends a server-to-client notification.
func (s *Server) Notify(method string, params interface{}) {
	s.t.Helper()
	if err := s.conn.Notify(context.Background(), method, params); err != nil {
		s.t.Fatalf("notify %s failed: %v", method, err)
	}
}
