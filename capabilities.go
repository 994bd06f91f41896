package lspclient

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/Camilotk/lspclient/protocol"
)

// CapabilityBuilder accumulates the client capabilities announced during the
// initialize handshake. Features fill in their own fragments under dotted
// paths; Ensure lets independent features co-populate sibling subtrees
// without clobbering each other. The builder is frozen when the handshake
// starts; mutation after that is a programming error and panics.
type CapabilityBuilder struct {
	doc    []byte
	frozen bool
}

// NewCapabilityBuilder creates a builder holding an empty capability document.
func NewCapabilityBuilder() *CapabilityBuilder {
	return &CapabilityBuilder{doc: []byte(`{}`)}
}

// Ensure creates an empty object at the dotted path if nothing exists there
// yet, and returns the builder for chaining. An existing value at the path is
// left untouched.
func (b *CapabilityBuilder) Ensure(path string) *CapabilityBuilder {
	b.checkFrozen()
	if gjson.GetBytes(b.doc, path).Exists() {
		return b
	}
	doc, err := sjson.SetRawBytes(b.doc, path, []byte(`{}`))
	if err != nil {
		panic(fmt.Sprintf("capability path %q: %v", path, err))
	}
	b.doc = doc
	return b
}

// Set writes a value at the dotted path, replacing any existing value.
func (b *CapabilityBuilder) Set(path string, value interface{}) *CapabilityBuilder {
	b.checkFrozen()
	doc, err := sjson.SetBytes(b.doc, path, value)
	if err != nil {
		panic(fmt.Sprintf("capability path %q: %v", path, err))
	}
	b.doc = doc
	return b
}

// SetRaw writes a raw JSON fragment at the dotted path.
func (b *CapabilityBuilder) SetRaw(path string, raw []byte) *CapabilityBuilder {
	b.checkFrozen()
	doc, err := sjson.SetRawBytes(b.doc, path, raw)
	if err != nil {
		panic(fmt.Sprintf("capability path %q: %v", path, err))
	}
	b.doc = doc
	return b
}

// Get returns the value at the dotted path.
func (b *CapabilityBuilder) Get(path string) gjson.Result {
	return gjson.GetBytes(b.doc, path)
}

// Freeze marks the builder immutable and returns the finished document.
// Calling Freeze more than once returns the same document.
func (b *CapabilityBuilder) Freeze() []byte {
	b.frozen = true
	return b.doc
}

func (b *CapabilityBuilder) checkFrozen() {
	if b.frozen {
		panic("capability builder is frozen: capabilities must be declared before connecting")
	}
}

// ServerCapabilities wraps the raw capability document the server returned
// from initialize. Entries are kept as raw JSON because a capability may be
// absent, a bare boolean, or an options object.
type ServerCapabilities struct {
	doc []byte
}

// NewServerCapabilities wraps a raw server capability document.
func NewServerCapabilities(doc []byte) *ServerCapabilities {
	if doc == nil {
		doc = []byte(`{}`)
	}
	return &ServerCapabilities{doc: doc}
}

// Get returns the capability entry at the dotted path. The result reports
// Exists() false when the server did not announce the capability.
func (s *ServerCapabilities) Get(path string) gjson.Result {
	return gjson.GetBytes(s.doc, path)
}

// Raw returns the raw capability document.
func (s *ServerCapabilities) Raw() []byte {
	return s.doc
}

// PositionEncoding returns the negotiated position encoding, defaulting to
// UTF-16 as the protocol mandates.
func (s *ServerCapabilities) PositionEncoding() string {
	if enc := s.Get("positionEncoding"); enc.Exists() {
		return enc.String()
	}
	return "utf-16"
}

// baselineCapabilities declares the capabilities every client built on this
// package supports, independent of registered features.
func baselineCapabilities(b *CapabilityBuilder) {
	b.Set("general.positionEncodings", []string{"utf-16"})
	b.Set("workspace.workspaceFolders", true)
	b.Set("workspace.configuration", true)
	b.Set("workspace.didChangeConfiguration.dynamicRegistration", false)
	b.Set("textDocument.synchronization.dynamicRegistration", false)
	b.Set("textDocument.synchronization.didSave", true)
	b.Ensure("window")
}

// decodeRegistrationOptions unmarshals a registration's raw options into dst.
// A registration with no options leaves dst at its zero value.
func decodeRegistrationOptions(reg protocol.Registration, dst interface{}) error {
	if len(reg.RegisterOptions) == 0 {
		return nil
	}
	if err := json.Unmarshal(reg.RegisterOptions, dst); err != nil {
		return fmt.Errorf("decoding %s registration options: %w", reg.Method, err)
	}
	return nil
}
