package lspclient

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/Camilotk/lspclient/protocol"
)

// Feature is one language feature the client supports (completion, folding
// range, call hierarchy). A feature moves through a fixed lifecycle: it
// declares its capability fragment before the handshake, is initialized from
// the server's capability entry, accepts dynamic registrations while the
// session runs, and is disposed when the session ends.
type Feature interface {
	// Method returns the LSP request method the feature serves. Dynamic
	// registrations are routed to features by this method.
	Method() string

	// FillClientCapabilities contributes the feature's fragment to the
	// outgoing client capabilities. Called exactly once, before connecting.
	FillClientCapabilities(b *CapabilityBuilder)

	// Initialize consumes the server capability document and reads the
	// feature's own entry from it.
	// An absent entry leaves the feature dormant. A bare true synthesizes
	// registration options from defaultSelector with a fresh id. An options
	// object is registered as-is; its own documentSelector, when present,
	// takes precedence over defaultSelector.
	Initialize(caps gjson.Result, defaultSelector protocol.DocumentSelector) error

	// Register adds a dynamic registration announced by the server.
	Register(reg protocol.Registration) error

	// Unregister removes the registration with the given id. It reports
	// whether a registration was removed; unknown ids are a no-op.
	Unregister(id string) bool

	// Dispose tears down all remaining registrations.
	Dispose()
}

// ProviderRegistrar connects feature registrations to the embedding editor.
// For every registration the feature calls Register exactly once and invokes
// the returned disposer exactly once when the registration ends.
type ProviderRegistrar interface {
	Register(method string, id string, selector protocol.DocumentSelector) (dispose func() error, err error)
}

// ProviderRegistrarFunc adapts a function to the ProviderRegistrar interface.
type ProviderRegistrarFunc func(method, id string, selector protocol.DocumentSelector) (func() error, error)

func (f ProviderRegistrarFunc) Register(method, id string, selector protocol.DocumentSelector) (func() error, error) {
	return f(method, id, selector)
}

// nopRegistrar is used when the embedding editor does not hook registrations.
type nopRegistrar struct{}

func (nopRegistrar) Register(string, string, protocol.DocumentSelector) (func() error, error) {
	return func() error { return nil }, nil
}

// registration is one live binding of a feature to a set of documents.
type registration[P any] struct {
	id       string
	selector protocol.DocumentSelector
	priority int
	options  P
	dispose  func() error
}

// registrationSet tracks a feature's live registrations in registration
// order. P is the feature's registration options type.
type registrationSet[P any] struct {
	mu     sync.Mutex
	logger *slog.Logger
	order  []*registration[P]
}

func newRegistrationSet[P any](logger *slog.Logger) *registrationSet[P] {
	return &registrationSet[P]{logger: logger}
}

// add inserts a registration. A duplicate id disposes the previous
// registration first; the newest one wins.
func (s *registrationSet[P]) add(id string, selector protocol.DocumentSelector, priority int, options P, dispose func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, reg := range s.order {
		if reg.id == id {
			s.disposeLocked(reg)
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.order = append(s.order, &registration[P]{
		id:       id,
		selector: selector,
		priority: priority,
		options:  options,
		dispose:  dispose,
	})
}

// remove disposes and drops the registration with the given id. It reports
// whether a registration was found.
func (s *registrationSet[P]) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, reg := range s.order {
		if reg.id == id {
			s.disposeLocked(reg)
			s.order = append(s.order[:i], s.order[i+1:]...)
			return true
		}
	}
	return false
}

// matching returns the options of every registration whose selector matches
// the document, ranked by priority descending. Ties keep registration order.
func (s *registrationSet[P]) matching(uri protocol.DocumentURI, languageID string) []P {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]*registration[P], 0, len(s.order))
	for _, reg := range s.order {
		if MatchesSelector(reg.selector, uri, languageID) {
			matched = append(matched, reg)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].priority > matched[j].priority
	})

	options := make([]P, len(matched))
	for i, reg := range matched {
		options[i] = reg.options
	}
	return options
}

// len reports the number of live registrations.
func (s *registrationSet[P]) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// disposeAll tears down every registration. Disposer failures are logged and
// swallowed so one bad disposer cannot block teardown.
func (s *registrationSet[P]) disposeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, reg := range s.order {
		s.disposeLocked(reg)
	}
	s.order = nil
}

func (s *registrationSet[P]) disposeLocked(reg *registration[P]) {
	if reg.dispose == nil {
		return
	}
	if err := reg.dispose(); err != nil && s.logger != nil {
		s.logger.Warn("registration disposer failed",
			"registration", reg.id,
			"error", err,
		)
	}
	reg.dispose = nil
}

// featureRegistry routes dynamic registration traffic to features by method.
type featureRegistry struct {
	mu       sync.Mutex
	order    []Feature
	byMethod map[string]Feature
}

func newFeatureRegistry() *featureRegistry {
	return &featureRegistry{byMethod: make(map[string]Feature)}
}

// add registers a feature. Adding two features for the same method is a
// programming error.
func (r *featureRegistry) add(f Feature) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	method := f.Method()
	if _, exists := r.byMethod[method]; exists {
		return fmt.Errorf("feature for %s already registered", method)
	}
	r.byMethod[method] = f
	r.order = append(r.order, f)
	return nil
}

// get returns the feature serving the given method.
func (r *featureRegistry) get(method string) (Feature, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.byMethod[method]
	return f, ok
}

// all returns the features in registration order.
func (r *featureRegistry) all() []Feature {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Feature(nil), r.order...)
}
