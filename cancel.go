package lspclient

import "sync"

// CancellationToken signals that an operation should be abandoned. Tokens are
// produced by a CancellationTokenSource and observed by the operations they
// were handed to; cancelling the source cancels the token exactly once.
type CancellationToken struct {
	mu        sync.Mutex
	done      chan struct{}
	cancelled bool
	nextID    int
	callbacks map[int]func()
}

func newCancellationToken() *CancellationToken {
	return &CancellationToken{
		done:      make(chan struct{}),
		callbacks: make(map[int]func()),
	}
}

// Done returns a channel that is closed when the token is cancelled.
func (t *CancellationToken) Done() <-chan struct{} {
	return t.done
}

// IsCancellationRequested reports whether the token has been cancelled.
func (t *CancellationToken) IsCancellationRequested() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

// OnCancellation registers fn to run when the token is cancelled. If the token
// is already cancelled, fn runs immediately. The returned function removes the
// registration; removing after the callback has fired is a no-op.
func (t *CancellationToken) OnCancellation(fn func()) (remove func()) {
	t.mu.Lock()
	if t.cancelled {
		t.mu.Unlock()
		fn()
		return func() {}
	}
	id := t.nextID
	t.nextID++
	t.callbacks[id] = fn
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.callbacks, id)
		t.mu.Unlock()
	}
}

func (t *CancellationToken) cancel() {
	t.mu.Lock()
	if t.cancelled {
		t.mu.Unlock()
		return
	}
	t.cancelled = true
	close(t.done)
	callbacks := make([]func(), 0, len(t.callbacks))
	for _, fn := range t.callbacks {
		callbacks = append(callbacks, fn)
	}
	t.callbacks = nil
	t.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

// CancellationTokenSource creates and controls a CancellationToken.
type CancellationTokenSource struct {
	mu       sync.Mutex
	token    *CancellationToken
	disposed bool
}

// NewCancellationTokenSource creates a source with a fresh token.
func NewCancellationTokenSource() *CancellationTokenSource {
	return &CancellationTokenSource{token: newCancellationToken()}
}

// Token returns the source's token, or nil if the source has been disposed.
func (s *CancellationTokenSource) Token() *CancellationToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Cancel cancels the source's token. Cancelling more than once, or after
// Dispose, is a no-op.
func (s *CancellationTokenSource) Cancel() {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()
	if token != nil {
		token.cancel()
	}
}

// Dispose releases the source. The token is detached without being cancelled;
// operations already holding it keep a token that will never fire.
func (s *CancellationTokenSource) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposed = true
	s.token = nil
}

// tokenSlot owns at most one in-flight cancellation source. Arming the slot
// cancels and disposes the previous source, so only the newest operation
// survives.
type tokenSlot struct {
	mu     sync.Mutex
	source *CancellationTokenSource
}

// reset cancels the current source, installs a fresh one, and returns its token.
func (s *tokenSlot) reset() *CancellationToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.source != nil {
		s.source.Cancel()
		s.source.Dispose()
	}
	s.source = NewCancellationTokenSource()
	return s.source.Token()
}

// release disposes the current source without cancelling it.
func (s *tokenSlot) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.source != nil {
		s.source.Dispose()
		s.source = nil
	}
}

// cancel cancels and disposes the current source, if any.
func (s *tokenSlot) cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.source != nil {
		s.source.Cancel()
		s.source.Dispose()
		s.source = nil
	}
}
