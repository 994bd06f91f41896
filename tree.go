package lspclient

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Camilotk/lspclient/protocol"
)

// CallDirection selects which edges a call hierarchy tree expands.
type CallDirection int

const (
	// Incoming expands towards callers.
	Incoming CallDirection = iota
	// Outgoing expands towards callees.
	Outgoing
)

func (d CallDirection) String() string {
	if d == Incoming {
		return "incoming"
	}
	return "outgoing"
}

// CallNode is one entry in a call hierarchy tree. Children are fetched
// lazily on first expansion and cached; FromRanges carries the call sites
// that link the node to its parent.
type CallNode struct {
	Item       protocol.CallHierarchyItem
	FromRanges []protocol.Range

	tree     *CallHierarchyTree
	parent   *CallNode
	children []*CallNode
	fetched  bool
}

// Parent returns the node's parent, or nil for a root.
func (n *CallNode) Parent() *CallNode { return n.parent }

// CallHierarchyTree is an interactive, lazily expanded view over the call
// hierarchy of a symbol. At most one child fetch is in flight: expanding a
// node cancels and supersedes any earlier expansion still running, and a
// superseded result is discarded, never published into the tree.
type CallHierarchyTree struct {
	client    *Client
	direction CallDirection

	mu          sync.Mutex
	roots       []*CallNode
	slot        tokenSlot
	subscribers map[int]func(node *CallNode)
	nextSub     int
	disposed    bool
}

// NewCallHierarchyTree prepares the call hierarchy at the given position and
// builds a tree over the resulting root items. A position with no callable
// symbol is an error, not an empty tree.
func NewCallHierarchyTree(ctx context.Context, client *Client, params *protocol.CallHierarchyPrepareParams, direction CallDirection) (*CallHierarchyTree, error) {
	items, err := client.PrepareCallHierarchy(ctx, params, nil)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no callable symbol at %s:%d:%d",
			params.TextDocument.URI, params.Position.Line, params.Position.Character)
	}

	t := &CallHierarchyTree{
		client:      client,
		direction:   direction,
		subscribers: make(map[int]func(node *CallNode)),
	}
	for _, item := range items {
		t.roots = append(t.roots, &CallNode{Item: item, tree: t})
	}
	return t, nil
}

// Direction returns the direction the tree currently expands in.
func (t *CallHierarchyTree) Direction() CallDirection {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.direction
}

// Roots returns the root nodes of the tree.
func (t *CallHierarchyTree) Roots() []*CallNode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*CallNode(nil), t.roots...)
}

// Children returns the children of node, fetching them on first expansion.
// A nil node yields the roots. Cached children are returned unchanged.
// Starting a fetch cancels any fetch still in flight; the superseded call
// returns context.Canceled and its result is dropped.
func (t *CallHierarchyTree) Children(ctx context.Context, node *CallNode) ([]*CallNode, error) {
	t.mu.Lock()
	if t.disposed {
		t.mu.Unlock()
		return nil, errors.New("call hierarchy tree is disposed")
	}
	if node == nil {
		roots := append([]*CallNode(nil), t.roots...)
		t.mu.Unlock()
		return roots, nil
	}
	if node.tree != t {
		t.mu.Unlock()
		panic("call hierarchy: node does not belong to this tree")
	}
	if node.fetched {
		children := append([]*CallNode(nil), node.children...)
		t.mu.Unlock()
		return children, nil
	}
	direction := t.direction
	t.mu.Unlock()

	token := t.slot.reset()

	children, err := t.fetchChildren(ctx, node, direction, token)
	if err != nil {
		return nil, err
	}
	if token.IsCancellationRequested() {
		return nil, context.Canceled
	}

	t.mu.Lock()
	if t.disposed {
		t.mu.Unlock()
		return nil, errors.New("call hierarchy tree is disposed")
	}
	if !node.fetched {
		node.children = children
		node.fetched = true
	}
	result := append([]*CallNode(nil), node.children...)
	subscribers := t.snapshotSubscribersLocked()
	t.mu.Unlock()

	for _, fn := range subscribers {
		fn(node)
	}
	return result, nil
}

func (t *CallHierarchyTree) fetchChildren(ctx context.Context, node *CallNode, direction CallDirection, token *CancellationToken) ([]*CallNode, error) {
	var children []*CallNode
	switch direction {
	case Incoming:
		calls, err := t.client.IncomingCalls(ctx, node.Item, token)
		if err != nil {
			return nil, err
		}
		for _, call := range calls {
			children = append(children, &CallNode{
				Item:       call.From,
				FromRanges: call.FromRanges,
				tree:       t,
				parent:     node,
			})
		}
	case Outgoing:
		calls, err := t.client.OutgoingCalls(ctx, node.Item, token)
		if err != nil {
			return nil, err
		}
		for _, call := range calls {
			children = append(children, &CallNode{
				Item:       call.To,
				FromRanges: call.FromRanges,
				tree:       t,
				parent:     node,
			})
		}
	}
	return children, nil
}

// ReRoot replaces the tree's roots with a fresh node derived from a node the
// tree has shown before, cached children stripped, and switches direction.
// Subscribers receive a nil node: the whole tree must be redrawn. Re-rooting
// on a node from another tree is a programming error and panics.
func (t *CallHierarchyTree) ReRoot(node *CallNode, direction CallDirection) {
	if node == nil || node.tree != t {
		panic("call hierarchy: node does not belong to this tree")
	}

	t.mu.Lock()
	if t.disposed {
		t.mu.Unlock()
		return
	}
	t.slot.cancel()
	t.direction = direction
	t.roots = []*CallNode{{Item: node.Item, tree: t}}
	subscribers := t.snapshotSubscribersLocked()
	t.mu.Unlock()

	for _, fn := range subscribers {
		fn(nil)
	}
}

// OnChange subscribes to tree changes. The callback receives the expanded
// node, or nil when the whole tree changed. The returned function removes
// the subscription.
func (t *CallHierarchyTree) OnChange(fn func(node *CallNode)) (remove func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextSub
	t.nextSub++
	if t.subscribers == nil {
		t.subscribers = make(map[int]func(node *CallNode))
	}
	t.subscribers[id] = fn
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.subscribers, id)
	}
}

func (t *CallHierarchyTree) snapshotSubscribersLocked() []func(node *CallNode) {
	fns := make([]func(node *CallNode), 0, len(t.subscribers))
	for _, fn := range t.subscribers {
		fns = append(fns, fn)
	}
	return fns
}

// Dispose cancels any in-flight fetch and drops all subscribers. The tree
// must not be used afterwards.
func (t *CallHierarchyTree) Dispose() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.disposed {
		return
	}
	t.disposed = true
	t.slot.cancel()
	t.subscribers = nil
}
