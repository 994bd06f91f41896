package clienttest

import (
	"testing"

	"github.com/Camilotk/lspclient/protocol"
)

// AssertCompletionContains asserts that the completion list contains an item
// with the given label.
func AssertCompletionContains(t testing.TB, list *protocol.CompletionList, label string) {
	t.Helper()
	if list == nil {
		t.Fatal("completion list is nil")
	}
	for _, item := range list.Items {
		if item.Label == label {
			return
		}
	}
	labels := make([]string, len(list.Items))
	for i, item := range list.Items {
		labels[i] = item.Label
	}
	t.Errorf("completion list does not contain %q, got: %v", label, labels)
}

// AssertCompletionEmpty asserts that the completion list has no items.
func AssertCompletionEmpty(t testing.TB, list *protocol.CompletionList) {
	t.Helper()
	if list == nil {
		t.Fatal("completion list is nil")
	}
	if len(list.Items) != 0 {
		t.Errorf("expected empty completion list, got %d items", len(list.Items))
	}
}

// AssertNodeNames asserts the names of the call hierarchy items, in order.
func AssertNodeNames(t testing.TB, items []protocol.CallHierarchyItem, names ...string) {
	t.Helper()
	if len(items) != len(names) {
		t.Fatalf("expected %d items, got %d", len(names), len(items))
	}
	for i, item := range items {
		if item.Name != names[i] {
			t.Errorf("item %d: expected name %q, got %q", i, names[i], item.Name)
		}
	}
}

// AssertRequestCount asserts how many requests the server has recorded for
// the method.
func AssertRequestCount(t testing.TB, s *Server, method string, count int) {
	t.Helper()
	if got := len(s.Requests(method)); got != count {
		t.Errorf("expected %d %s requests, got %d", count, method, got)
	}
}
