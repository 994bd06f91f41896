package lspclient

import "testing"

func TestEnsurePreservesSiblings(t *testing.T) {
	b := NewCapabilityBuilder()

	// Two independent features filling sibling subtrees.
	b.Ensure("textDocument.completion")
	b.Set("textDocument.completion.dynamicRegistration", true)
	b.Ensure("textDocument.foldingRange")
	b.Set("textDocument.foldingRange.dynamicRegistration", true)

	// Re-ensuring an existing subtree must not wipe it.
	b.Ensure("textDocument.completion")
	b.Ensure("textDocument")

	if !b.Get("textDocument.completion.dynamicRegistration").Bool() {
		t.Error("completion fragment was clobbered")
	}
	if !b.Get("textDocument.foldingRange.dynamicRegistration").Bool() {
		t.Error("foldingRange fragment was clobbered")
	}
}

func TestFreezePanicsOnMutation(t *testing.T) {
	b := NewCapabilityBuilder()
	b.Set("workspace.configuration", true)
	doc := b.Freeze()

	if b.Get("workspace.configuration").Exists() == false {
		t.Fatal("frozen document lost its content")
	}
	if string(doc) != string(b.Freeze()) {
		t.Fatal("repeated Freeze returned a different document")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("Set after Freeze did not panic")
		}
	}()
	b.Set("workspace.configuration", false)
}

func TestServerCapabilityShapes(t *testing.T) {
	caps := NewServerCapabilities([]byte(`{
		"completionProvider": {"triggerCharacters": ["."]},
		"foldingRangeProvider": true,
		"positionEncoding": "utf-8"
	}`))

	if !caps.Get("completionProvider").IsObject() {
		t.Error("options object entry not preserved")
	}
	if !caps.Get("foldingRangeProvider").Bool() {
		t.Error("boolean entry not preserved")
	}
	if caps.Get("callHierarchyProvider").Exists() {
		t.Error("absent entry reports existing")
	}
	if caps.PositionEncoding() != "utf-8" {
		t.Errorf("position encoding: got %q", caps.PositionEncoding())
	}

	if NewServerCapabilities(nil).PositionEncoding() != "utf-16" {
		t.Error("default position encoding is not utf-16")
	}
}
