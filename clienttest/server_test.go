package clienttest_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Camilotk/lspclient"
	"github.com/Camilotk/lspclient/clienttest"
	"github.com/Camilotk/lspclient/protocol"
)

func TestScriptedServerHandshake(t *testing.T) {
	server, tr := clienttest.NewServer(t, clienttest.WithCapabilities(map[string]interface{}{
		"completionProvider": map[string]interface{}{
			"triggerCharacters": []string{"."},
		},
	}))

	client, err := lspclient.New("test-editor", "0.0.1",
		lspclient.WithFeatures(lspclient.NewCompletionFeature()),
		lspclient.WithDefaultSelector(clienttest.GoSelector()),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := client.Connect(context.Background(), tr); err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	if got := len(server.Requests(protocol.MethodInitialize)); got != 1 {
		t.Fatalf("expected 1 initialize request, got %d", got)
	}
	server.WaitForNotification(protocol.MethodInitialized, time.Second)

	entry := client.ServerCapabilities().Get("completionProvider.triggerCharacters")
	if !entry.Exists() {
		t.Error("server capabilities lost the completionProvider entry")
	}
}

func TestScriptedHandlerAnswersRequests(t *testing.T) {
	server, tr := clienttest.NewServer(t, clienttest.WithCapabilities(map[string]interface{}{
		"completionProvider": true,
	}))
	server.Handle(protocol.MethodCompletion, func(params json.RawMessage) (interface{}, error) {
		return []protocol.CompletionItem{{Label: "scripted"}}, nil
	})

	client, err := lspclient.New("test-editor", "0.0.1",
		lspclient.WithFeatures(lspclient.NewCompletionFeature()),
		lspclient.WithDefaultSelector(clienttest.GoSelector()),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := client.Connect(context.Background(), tr); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	if err := client.OpenDocument(context.Background(), clienttest.Doc("file:///main.go", "go", "package main\n")); err != nil {
		t.Fatal(err)
	}

	list, err := client.Completion(context.Background(), &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///main.go"},
		},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	clienttest.AssertCompletionContains(t, list, "scripted")
	clienttest.AssertRequestCount(t, server, protocol.MethodCompletion, 1)
}
