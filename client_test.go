package lspclient_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Camilotk/lspclient"
	"github.com/Camilotk/lspclient/clienttest"
	"github.com/Camilotk/lspclient/middleware"
	"github.com/Camilotk/lspclient/protocol"
)

// newSession builds a connected client against a scripted server announcing
// the given capabilities.
func newSession(t *testing.T, caps map[string]interface{}, opts ...lspclient.Option) (*lspclient.Client, *clienttest.Server) {
	t.Helper()
	server, tr := clienttest.NewServer(t, clienttest.WithCapabilities(caps))

	base := []lspclient.Option{
		lspclient.WithFeatures(
			lspclient.NewCompletionFeature(),
			lspclient.NewFoldingRangeFeature(),
			lspclient.NewCallHierarchyFeature(),
		),
		lspclient.WithDefaultSelector(clienttest.GoSelector()),
	}
	client, err := lspclient.New("test-editor", "0.0.1", append(base, opts...)...)
	require.NoError(t, err)
	require.NoError(t, client.Connect(context.Background(), tr))
	return client, server
}

func openGoFile(t *testing.T, client *lspclient.Client, uri string) {
	t.Helper()
	require.NoError(t, client.OpenDocument(context.Background(),
		clienttest.Doc(uri, "go", "package main\n")))
}

func completionAt(uri string) *protocol.CompletionParams {
	return &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentURI(uri)},
		},
	}
}

func TestDormantFeatureAnswersEmpty(t *testing.T) {
	// Server announces nothing: every feature stays dormant.
	client, server := newSession(t, map[string]interface{}{})
	openGoFile(t, client, "file:///main.go")

	list, err := client.Completion(context.Background(), completionAt("file:///main.go"), nil)
	require.NoError(t, err)
	clienttest.AssertCompletionEmpty(t, list)

	ranges, err := client.FoldingRanges(context.Background(), &protocol.FoldingRangeParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///main.go"},
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, ranges)

	// Dormant features never touch the wire.
	clienttest.AssertRequestCount(t, server, protocol.MethodCompletion, 0)
	clienttest.AssertRequestCount(t, server, protocol.MethodFoldingRange, 0)
}

func TestServerSelectorNarrowsDefault(t *testing.T) {
	// The server narrows completion to test files; the workspace default
	// selector would match all Go files.
	client, server := newSession(t, map[string]interface{}{
		"completionProvider": map[string]interface{}{
			"documentSelector": []map[string]string{{"language": "go", "pattern": "**/*_test.go"}},
		},
	})
	server.Handle(protocol.MethodCompletion, func(params json.RawMessage) (interface{}, error) {
		return []protocol.CompletionItem{{Label: "TestMain"}}, nil
	})
	openGoFile(t, client, "file:///pkg/main.go")
	openGoFile(t, client, "file:///pkg/main_test.go")

	list, err := client.Completion(context.Background(), completionAt("file:///pkg/main_test.go"), nil)
	require.NoError(t, err)
	clienttest.AssertCompletionContains(t, list, "TestMain")

	list, err = client.Completion(context.Background(), completionAt("file:///pkg/main.go"), nil)
	require.NoError(t, err)
	clienttest.AssertCompletionEmpty(t, list)
	clienttest.AssertRequestCount(t, server, protocol.MethodCompletion, 1)
}

func TestBooleanCapabilityUsesDefaultSelector(t *testing.T) {
	client, server := newSession(t, map[string]interface{}{
		"completionProvider": true,
	})
	server.Handle(protocol.MethodCompletion, func(params json.RawMessage) (interface{}, error) {
		return []protocol.CompletionItem{{Label: "fromDefault"}}, nil
	})
	openGoFile(t, client, "file:///main.go")

	list, err := client.Completion(context.Background(), completionAt("file:///main.go"), nil)
	require.NoError(t, err)
	clienttest.AssertCompletionContains(t, list, "fromDefault")
}

func TestCancellationDiscardsStaleResult(t *testing.T) {
	release := make(chan struct{})
	client, server := newSession(t, map[string]interface{}{
		"completionProvider": true,
	})
	server.Handle(protocol.MethodCompletion, func(params json.RawMessage) (interface{}, error) {
		<-release
		return []protocol.CompletionItem{{Label: "stale"}}, nil
	})
	t.Cleanup(func() { close(release) })
	openGoFile(t, client, "file:///main.go")

	src := lspclient.NewCancellationTokenSource()
	done := make(chan struct{})
	var list *protocol.CompletionList
	var err error
	go func() {
		defer close(done)
		list, err = client.Completion(context.Background(), completionAt("file:///main.go"), src.Token())
	}()

	// Wait until the request is in flight, then cancel.
	require.Eventually(t, func() bool {
		return len(server.Requests(protocol.MethodCompletion)) == 1
	}, time.Second, 5*time.Millisecond)
	src.Cancel()
	<-done

	require.NoError(t, err)
	clienttest.AssertCompletionEmpty(t, list)

	// The cancellation reached the wire.
	server.WaitForNotification(protocol.MethodCancelRequest, time.Second)
	assert.NotEmpty(t, server.CancelledIDs())
}

func TestInterceptorShortCircuitsNetwork(t *testing.T) {
	client, server := newSession(t, map[string]interface{}{
		"completionProvider": true,
	}, lspclient.WithInterceptors(lspclient.Interceptors{
		Completion: func(ctx context.Context, params *protocol.CompletionParams, token *lspclient.CancellationToken, next lspclient.CompletionFunc) (*protocol.CompletionList, error) {
			return &protocol.CompletionList{
				Items: []protocol.CompletionItem{{Label: "cached"}},
			}, nil
		},
	}))
	openGoFile(t, client, "file:///main.go")

	list, err := client.Completion(context.Background(), completionAt("file:///main.go"), nil)
	require.NoError(t, err)
	clienttest.AssertCompletionContains(t, list, "cached")
	clienttest.AssertRequestCount(t, server, protocol.MethodCompletion, 0)
}

func TestInterceptorCanDelegateAndRewrite(t *testing.T) {
	client, server := newSession(t, map[string]interface{}{
		"completionProvider": true,
	}, lspclient.WithInterceptors(lspclient.Interceptors{
		Completion: func(ctx context.Context, params *protocol.CompletionParams, token *lspclient.CancellationToken, next lspclient.CompletionFunc) (*protocol.CompletionList, error) {
			list, err := next(ctx, params, token)
			if err != nil {
				return nil, err
			}
			list.Items = append(list.Items, protocol.CompletionItem{Label: "appended"})
			return list, nil
		},
	}))
	server.Handle(protocol.MethodCompletion, func(params json.RawMessage) (interface{}, error) {
		return []protocol.CompletionItem{{Label: "fromServer"}}, nil
	})
	openGoFile(t, client, "file:///main.go")

	list, err := client.Completion(context.Background(), completionAt("file:///main.go"), nil)
	require.NoError(t, err)
	clienttest.AssertCompletionContains(t, list, "fromServer")
	clienttest.AssertCompletionContains(t, list, "appended")
}

func TestDynamicRegistrationLifecycle(t *testing.T) {
	registered := 0
	disposed := 0
	client, server := newSession(t, map[string]interface{}{},
		lspclient.WithRegistrar(lspclient.ProviderRegistrarFunc(
			func(method, id string, selector protocol.DocumentSelector) (func() error, error) {
				registered++
				return func() error {
					disposed++
					return nil
				}, nil
			})),
	)
	server.Handle(protocol.MethodCompletion, func(params json.RawMessage) (interface{}, error) {
		return []protocol.CompletionItem{{Label: "dynamic"}}, nil
	})
	openGoFile(t, client, "file:///main.go")

	// The feature starts dormant.
	list, err := client.Completion(context.Background(), completionAt("file:///main.go"), nil)
	require.NoError(t, err)
	clienttest.AssertCompletionEmpty(t, list)

	id := uuid.NewString()
	opts, _ := json.Marshal(protocol.CompletionRegistrationOptions{
		TextDocumentRegistrationOptions: protocol.TextDocumentRegistrationOptions{
			DocumentSelector: clienttest.GoSelector(),
		},
		TriggerCharacters: []string{"."},
	})
	server.RegisterCapability(protocol.Registration{
		ID:              id,
		Method:          protocol.MethodCompletion,
		RegisterOptions: opts,
	})
	require.Equal(t, 1, registered)

	list, err = client.Completion(context.Background(), completionAt("file:///main.go"), nil)
	require.NoError(t, err)
	clienttest.AssertCompletionContains(t, list, "dynamic")

	// Unregistering an unknown id is a no-op.
	server.UnregisterCapability(protocol.Unregistration{ID: "unknown", Method: protocol.MethodCompletion})
	assert.Zero(t, disposed)

	server.UnregisterCapability(protocol.Unregistration{ID: id, Method: protocol.MethodCompletion})
	require.Equal(t, 1, disposed)

	list, err = client.Completion(context.Background(), completionAt("file:///main.go"), nil)
	require.NoError(t, err)
	clienttest.AssertCompletionEmpty(t, list)
}

func TestWorkspaceConfigurationFromSettings(t *testing.T) {
	settings := lspclient.NewSettings(map[string]interface{}{
		"gopls": map[string]interface{}{
			"usePlaceholders": true,
		},
	})
	_, server := newSession(t, map[string]interface{}{}, lspclient.WithSettings(settings))

	var result []interface{}
	err := server.SendRequest(protocol.MethodWorkspaceConfiguration, &protocol.ConfigurationParams{
		Items: []protocol.ConfigurationItem{
			{Section: "gopls.usePlaceholders"},
			{Section: "missing.section"},
		},
	}, &result)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, true, result[0])
	assert.Nil(t, result[1])
}

func TestSettingsSwapPushesDidChangeConfiguration(t *testing.T) {
	settings := lspclient.NewSettings(map[string]interface{}{"tabSize": 4})
	_, server := newSession(t, map[string]interface{}{}, lspclient.WithSettings(settings))

	// Connect pushes the initial settings.
	server.WaitForNotification(protocol.MethodDidChangeConfiguration, time.Second)

	next := map[string]interface{}{"tabSize": 8}
	settings.Swap(&next)

	require.Eventually(t, func() bool {
		return len(server.Notifications(protocol.MethodDidChangeConfiguration)) >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestDocumentSyncNotifications(t *testing.T) {
	client, server := newSession(t, map[string]interface{}{})

	ctx := context.Background()
	require.NoError(t, client.OpenDocument(ctx, clienttest.Doc("file:///main.go", "go", "package main\n")))
	require.NoError(t, client.ChangeDocument(ctx, "file:///main.go", 2, []protocol.TextDocumentContentChangeEvent{
		{Text: "package main\n\nfunc main() {}\n"},
	}))
	require.NoError(t, client.SaveDocument(ctx, "file:///main.go", true))
	require.NoError(t, client.CloseDocument(ctx, "file:///main.go"))

	server.WaitForNotification(protocol.MethodDidClose, time.Second)
	assert.Len(t, server.Notifications(protocol.MethodDidOpen), 1)
	assert.Len(t, server.Notifications(protocol.MethodDidChange), 1)
	assert.Len(t, server.Notifications(protocol.MethodDidSave), 1)

	var saved protocol.DidSaveTextDocumentParams
	require.NoError(t, json.Unmarshal(server.Notifications(protocol.MethodDidSave)[0].Params, &saved))
	require.NotNil(t, saved.Text)
	assert.Contains(t, *saved.Text, "func main()")

	// Changing a closed document is rejected locally.
	err := client.ChangeDocument(ctx, "file:///main.go", 3, nil)
	require.Error(t, err)
}

func TestMiddlewareObservesRequests(t *testing.T) {
	metrics := middleware.NewMetrics()
	client, server := newSession(t, map[string]interface{}{
		"completionProvider": true,
	}, lspclient.WithMiddleware(middleware.Telemetry(metrics)))
	server.Handle(protocol.MethodCompletion, func(params json.RawMessage) (interface{}, error) {
		return nil, nil
	})
	openGoFile(t, client, "file:///main.go")

	_, err := client.Completion(context.Background(), completionAt("file:///main.go"), nil)
	require.NoError(t, err)

	snap := metrics.Snapshot()
	require.Contains(t, snap, protocol.MethodInitialize)
	require.Contains(t, snap, protocol.MethodCompletion)
	assert.EqualValues(t, 1, snap[protocol.MethodCompletion].Count)
}
