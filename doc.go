// Package lspclient implements the client-side core of the Language Server
// Protocol: capability negotiation, dynamically registered language
// features, a cancelable dispatch pipeline, and an interactive call
// hierarchy tree.
//
// A session is built from a Client, a set of Features, and a transport:
//
//	client, err := lspclient.New("my-editor", "1.0.0",
//		lspclient.WithFeatures(
//			lspclient.NewCompletionFeature(),
//			lspclient.NewFoldingRangeFeature(),
//			lspclient.NewCallHierarchyFeature(),
//		),
//		lspclient.WithDefaultSelector(protocol.DocumentSelector{
//			{Language: "go", Scheme: "file"},
//		}),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	t, err := transport.Spawn("gopls")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := client.Connect(ctx, t); err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close(ctx)
//
// During Connect the client assembles its capability document from a
// baseline plus each feature's fragment, performs the initialize handshake,
// and initializes every feature from the server's answer. A feature whose
// capability the server never announced stays dormant; its operations
// return empty results instead of failing. Servers narrow or extend
// features at runtime through client/registerCapability and
// client/unregisterCapability.
//
// Requests carry an optional CancellationToken. Cancelling it (or the
// context) propagates $/cancelRequest to the server and guarantees the
// caller never sees a stale result. Per-operation Interceptors can rewrite
// arguments or results, or answer without touching the network.
package lspclient
