package protocol

// LSP method names used by the client core.
const (
	// Lifecycle
	MethodInitialize  = "initialize"
	MethodInitialized = "initialized"
	MethodShutdown    = "shutdown"
	MethodExit        = "exit"
	MethodSetTrace    = "$/setTrace"

	// Cancellation
	MethodCancelRequest = "$/cancelRequest"

	// Dynamic registration (server -> client requests)
	MethodRegisterCapability   = "client/registerCapability"
	MethodUnregisterCapability = "client/unregisterCapability"

	// Text document sync (client -> server notifications)
	MethodDidOpen   = "textDocument/didOpen"
	MethodDidChange = "textDocument/didChange"
	MethodDidClose  = "textDocument/didClose"
	MethodDidSave   = "textDocument/didSave"

	// Language features (client -> server requests)
	MethodCompletion                 = "textDocument/completion"
	MethodCompletionItemResolve      = "completionItem/resolve"
	MethodFoldingRange               = "textDocument/foldingRange"
	MethodPrepareCallHierarchy       = "textDocument/prepareCallHierarchy"
	MethodCallHierarchyIncomingCalls = "callHierarchy/incomingCalls"
	MethodCallHierarchyOutgoingCalls = "callHierarchy/outgoingCalls"

	// Workspace
	MethodWorkspaceConfiguration    = "workspace/configuration"
	MethodDidChangeConfiguration    = "workspace/didChangeConfiguration"
	MethodDidChangeWorkspaceFolders = "workspace/didChangeWorkspaceFolders"

	// Window / telemetry (server -> client)
	MethodLogMessage         = "window/logMessage"
	MethodShowMessage        = "window/showMessage"
	MethodShowMessageRequest = "window/showMessageRequest"
	MethodTelemetryEvent     = "telemetry/event"
)
