// Package transport provides pluggable I/O transports for reaching a
// language server: spawning it as a child process over stdio, dialing TCP,
// Unix domain sockets, named pipes, WebSocket endpoints, or an in-memory
// pair for tests.
package transport

import "io"

// Transport provides a bidirectional byte stream for JSON-RPC communication.
// Each implementation wraps a specific communication mechanism (child
// process, TCP, etc.) and exposes it as a simple reader/writer pair.
type Transport interface {
	io.ReadWriteCloser
}

// Func adapts a function that produces a Transport into a transport factory.
type Func func() (Transport, error)
