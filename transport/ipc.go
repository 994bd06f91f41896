package transport

import "os"

// NodeIPC creates a transport for Node.js IPC communication. When a server
// is spawned with --node-ipc, the parent writes to the child's fd 3 and
// reads from its stdout.
func NodeIPC(in, out *os.File) Transport {
	return &ipcTransport{reader: in, writer: out}
}

type ipcTransport struct {
	reader *os.File
	writer *os.File
}

func (t *ipcTransport) Read(p []byte) (int, error)  { return t.reader.Read(p) }
func (t *ipcTransport) Write(p []byte) (int, error) { return t.writer.Write(p) }
func (t *ipcTransport) Close() error {
	t.reader.Close()
	return t.writer.Close()
}
