package transport

import "net"

// DialSocket connects to a language server listening on a Unix domain
// socket. Neovim's vim.lsp.rpc and several servers expose this mode.
func DialSocket(path string) (Transport, error) {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return nil, err
	}
	return &socketTransport{conn: conn}, nil
}

type socketTransport struct {
	conn net.Conn
}

func (s *socketTransport) Read(p []byte) (int, error)  { return s.conn.Read(p) }
func (s *socketTransport) Write(p []byte) (int, error) { return s.conn.Write(p) }
func (s *socketTransport) Close() error                { return s.conn.Close() }
