package transport

import "golang.org/x/net/websocket"

// DialWebSocket connects to a language server exposed over WebSocket
// (e.g., "ws://localhost:9258/lsp"). Used to reach servers hosted behind
// web-based workbenches.
func DialWebSocket(url, origin string) (Transport, error) {
	conn, err := websocket.Dial(url, "", origin)
	if err != nil {
		return nil, err
	}
	return &wsTransport{conn: conn}, nil
}

type wsTransport struct {
	conn *websocket.Conn
	rest []byte
}

func (w *wsTransport) Read(p []byte) (int, error) {
	if len(w.rest) == 0 {
		var msg []byte
		if err := websocket.Message.Receive(w.conn, &msg); err != nil {
			return 0, err
		}
		w.rest = msg
	}
	n := copy(p, w.rest)
	w.rest = w.rest[n:]
	return n, nil
}

func (w *wsTransport) Write(p []byte) (int, error) {
	if err := websocket.Message.Send(w.conn, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *wsTransport) Close() error {
	return w.conn.Close()
}
