package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	readWait  = 5 * time.Minute
)

// StreamWriter serializes writes to one connection. The event stream writes
// from two goroutines (pub/sub forwarding and pong replies) and gorilla
// supports only a single concurrent writer, so every write takes the mutex.
type StreamWriter struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// NewStreamWriter wraps an upgraded connection.
func NewStreamWriter(conn *websocket.Conn) *StreamWriter {
	return &StreamWriter{conn: conn}
}

// WriteTyped sends a typed event payload as JSON.
func (w *StreamWriter) WriteTyped(v interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.conn.WriteJSON(v)
}

// WriteText forwards an already-encoded payload as one text message.
func (w *StreamWriter) WriteText(payload []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.conn.WriteMessage(websocket.TextMessage, payload)
}

// WriteError sends a typed ErrorResponse.
func (w *StreamWriter) WriteError(errMsg string) error {
	return w.WriteTyped(ErrorResponse{
		Event: EventError,
		Error: errMsg,
	})
}

// ReadJSON decodes the next client message, bounding the wait so a silent
// peer eventually tears the stream down.
func ReadJSON(conn *websocket.Conn, v interface{}) error {
	conn.SetReadDeadline(time.Now().Add(readWait))
	return conn.ReadJSON(v)
}
