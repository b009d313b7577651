package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// The event stream writes from two goroutines at once: pub/sub payloads from
// the forward loop and pong replies from the reader. Unserialized, gorilla
// panics with "concurrent write to websocket connection".
func TestStreamWriterConcurrentWrites(t *testing.T) {
	const (
		writers          = 4
		messagesPerSide  = 32
		expectedMessages = writers * messagesPerSide * 2
	)

	upgrader := websocket.Upgrader{}
	received := make(chan struct{}, expectedMessages)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
			received <- struct{}{}
		}
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	writer := NewStreamWriter(conn)

	var wg sync.WaitGroup
	for g := 0; g < writers; g++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < messagesPerSide; i++ {
				if err := writer.WriteTyped(PongResponse{Event: EventPong}); err != nil {
					t.Errorf("WriteTyped: %v", err)
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < messagesPerSide; i++ {
				if err := writer.WriteText([]byte(`{"event":"wallet","balance":50,"value":50}`)); err != nil {
					t.Errorf("WriteText: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	deadline := time.After(5 * time.Second)
	for i := 0; i < expectedMessages; i++ {
		select {
		case <-received:
		case <-deadline:
			t.Fatalf("server received %d of %d messages", i, expectedMessages)
		}
	}
}

func TestStreamWriterErrorPayload(t *testing.T) {
	upgrader := websocket.Upgrader{}
	got := make(chan ErrorResponse, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		var resp ErrorResponse
		if err := conn.ReadJSON(&resp); err != nil {
			return
		}
		got <- resp
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := NewStreamWriter(conn).WriteError("stream closed"); err != nil {
		t.Fatalf("WriteError: %v", err)
	}

	select {
	case resp := <-got:
		if resp.Event != EventError || resp.Error != "stream closed" {
			t.Errorf("got %+v, want error event with message", resp)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no message received")
	}
}
