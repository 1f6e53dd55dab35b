package api

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ShelfWatch/internal/domain/models"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

func dialStream(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := strings.Replace(srv.URL, "http", "ws", 1) + "/api/stats/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func TestStreamDeliversBroadcast(t *testing.T) {
	hub := NewStreamHub(testLogger(t))
	e := echo.New()
	e.GET("/api/stats/stream", hub.Serve)
	srv := httptest.NewServer(e)
	defer srv.Close()

	conn := dialStream(t, srv)
	defer conn.Close()

	// The hub registers the connection before Serve's write loop starts, but
	// give the server goroutine a moment to get there.
	deadline := time.Now().Add(2 * time.Second)
	for {
		hub.mu.Lock()
		n := len(hub.conns)
		hub.mu.Unlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Broadcast(models.Stats{Total: 4, AveragePrice: 25.5})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var st models.Stats
	if err := conn.ReadJSON(&st); err != nil {
		t.Fatalf("read: %v", err)
	}
	if st.Total != 4 || st.AveragePrice != 25.5 {
		t.Fatalf("unexpected stats %+v", st)
	}

	hub.CloseAll()
}

// A client that cannot keep up loses intermediate values; the newest queued
// value wins, the broadcast itself never blocks.
func TestStreamDropsForBackloggedClient(t *testing.T) {
	hub := NewStreamHub(testLogger(t))

	// Register a connection whose send buffer is already full and that has
	// no write loop draining it.
	ch := make(chan models.Stats, 1)
	stale := &websocket.Conn{}
	hub.mu.Lock()
	hub.conns[stale] = ch
	hub.mu.Unlock()

	first := models.Stats{Total: 1, AveragePrice: 10}
	hub.Broadcast(first)

	done := make(chan struct{})
	go func() {
		hub.Broadcast(models.Stats{Total: 2, AveragePrice: 20})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("broadcast blocked on a backlogged client")
	}

	if got := <-ch; got != first {
		t.Fatalf("expected the queued value to survive, got %+v", got)
	}
	select {
	case got := <-ch:
		t.Fatalf("dropped value was delivered: %+v", got)
	default:
	}

	hub.mu.Lock()
	delete(hub.conns, stale)
	hub.mu.Unlock()
}
