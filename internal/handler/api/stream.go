package api

import (
	"net/http"
	"sync"
	"time"

	"ShelfWatch/internal/domain/models"
	xlogger "ShelfWatch/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
)

// StreamHub pushes each newly committed stats value to connected WebSocket
// clients. Broadcast is registered as a refresher hook, so clients hear about
// a refresh within one debounce window of the store mutation.
type StreamHub struct {
	logger   *xlogger.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]chan models.Stats
}

func NewStreamHub(logger *xlogger.Logger) *StreamHub {
	return &StreamHub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]chan models.Stats),
	}
}

// Broadcast queues a stats value for every connected client. Slow clients
// drop intermediate values; only the latest matters.
func (h *StreamHub) Broadcast(st models.Stats) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.conns {
		select {
		case ch <- st:
		default:
		}
	}
}

// Serve upgrades the request and streams stats values until the client goes
// away.
func (h *StreamHub) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	ch := make(chan models.Stats, 1)
	h.mu.Lock()
	h.conns[conn] = ch
	h.mu.Unlock()

	h.logger.Debug("stream client connected", xlogger.String("remote", conn.RemoteAddr().String()))

	go h.writeLoop(conn, ch)
	h.readLoop(conn)

	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	close(ch)
	return nil
}

func (h *StreamHub) writeLoop(conn *websocket.Conn, ch <-chan models.Stats) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case st, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(st); err != nil {
				conn.Close()
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.Close()
				return
			}
		}
	}
}

// readLoop drains client frames so pings/pongs and close frames are
// processed; returns when the connection drops.
func (h *StreamHub) readLoop(conn *websocket.Conn) {
	conn.SetReadLimit(512)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// CloseAll disconnects every client, used during shutdown.
func (h *StreamHub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
	}
}
