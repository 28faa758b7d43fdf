package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/airmon/co2mini/internal/logging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Readings are not sensitive and the server binds to localhost by
	// default, so cross-origin browser clients are allowed.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// hub tracks connected WebSocket clients and fans readings out to them.
type hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func newHub() *hub {
	return &hub{clients: make(map[*websocket.Conn]struct{})}
}

// handleUpgrade upgrades an HTTP request to a WebSocket connection and
// registers it with the hub. The read loop exists only to detect the
// client going away; inbound messages are discarded.
func (h *hub) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	logging.Info("WebSocket client connected",
		zap.String("remote_addr", r.RemoteAddr),
	)

	go func() {
		defer h.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// broadcast sends v as JSON to every connected client. Clients that fail
// to accept the write are dropped.
func (h *hub) broadcast(v interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteJSON(v); err != nil {
			logging.Warn("Dropping WebSocket client",
				zap.String("remote_addr", conn.RemoteAddr().String()),
				zap.Error(err),
			)
			_ = conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (h *hub) remove(conn *websocket.Conn) {
	_ = conn.Close()
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

// closeAll disconnects every client, used during server shutdown.
func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.Close()
		delete(h.clients, conn)
	}
}

// clientCount returns the number of connected WebSocket clients.
func (h *hub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
