package notify

import (
	"encoding/json"
	"sync"
	"time"

	"FedPulse/internal/domain/models"
	applogger "FedPulse/pkg/logger"

	"github.com/gorilla/websocket"
)

// Hub fans fired triggers out to connected WebSocket clients. Slow clients
// are disconnected rather than allowed to stall the broadcast loop.
type Hub struct {
	l       *applogger.Logger
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}

	writeTimeout time.Duration
}

func NewHub(l *applogger.Logger) *Hub {
	return &Hub{
		l:            l,
		clients:      make(map[*websocket.Conn]struct{}),
		writeTimeout: 5 * time.Second,
	}
}

// Register adds a client connection and starts discarding its inbound
// frames so pings and close handshakes are serviced.
func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.l.Info("ws client connected", applogger.Int("clients", n))

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.Unregister(conn)
				return
			}
		}
	}()
}

// Unregister removes and closes a client connection.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	if ok {
		delete(h.clients, conn)
	}
	n := len(h.clients)
	h.mu.Unlock()
	if ok {
		_ = conn.Close()
		h.l.Info("ws client disconnected", applogger.Int("clients", n))
	}
}

// Broadcast sends one trigger to every connected client.
func (h *Hub) Broadcast(t *models.AlertTrigger) {
	b, err := json.Marshal(t)
	if err != nil {
		h.l.Error("ws broadcast marshal error", applogger.Error(err))
		return
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		_ = c.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			h.l.Warn("ws broadcast write error", applogger.Error(err))
			h.Unregister(c)
		}
	}
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.clients = make(map[*websocket.Conn]struct{})
	h.mu.Unlock()
	for _, c := range conns {
		_ = c.Close()
	}
}
