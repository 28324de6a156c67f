// Package stream pushes live application lists to WebSocket clients.
package stream

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"solarhub/internal/metrics"
)

// Hub tracks open stream connections per owner so they can be counted and
// closed together on shutdown. An owner may hold several connections.
type Hub struct {
	mu    sync.RWMutex
	conns map[uuid.UUID]map[*websocket.Conn]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[uuid.UUID]map[*websocket.Conn]struct{})}
}

// Register records conn as an open stream of ownerID.
func (h *Hub) Register(ownerID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.conns[ownerID] == nil {
		h.conns[ownerID] = make(map[*websocket.Conn]struct{})
	}
	h.conns[ownerID][conn] = struct{}{}
	metrics.StreamClients.Inc()
}

// Unregister closes conn and forgets it. Connections already removed by
// Close are ignored.
func (h *Hub) Unregister(ownerID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.conns[ownerID]
	if !ok {
		return
	}
	if _, ok := set[conn]; !ok {
		return
	}
	_ = conn.Close()
	delete(set, conn)
	if len(set) == 0 {
		delete(h.conns, ownerID)
	}
	metrics.StreamClients.Dec()
}

// Online returns the number of open connections for ownerID.
func (h *Hub) Online(ownerID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[ownerID])
}

// Count returns the number of open connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, set := range h.conns {
		n += len(set)
	}
	return n
}

// Close closes every connection. Their pumps observe the read error and exit.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ownerID, set := range h.conns {
		for conn := range set {
			_ = conn.Close()
			metrics.StreamClients.Dec()
		}
		delete(h.conns, ownerID)
	}
}

// NewUpgrader returns an upgrader accepting the given origins. Requests
// without an Origin header (non-browser clients) are always accepted.
func NewUpgrader(origins []string) *websocket.Upgrader {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed[origin] || allowed["*"]
		},
	}
}
