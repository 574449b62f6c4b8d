package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// WSClient is one user session on the scan stream. gorilla/websocket allows
// a single writer per connection, so every write (broadcast or keep-alive
// ping) goes through the client's mutex.
type WSClient struct {
	UserID string
	Conn   *websocket.Conn

	writeMu sync.Mutex
}

func (c *WSClient) write(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteMessage(messageType, data)
}

// Ping sends a keep-alive control frame, serialized with broadcast writes.
func (c *WSClient) Ping() error {
	return c.write(websocket.PingMessage, nil)
}

// RealtimeHub fans newly confirmed scans out to the owning user's open
// history sessions. Sessions are per-user; a user with several tabs gets the
// event on each.
type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[string]map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[string]map[*WSClient]struct{})}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*WSClient]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

// BroadcastScan sends an event to all of the user's connections. Write
// failures are ignored; a dead connection is cleaned up when its reader exits.
func (h *RealtimeHub) BroadcastScan(userID string, event string, payload any) {
	msg, _ := json.Marshal(map[string]any{"event": event, "data": payload})
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		_ = c.write(websocket.TextMessage, msg)
	}
}
