package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/gshocksync/gshockd/watch"
)

// WebSocketEvent is one message pushed to connected clients.
type WebSocketEvent struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// WebSocketHub fans events out to every connected client. Slow or dead
// clients are dropped rather than allowed to stall the broadcast.
type WebSocketHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func NewWebSocketHub() *WebSocketHub {
	return &WebSocketHub{
		clients: make(map[*websocket.Conn]bool),
	}
}

func (h *WebSocketHub) AddClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
}

func (h *WebSocketHub) RemoveClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

func (h *WebSocketHub) Broadcast(event WebSocketEvent) {
	h.mu.Lock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		clients = append(clients, conn)
	}
	h.mu.Unlock()

	var wg sync.WaitGroup
	var failedMu sync.Mutex
	var failed []*websocket.Conn

	for _, conn := range clients {
		wg.Add(1)
		go func(c *websocket.Conn) {
			defer wg.Done()
			c.SetWriteDeadline(time.Now().Add(100 * time.Millisecond))
			if err := c.WriteJSON(event); err != nil {
				failedMu.Lock()
				failed = append(failed, c)
				failedMu.Unlock()
			}
		}(conn)
	}
	wg.Wait()

	if len(failed) > 0 {
		h.mu.Lock()
		for _, conn := range failed {
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
		}
		h.mu.Unlock()
	}
}

// EventBridge forwards session events to the websocket hub. It implements
// watch.Observer.
type EventBridge struct {
	hub *WebSocketHub
	log zerolog.Logger
}

func NewEventBridge(hub *WebSocketHub, log zerolog.Logger) *EventBridge {
	return &EventBridge{hub: hub, log: log.With().Str("component", "event-bridge").Logger()}
}

func (b *EventBridge) HandleWatchEvent(e watch.Event) {
	b.log.Debug().Str("event", e.Kind.String()).Msg("forwarding event")
	b.hub.Broadcast(WebSocketEvent{
		Type:    "watch/" + e.Kind.String(),
		Payload: e.Data,
	})
}
