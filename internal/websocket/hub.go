// Package websocket pushes dashboard refresh notifications to connected
// browsers. The hub fans one "data_update" event out to every client after a
// successful refresh cycle; clients then re-fetch over the REST API.
package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// Message type constants
const (
	TypeConnection = "connection"
	TypeDataUpdate = "data_update"
	TypeError      = "error"
)

// Message is the envelope for every event the hub broadcasts.
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu     sync.RWMutex
	logger *slog.Logger

	// onCountChange, when set, observes the client count after every
	// register/unregister. Used to feed the websocket_clients gauge.
	onCountChange func(int)

	quit    chan struct{}
	running bool
}

// OnClientCountChange sets the client-count observer. Must be called before
// Run.
func (h *Hub) OnClientCountChange(fn func(int)) {
	h.onCountChange = fn
}

func (h *Hub) notifyCount(count int) {
	if h.onCountChange != nil {
		h.onCountChange(count)
	}
}

// NewHub creates a new Hub instance with dependency injection
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "websocket.hub"))

	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
		quit:       make(chan struct{}),
	}
}

// Run starts the hub's event loop. Call in a goroutine.
func (h *Hub) Run() {
	h.mu.Lock()
	h.running = true
	h.mu.Unlock()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()

			h.notifyCount(count)
			h.logger.Info("websocket client registered",
				slog.String("client_id", client.id),
				slog.Int("active_clients", count))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()

			h.notifyCount(count)
			h.logger.Info("websocket client unregistered",
				slog.String("client_id", client.id),
				slog.Int("active_clients", count))

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer, drop it
					delete(h.clients, client)
					close(client.send)
				}
			}
			h.mu.Unlock()

		case <-h.quit:
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.running = false
			h.mu.Unlock()
			return
		}
	}
}

// Stop shuts the hub down and disconnects all clients.
func (h *Hub) Stop() {
	h.mu.RLock()
	running := h.running
	h.mu.RUnlock()
	if running {
		close(h.quit)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a typed message to every connected client. Marshalling
// failures are logged and dropped; a push notification is best-effort.
func (h *Hub) Broadcast(msgType string, data interface{}) {
	payload, err := json.Marshal(Message{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now(),
	})
	if err != nil {
		h.logger.Error("failed to marshal broadcast message",
			slog.String("type", msgType),
			slog.String("error", err.Error()))
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn("broadcast channel full, dropping message",
			slog.String("type", msgType))
	}
}

// BroadcastDataUpdate notifies clients that a new snapshot is available.
func (h *Hub) BroadcastDataUpdate(snapshotID string, recordCount int) {
	h.Broadcast(TypeDataUpdate, map[string]interface{}{
		"snapshot_id":  snapshotID,
		"record_count": recordCount,
	})
}
