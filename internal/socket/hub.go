// server/internal/socket/hub.go
package socket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Event is one push frame sent to a connected client. Clients use these
// to refresh their donation/claim/schedule views without polling.
type Event struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

// Hub tracks the WebSocket connection per signed-in user.
type Hub struct {
	clients map[string]*websocket.Conn
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*websocket.Conn),
	}
}

// Register adds a client connection, replacing any previous one for the
// same user.
func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.clients[userID]; ok {
		old.Close()
	}
	h.clients[userID] = conn
	log.Printf("WebSocket client registered: %s", userID)
}

// Unregister removes a client connection.
func (h *Hub) Unregister(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[userID]; ok {
		delete(h.clients, userID)
		log.Printf("WebSocket client unregistered: %s", userID)
	}
}

// Send pushes a message to one client. An offline client is not an
// error.
func (h *Hub) Send(userID string, message []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conn, ok := h.clients[userID]
	if !ok {
		return nil
	}

	return conn.WriteMessage(websocket.TextMessage, message)
}

// SendEvent marshals an event and pushes it to one client, logging and
// swallowing any failure.
func (h *Hub) SendEvent(userID string, event Event) {
	message, err := json.Marshal(event)
	if err != nil {
		log.Printf("WebSocket event marshal failed: %v", err)
		return
	}
	if err := h.Send(userID, message); err != nil {
		log.Printf("WebSocket send to %s failed: %v", userID, err)
	}
}
