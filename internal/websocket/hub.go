package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"farmroute-backend/internal/models"
)

// Event types pushed to connected apps
const (
	// EventRouteInvalidated tells a driver app its current route is stale and
	// must be recomputed
	EventRouteInvalidated = "route_invalidated"

	// EventOrdersAssigned tells admin dashboards a driver received orders
	EventOrdersAssigned = "orders_assigned"
)

// Event is the envelope for every server push
type Event struct {
	Type      string      `json:"type"`
	Timestamp string      `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// NewEvent stamps an event with the current time
func NewEvent(eventType string, data interface{}) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
	}
}

// Hub maintains active WebSocket connections and broadcasts messages
type Hub struct {
	// Registered clients (userID -> Client)
	clients map[string]*Client

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex
}

// Message represents a message to broadcast to a specific user
type Message struct {
	UserID string
	Data   interface{}
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			return

		case client := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[client.UserID]; ok && old != client {
				close(old.send)
			}
			h.clients[client.UserID] = client
			count := len(h.clients)
			h.mu.Unlock()
			log.Printf("✅ [WEBSOCKET] Client CONNECTED")
			log.Printf("   User ID: %s", client.UserID)
			log.Printf("   Role: %s", client.UserRole)
			log.Printf("   Total connected clients: %d", count)

		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.UserID]; ok && current == client {
				delete(h.clients, client.UserID)
				close(client.send)
				log.Printf("🔴 [WEBSOCKET] Client DISCONNECTED: %s (%d remaining)", client.UserID, len(h.clients))
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

func (h *Hub) deliver(message *Message) {
	data, err := json.Marshal(message.Data)
	if err != nil {
		log.Printf("❌ Failed to marshal message: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[message.UserID]
	if !ok {
		return
	}

	select {
	case client.send <- data:
	default:
		close(client.send)
		delete(h.clients, client.UserID)
		log.Printf("⚠️ Client buffer full, disconnecting: %s", message.UserID)
	}
}

// Stop ends Run
func (h *Hub) Stop() {
	close(h.done)
}

// BroadcastToUser queues a message for a specific user. Users without a
// connection are skipped.
func (h *Hub) BroadcastToUser(userID string, data interface{}) {
	select {
	case h.broadcast <- &Message{UserID: userID, Data: data}:
	case <-h.done:
	}
}

// NotifyRouteInvalidated tells driverID to refresh its route
func (h *Hub) NotifyRouteInvalidated(driverID, reason string) {
	h.BroadcastToUser(driverID, NewEvent(EventRouteInvalidated, map[string]string{
		"reason": reason,
	}))
}

// NotifyOrdersAssigned tells every connected admin that driverID was given
// assigned orders
func (h *Hub) NotifyOrdersAssigned(driverID string, assigned int) {
	h.BroadcastToRole(models.RoleAdmin, NewEvent(EventOrdersAssigned, map[string]interface{}{
		"driver_id": driverID,
		"assigned":  assigned,
	}))
}

// BroadcastToRole sends a message to all users with a specific role
func (h *Hub) BroadcastToRole(role string, data interface{}) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		log.Printf("❌ Failed to marshal broadcast message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		if client.UserRole == role {
			select {
			case client.send <- dataBytes:
			default:
			}
		}
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// IsUserConnected checks if a user is currently connected
func (h *Hub) IsUserConnected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}
