package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub maintains the set of connected viewers and fans incoming sensor
// readings out to everyone watching the matching sensor.
type Hub struct {
	// Registered clients by connection id
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]*Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			h.mu.Unlock()
			log.Printf("📡 Viewer connected: %s (sensor %s)", client.id, client.SensorID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				close(client.send)
				log.Printf("📴 Viewer disconnected: %s", client.id)
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastReading pushes a new sensor reading to every viewer subscribed to
// that sensor. Slow consumers are skipped, never blocked on.
func (h *Hub) BroadcastReading(sensorID string, reading interface{}) {
	payload, err := json.Marshal(map[string]interface{}{
		"type":     "reading",
		"sensorId": sensorID,
		"data":     reading,
	})
	if err != nil {
		log.Printf("Error marshaling reading: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if client.SensorID != sensorID {
			continue
		}
		select {
		case client.send <- payload:
		default:
			// Buffer full: drop this frame for this viewer
		}
	}
}

// ClientCount reports the number of connected viewers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
