package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ayusman/limber/internal/classify"
	"github.com/ayusman/limber/internal/detector"
	"github.com/ayusman/limber/internal/experiment"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local app, same-machine browser
	},
}

// FrameUpdate is one processed frame's worth of state pushed to WebSocket
// clients: raw landmarks, classification results, and the active
// experiment's status and events.
type FrameUpdate struct {
	Bodies     []detector.BodyLandmarks `json:"bodies,omitempty"`
	Face       *detector.FaceLandmarks  `json:"face,omitempty"`
	BodyStates *classify.BodyPartStates `json:"bodyStates,omitempty"`
	Pose       classify.Pose            `json:"pose,omitempty"`
	Experiment string                   `json:"experiment,omitempty"`
	Status     map[string]any           `json:"status,omitempty"`
	Events     []experiment.Event       `json:"events,omitempty"`
	Timestamp  int64                    `json:"timestamp"`
}

// Hub fans processed frames out to WebSocket clients. The pipeline calls
// Publish once per frame; clients that cannot keep up are dropped.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]bool)}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep the connection alive by draining client messages.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Publish broadcasts one frame update to all connected clients.
func (h *Hub) Publish(update FrameUpdate) {
	h.mu.RLock()
	empty := len(h.clients) == 0
	h.mu.RUnlock()
	if empty {
		return
	}

	msg, err := json.Marshal(update)
	if err != nil {
		log.Printf("frame update marshal error: %v", err)
		return
	}

	var dead []*websocket.Conn

	h.mu.RLock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			dead = append(dead, conn)
		}
	}
	h.mu.RUnlock()

	if len(dead) > 0 {
		h.mu.Lock()
		for _, conn := range dead {
			delete(h.clients, conn)
			conn.Close()
		}
		h.mu.Unlock()
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
