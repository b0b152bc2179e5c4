package handler

import (
	"sync"

	"go.uber.org/zap"
)

// Hub tracks live connections grouped by room and fans frames out to them.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Client]bool
	logger *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[*Client]bool),
		logger: logger,
	}
}

// Register adds a client to its room.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[client.room] == nil {
		h.rooms[client.room] = make(map[*Client]bool)
	}
	h.rooms[client.room][client] = true
	h.logger.Info("client joined room",
		zap.String("room", client.room),
		zap.String("user", client.user))
}

// Unregister removes a client from its room, dropping the room when empty.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.rooms[client.room]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.rooms, client.room)
		}
	}
	h.logger.Info("client left room", zap.String("room", client.room))
}

// Broadcast sends a frame to every client in a room. Send failures are
// logged, not propagated; a dead peer must not break the others.
func (h *Hub) Broadcast(room string, frame any) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.rooms[room]))
	for client := range h.rooms[room] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if err := client.Send(frame); err != nil {
			h.logger.Warn("broadcast send failed",
				zap.String("room", room),
				zap.Error(err))
		}
	}
}

// RoomSize reports how many clients a room currently holds.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
