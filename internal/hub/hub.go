// Package hub routes realtime proctoring events between exam clients and
// admin monitors. Rooms are plain strings; every client may sit in any
// number of rooms.
package hub

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Event is the wire shape for every realtime message.
type Event struct {
	Name    string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// AdminRoom names the monitoring room shared by an institute's admins.
func AdminRoom(instituteID uuid.UUID) string {
	return "admin-" + instituteID.String()
}

// SessionRoom names the room holding a single student's exam connection.
func SessionRoom(sessionID uuid.UUID) string {
	return "response-" + sessionID.String()
}

type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
	log   zerolog.Logger
}

func New(log zerolog.Logger) *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]struct{}),
		log:   log,
	}
}

// Join adds the client to a room, creating the room on first use.
func (h *Hub) Join(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
	c.rooms[room] = struct{}{}
}

// Leave removes the client from every room it joined and releases empty
// rooms.
func (h *Hub) Leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room := range c.rooms {
		if members, ok := h.rooms[room]; ok {
			delete(members, c)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	c.rooms = make(map[string]struct{})
}

// Broadcast fans the event out to every client in the room. Clients whose
// send buffer is full miss the message rather than block the caller.
func (h *Hub) Broadcast(room string, e Event) {
	raw, err := json.Marshal(e)
	if err != nil {
		h.log.Error().Err(err).Str("event", e.Name).Msg("marshal event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[room] {
		select {
		case c.send <- raw:
		default:
			h.log.Warn().Str("room", room).Str("event", e.Name).Msg("client send buffer full, dropping event")
		}
	}
}

// RoomSize reports the current number of clients in a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
