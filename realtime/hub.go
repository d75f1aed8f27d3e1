package realtime

import (
	"sync"

	"go.uber.org/zap"
)

// Subscriber receives events published to rooms it has joined. Send must not
// block: implementations queue the event and report false when they cannot.
type Subscriber interface {
	Send(event Event) bool
}

// Hub is the session registry: it tracks which subscribers are members of
// which rooms and fans published events out to current members. It is an
// explicitly constructed handle injected into every component that publishes;
// there is no package-level instance.
//
// Delivery is at-most-once and best-effort: members joined after a publish
// never see it, and slow members drop frames. Within a single room, events
// reach every member in publish order because Publish enqueues under the hub
// lock.
type Hub struct {
	mu     sync.Mutex
	rooms  map[string]map[Subscriber]struct{}
	logger *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[Subscriber]struct{}),
		logger: logger,
	}
}

// Join adds the subscriber to a room.
func (h *Hub) Join(room string, s Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[Subscriber]struct{})
		h.rooms[room] = members
	}
	members[s] = struct{}{}
}

// Leave removes the subscriber from a room.
func (h *Hub) Leave(room string, s Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(room, s)
}

// LeaveAll removes the subscriber from every room it is a member of. Called
// on disconnect regardless of how far the connect phase got.
func (h *Hub) LeaveAll(s Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room := range h.rooms {
		h.drop(room, s)
	}
}

func (h *Hub) drop(room string, s Subscriber) {
	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, s)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

// Publish delivers the event to every current member of the room. Members
// whose queues are full miss the event; the durable store is the system of
// record and sockets are only a mirror.
func (h *Hub) Publish(room string, event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.rooms[room] {
		if !s.Send(event) {
			h.logger.Warn("dropping event for slow session",
				zap.String("room", room),
				zap.String("event", event.Type))
		}
	}
}

// RoomSize reports the current member count of a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[room])
}
