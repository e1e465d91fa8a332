package realtime

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Hub tracks one broadcast room per open diagram.
type Hub struct {
	logger *slog.Logger

	mu    sync.Mutex
	rooms map[uuid.UUID]*Room
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger: logger,
		rooms:  make(map[uuid.UUID]*Room),
	}
}

// Room returns the room for a diagram, creating it on first use.
func (h *Hub) Room(diagramID uuid.UUID) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[diagramID]
	if !ok {
		room = &Room{
			id:          diagramID,
			logger:      h.logger,
			clients:     make(map[*Client]struct{}),
			subscribers: make(map[chan Event]struct{}),
		}
		h.rooms[diagramID] = room
	}
	return room
}

// Room is the ephemeral channel for one diagram: a presence roster plus
// best-effort cursor fan-out. Slow consumers are dropped, nothing is
// retried, and nothing here reaches diagram state or history.
type Room struct {
	id     uuid.UUID
	logger *slog.Logger

	mu          sync.Mutex
	clients     map[*Client]struct{}
	subscribers map[chan Event]struct{}
}

// Presence returns the current roster.
func (r *Room) Presence() []PresencePayload {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.presenceLocked()
}

func (r *Room) presenceLocked() []PresencePayload {
	roster := make([]PresencePayload, 0, len(r.clients))
	for c := range r.clients {
		roster = append(roster, PresencePayload{
			User:     c.user,
			Color:    c.color,
			OnlineAt: c.onlineAt.UTC().Format(time.RFC3339),
		})
	}
	return roster
}

func (r *Room) join(c *Client) {
	r.mu.Lock()
	r.clients[c] = struct{}{}
	roster := r.presenceLocked()
	r.mu.Unlock()

	r.logger.Info("participant joined room", "diagram", r.id, "user", c.user)
	r.broadcastPresence(roster)
}

func (r *Room) leave(c *Client) {
	r.mu.Lock()
	if _, ok := r.clients[c]; !ok {
		r.mu.Unlock()
		return
	}
	delete(r.clients, c)
	c.close()
	roster := r.presenceLocked()
	r.mu.Unlock()

	r.logger.Info("participant left room", "diagram", r.id, "user", c.user)
	r.broadcastPresence(roster)
}

// broadcastPresence sends the full roster to every connected client and
// notifies in-process subscribers. Sends happen under the room lock so a
// client can never be written to after leave has closed it.
func (r *Room) broadcastPresence(roster []PresencePayload) {
	msg := encode(EventPresence, roster)
	r.mu.Lock()
	for c := range r.clients {
		r.sendLocked(c, msg)
	}
	r.notifyLocked(Event{Type: EventPresence, Presence: roster})
	r.mu.Unlock()
}

// broadcastCursor fans a cursor position out to everyone except the sender.
func (r *Room) broadcastCursor(sender *Client, cursor CursorPayload) {
	msg := encode(EventCursor, cursor)
	r.mu.Lock()
	for c := range r.clients {
		if c != sender {
			r.sendLocked(c, msg)
		}
	}
	r.notifyLocked(Event{Type: EventCursor, Cursor: &cursor})
	r.mu.Unlock()
}

// sendLocked is best-effort and never blocks: a client whose buffer is full
// is disconnected rather than awaited.
func (r *Room) sendLocked(c *Client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		r.logger.Warn("dropping slow room client", "diagram", r.id, "user", c.user)
		go r.leave(c)
	}
}

func (r *Room) notifyLocked(ev Event) {
	for ch := range r.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscription delivers room events to an in-process consumer. Events may
// arrive in any order and are dropped when the consumer falls behind; at
// most once per event, never retried.
type Subscription struct {
	C      <-chan Event
	cancel func()
	once   sync.Once
}

// Cancel stops delivery and releases the subscription.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

// Subscribe registers a typed consumer for presence and cursor events.
func (r *Room) Subscribe() *Subscription {
	ch := make(chan Event, 64)
	r.mu.Lock()
	r.subscribers[ch] = struct{}{}
	r.mu.Unlock()

	return &Subscription{
		C: ch,
		cancel: func() {
			r.mu.Lock()
			delete(r.subscribers, ch)
			r.mu.Unlock()
		},
	}
}
