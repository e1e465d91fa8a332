package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Event types carried over a diagram room channel. Everything here is
// ephemeral: events are never persisted and never touch diagram state.
const (
	EventPresence = "presence"
	EventCursor   = "cursor"
)

// PresencePayload describes one participant of a room.
type PresencePayload struct {
	User     string `json:"user"`
	Color    string `json:"color"`
	OnlineAt string `json:"online_at"`
}

// CursorPayload is a pointer position broadcast. Last value wins per
// participant; delivery order across participants is not guaranteed.
type CursorPayload struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	User  string  `json:"user"`
	Color string  `json:"color"`
}

// Envelope is the wire format of every room message.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

var errUnknownEvent = errors.New("unknown event type")

// DecodeCursor validates an inbound envelope and extracts its cursor
// payload. Remote payloads are rejected at this boundary rather than
// propagated further in.
func DecodeCursor(env Envelope) (CursorPayload, error) {
	if env.Type != EventCursor {
		return CursorPayload{}, fmt.Errorf("%w: %q", errUnknownEvent, env.Type)
	}
	var cursor CursorPayload
	if err := json.Unmarshal(env.Payload, &cursor); err != nil {
		return CursorPayload{}, fmt.Errorf("malformed cursor payload: %w", err)
	}
	return cursor, nil
}

// Event is the typed form delivered to in-process subscribers.
type Event struct {
	Type     string
	Presence []PresencePayload // EventPresence: full room roster
	Cursor   *CursorPayload    // EventCursor
}

func encode(eventType string, payload any) []byte {
	raw, _ := json.Marshal(payload)
	msg, _ := json.Marshal(Envelope{Type: eventType, Payload: raw})
	return msg
}
