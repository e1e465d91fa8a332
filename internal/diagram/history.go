package diagram

import (
	"encoding/json"
	"errors"
)

// ErrNoOp is returned when undo or redo has nowhere to go. The cursor is
// left unchanged.
var ErrNoOp = errors.New("history: nothing to undo or redo")

// DefaultHistoryLimit caps the number of retained snapshots per session.
const DefaultHistoryLimit = 100

// History is a linear undo/redo log of serialized state snapshots plus a
// cursor into it. Snapshots are independent copies: mutating live state
// after a capture never alters what Undo later returns.
//
// History is not safe for concurrent use; Session serializes access.
type History struct {
	entries [][]byte
	cursor  int
	limit   int
}

// NewHistory creates an empty history retaining at most limit snapshots.
// A non-positive limit falls back to DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{cursor: -1, limit: limit}
}

// Len reports the number of retained snapshots.
func (h *History) Len() int { return len(h.entries) }

// Cursor reports the current position, -1 when empty.
func (h *History) Cursor() int { return h.cursor }

// Capture discards any redo branch past the cursor, appends a snapshot of
// state and moves the cursor onto it. When the limit is exceeded the oldest
// snapshot is evicted.
func (h *History) Capture(state State) {
	raw, err := json.Marshal(state)
	if err != nil {
		return
	}
	h.entries = append(h.entries[:h.cursor+1:h.cursor+1], raw)
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
	h.cursor = len(h.entries) - 1
}

// Undo steps the cursor back and returns a fresh copy of the snapshot there.
// At the start of history it returns ErrNoOp.
func (h *History) Undo() (State, error) {
	if h.cursor <= 0 {
		return State{}, ErrNoOp
	}
	h.cursor--
	return h.at(h.cursor)
}

// Redo steps the cursor forward and returns a fresh copy of the snapshot
// there. At the end of history it returns ErrNoOp.
func (h *History) Redo() (State, error) {
	if h.cursor >= len(h.entries)-1 {
		return State{}, ErrNoOp
	}
	h.cursor++
	return h.at(h.cursor)
}

func (h *History) at(i int) (State, error) {
	var s State
	if err := json.Unmarshal(h.entries[i], &s); err != nil {
		return State{}, err
	}
	return s, nil
}
