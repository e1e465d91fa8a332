package diagram

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const persistTimeout = 10 * time.Second

// Persister writes the full state of a diagram to durable storage. Writes
// are full-record overwrites with last-write-wins semantics: concurrent
// sessions against the same diagram are not merged.
type Persister interface {
	Persist(ctx context.Context, diagramID uuid.UUID, state State) error
}

// Session owns the live state of one open diagram and funnels every
// committed mutation through a single commit pipeline: capture a history
// snapshot, then push the full state to the persister. The persist leg is
// fire-and-forget; a failed write is logged and the session keeps editing
// from memory. Transient events (cursor movement, selection) never pass
// through here.
type Session struct {
	diagramID uuid.UUID
	persister Persister
	logger    *slog.Logger

	mu      sync.Mutex
	state   State
	history *History
}

// NewSession starts a session from the loaded initial state. The initial
// state is captured so the first edit can be undone back to it.
func NewSession(diagramID uuid.UUID, initial State, persister Persister, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		diagramID: diagramID,
		persister: persister,
		logger:    logger,
		state:     initial.Clone(),
		history:   NewHistory(DefaultHistoryLimit),
	}
	s.history.Capture(s.state)
	return s
}

// State returns an independent copy of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Commit applies fn to the current state and commits the result: history
// capture first, then the asynchronous persistence write.
func (s *Session) Commit(fn func(State) State) State {
	s.mu.Lock()
	next := fn(s.state)
	s.state = next
	s.history.Capture(next)
	s.mu.Unlock()

	s.persistAsync(next)
	return next.Clone()
}

// Undo rolls the session back one snapshot. The restored state is persisted
// so collaborators observe the rollback, but it is not re-captured; doing so
// would destroy the redo branch it just restored.
func (s *Session) Undo() (State, error) {
	s.mu.Lock()
	prev, err := s.history.Undo()
	if err != nil {
		s.mu.Unlock()
		return State{}, err
	}
	s.state = prev
	s.mu.Unlock()

	s.persistAsync(prev)
	return prev.Clone(), nil
}

// Redo advances the session one snapshot forward. Persisted, not re-captured.
func (s *Session) Redo() (State, error) {
	s.mu.Lock()
	next, err := s.history.Redo()
	if err != nil {
		s.mu.Unlock()
		return State{}, err
	}
	s.state = next
	s.mu.Unlock()

	s.persistAsync(next)
	return next.Clone(), nil
}

func (s *Session) persistAsync(state State) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.persister.Persist(ctx, s.diagramID, state); err != nil {
			s.logger.Warn("diagram persist failed", "diagram", s.diagramID, "error", err)
		}
	}()
}
