package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"liveerd/internal/ai"
	"liveerd/internal/diagram"
	"liveerd/internal/export"
	"liveerd/internal/models"
	"liveerd/internal/repositories"
)

var (
	ErrDiagramNotFound = errors.New("diagram not found")
	ErrNotOwner        = errors.New("diagram belongs to another user")
)

// DiagramService owns both the persistent diagram records and the in-memory
// editing sessions. One session per diagram id; the session's history and
// its fire-and-forget persistence live in internal/diagram.
type DiagramService struct {
	repo      *repositories.DiagramRepository
	generator *ai.Generator
	logger    *slog.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*diagram.Session
}

func NewDiagramService(repo *repositories.DiagramRepository, generator *ai.Generator, logger *slog.Logger) *DiagramService {
	return &DiagramService{
		repo:      repo,
		generator: generator,
		logger:    logger,
		sessions:  make(map[uuid.UUID]*diagram.Session),
	}
}

func (s *DiagramService) Create(ctx context.Context, ownerID uuid.UUID, name string) (*models.Diagram, error) {
	if name == "" {
		name = "Untitled Diagram"
	}
	d := &models.Diagram{OwnerID: ownerID, Name: name}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DiagramService) List(ctx context.Context, ownerID uuid.UUID) ([]models.Diagram, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Get returns the record with its data replaced by the live session state
// when a session is open, so readers see uncommitted-to-disk edits.
func (s *DiagramService) Get(ctx context.Context, id, ownerID uuid.UUID) (*models.Diagram, error) {
	d, err := s.owned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if ok {
		d.Data = sess.State()
	}
	return d, nil
}

func (s *DiagramService) Rename(ctx context.Context, id, ownerID uuid.UUID, name string) error {
	if _, err := s.owned(ctx, id, ownerID); err != nil {
		return err
	}
	return s.repo.Rename(ctx, id, name)
}

func (s *DiagramService) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	if _, err := s.owned(ctx, id, ownerID); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	return s.repo.Delete(ctx, id)
}

// Apply validates and commits one mutation through the diagram's session.
func (s *DiagramService) Apply(ctx context.Context, id, ownerID uuid.UUID, op Operation, author string) (diagram.State, error) {
	if err := op.Validate(); err != nil {
		return diagram.State{}, err
	}

	sess, err := s.session(ctx, id, ownerID)
	if err != nil {
		return diagram.State{}, err
	}

	return sess.Commit(func(st diagram.State) diagram.State {
		return op.Apply(st, author)
	}), nil
}

func (s *DiagramService) Undo(ctx context.Context, id, ownerID uuid.UUID) (diagram.State, error) {
	sess, err := s.session(ctx, id, ownerID)
	if err != nil {
		return diagram.State{}, err
	}
	return sess.Undo()
}

func (s *DiagramService) Redo(ctx context.Context, id, ownerID uuid.UUID) (diagram.State, error) {
	sess, err := s.session(ctx, id, ownerID)
	if err != nil {
		return diagram.State{}, err
	}
	return sess.Redo()
}

// Save replaces the whole document in one committed step.
func (s *DiagramService) Save(ctx context.Context, id, ownerID uuid.UUID, state diagram.State) (diagram.State, error) {
	return s.Apply(ctx, id, ownerID, Operation{
		Op:    OpReplaceAll,
		Nodes: state.Nodes,
		Edges: state.Edges,
	}, "")
}

// Import parses a {nodes, edges} JSON document and commits it wholesale.
// Parse failures leave the state untouched.
func (s *DiagramService) Import(ctx context.Context, id, ownerID uuid.UUID, raw []byte) (diagram.State, error) {
	state, err := export.ImportJSON(raw)
	if err != nil {
		return diagram.State{}, err
	}
	return s.Save(ctx, id, ownerID, state)
}

// Export renders the live state in the requested format.
func (s *DiagramService) Export(ctx context.Context, id, ownerID uuid.UUID, format export.Format) ([]byte, string, error) {
	sess, err := s.session(ctx, id, ownerID)
	if err != nil {
		return nil, "", err
	}
	return export.Render(sess.State(), format)
}

// Generate asks the LLM for a schema and commits the result as a full
// replacement. On failure the diagram is left as it was.
func (s *DiagramService) Generate(ctx context.Context, id, ownerID uuid.UUID, prompt string) (diagram.State, error) {
	generated, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return diagram.State{}, err
	}
	return s.Save(ctx, id, ownerID, generated)
}

// Exists reports whether the diagram record is present, without an
// ownership check. The realtime channel is open to any authenticated user
// who knows the diagram id; only the editing operations are owner-gated.
func (s *DiagramService) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return d != nil, nil
}

func (s *DiagramService) owned(ctx context.Context, id, ownerID uuid.UUID) (*models.Diagram, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDiagramNotFound
	}
	if d.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return d, nil
}

// session returns the open session for the diagram, loading the persisted
// state on first use. An absent or empty data column starts an empty state.
func (s *DiagramService) session(ctx context.Context, id, ownerID uuid.UUID) (*diagram.Session, error) {
	s.mu.Lock()
	if sess, ok := s.sessions[id]; ok {
		s.mu.Unlock()
		return sess, nil
	}
	s.mu.Unlock()

	d, err := s.owned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	initial := d.Data
	if initial.Nodes == nil && initial.Edges == nil {
		initial = diagram.NewState()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	sess := diagram.NewSession(id, initial, s.repo, s.logger)
	s.sessions[id] = sess
	return sess, nil
}
