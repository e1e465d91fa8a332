package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"liveerd/internal/diagram"
	"liveerd/internal/models"
)

type DiagramRepository struct {
	pool *pgxpool.Pool
}

func NewDiagramRepository(pool *pgxpool.Pool) *DiagramRepository {
	return &DiagramRepository{pool: pool}
}

func (r *DiagramRepository) Create(ctx context.Context, d *models.Diagram) error {
	d.Prepare()

	data, err := json.Marshal(d.Data)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO diagrams (id, owner_id, name, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
	`

	now := time.Now()
	_, err = r.pool.Exec(ctx, query, d.ID, d.OwnerID, d.Name, data, now)
	if err == nil {
		d.CreatedAt = now
		d.UpdatedAt = now
	}
	return err
}

func (r *DiagramRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Diagram, error) {
	query := `
		SELECT id, owner_id, name, data, created_at, updated_at
		FROM diagrams WHERE id = $1
	`

	var d models.Diagram
	var data []byte
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&d.ID,
		&d.OwnerID,
		&d.Name,
		&data,
		&d.CreatedAt,
		&d.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, &d.Data); err != nil {
		return nil, err
	}

	return &d, nil
}

// ListByOwner returns the diagram listing view, most recently updated first.
func (r *DiagramRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Diagram, error) {
	query := `
		SELECT id, owner_id, name, data, created_at, updated_at
		FROM diagrams WHERE owner_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var diagrams []models.Diagram
	for rows.Next() {
		var d models.Diagram
		var data []byte
		if err := rows.Scan(&d.ID, &d.OwnerID, &d.Name, &data, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &d.Data); err != nil {
			return nil, err
		}
		diagrams = append(diagrams, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return diagrams, nil
}

// UpdateData overwrites the whole data document and bumps updated_at.
// Last write wins; there is no version check or merge.
func (r *DiagramRepository) UpdateData(ctx context.Context, id uuid.UUID, state diagram.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	query := `UPDATE diagrams SET data = $2, updated_at = NOW() WHERE id = $1`
	_, err = r.pool.Exec(ctx, query, id, data)
	return err
}

func (r *DiagramRepository) Rename(ctx context.Context, id uuid.UUID, name string) error {
	query := `UPDATE diagrams SET name = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, name)
	return err
}

func (r *DiagramRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM diagrams WHERE id = $1`, id)
	return err
}

// Persist implements diagram.Persister.
func (r *DiagramRepository) Persist(ctx context.Context, diagramID uuid.UUID, state diagram.State) error {
	return r.UpdateData(ctx, diagramID, state)
}
