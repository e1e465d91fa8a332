package models

import (
	"time"

	"github.com/google/uuid"

	"liveerd/internal/diagram"
)

// Diagram is one persisted record: metadata plus the full {nodes, edges}
// document. The data column is overwritten whole on every save.
type Diagram struct {
	ID        uuid.UUID     `json:"id"`
	OwnerID   uuid.UUID     `json:"owner_id"`
	Name      string        `json:"name"`
	Data      diagram.State `json:"data"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (d *Diagram) Prepare() {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Data.Nodes == nil {
		d.Data.Nodes = []diagram.Table{}
	}
	if d.Data.Edges == nil {
		d.Data.Edges = []diagram.Relationship{}
	}
}
