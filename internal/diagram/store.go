package diagram

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// State mutations. Every operation is total: it takes the current state and
// returns a new one, and an id that does not resolve makes the operation a
// silent no-op rather than an error. The receiver is never mutated; callers
// always get a structurally independent copy.

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	next := State{
		Nodes: make([]Table, len(s.Nodes)),
		Edges: make([]Relationship, len(s.Edges)),
	}
	for i, t := range s.Nodes {
		next.Nodes[i] = cloneTable(t)
	}
	copy(next.Edges, s.Edges)
	return next
}

func cloneTable(t Table) Table {
	out := t
	out.Attributes = make([]Column, len(t.Attributes))
	copy(out.Attributes, t.Attributes)
	if t.Comments != nil {
		out.Comments = make([]Comment, len(t.Comments))
		copy(out.Comments, t.Comments)
	}
	return out
}

// AddTable appends a table. The id is caller-supplied; when empty a fresh one
// is generated. Duplicate ids are not checked.
func (s State) AddTable(t Table) State {
	next := s.Clone()
	if t.ID == "" {
		t.ID = fmt.Sprintf("entity_%s", uuid.NewString())
	}
	next.Nodes = append(next.Nodes, cloneTable(t))
	return next
}

// UpdateTable merges the patch into the table matching id.
func (s State) UpdateTable(id string, patch TablePatch) State {
	next := s.Clone()
	for i := range next.Nodes {
		if next.Nodes[i].ID != id {
			continue
		}
		t := &next.Nodes[i]
		if patch.Name != nil {
			t.Name = *patch.Name
		}
		if patch.Description != nil {
			t.Description = *patch.Description
		}
		if patch.Attributes != nil {
			t.Attributes = append([]Column(nil), (*patch.Attributes)...)
		}
		if patch.Comments != nil {
			t.Comments = append([]Comment(nil), (*patch.Comments)...)
		}
		if patch.Position != nil {
			t.Position = *patch.Position
		}
		break
	}
	return next
}

// AddColumn appends a column to the table matching tableID.
func (s State) AddColumn(tableID string, col Column) State {
	next := s.Clone()
	for i := range next.Nodes {
		if next.Nodes[i].ID == tableID {
			if col.ID == "" {
				col.ID = uuid.NewString()
			}
			next.Nodes[i].Attributes = append(next.Nodes[i].Attributes, col)
			break
		}
	}
	return next
}

// UpdateColumn merges the patch into the matching column of the matching table.
func (s State) UpdateColumn(tableID, columnID string, patch ColumnPatch) State {
	next := s.Clone()
	for i := range next.Nodes {
		if next.Nodes[i].ID != tableID {
			continue
		}
		for j := range next.Nodes[i].Attributes {
			if next.Nodes[i].Attributes[j].ID != columnID {
				continue
			}
			c := &next.Nodes[i].Attributes[j]
			if patch.Name != nil {
				c.Name = *patch.Name
			}
			if patch.Type != nil {
				c.Type = *patch.Type
			}
			if patch.IsPrimary != nil {
				c.IsPrimary = *patch.IsPrimary
			}
			if patch.IsNullable != nil {
				c.IsNullable = *patch.IsNullable
			}
			if patch.IsForeignKey != nil {
				c.IsForeignKey = *patch.IsForeignKey
			}
			if patch.AutoIncrement != nil {
				c.AutoIncrement = *patch.AutoIncrement
			}
			break
		}
		break
	}
	return next
}

// RemoveColumn deletes the matching column from the matching table.
func (s State) RemoveColumn(tableID, columnID string) State {
	next := s.Clone()
	for i := range next.Nodes {
		if next.Nodes[i].ID != tableID {
			continue
		}
		attrs := next.Nodes[i].Attributes
		for j := range attrs {
			if attrs[j].ID == columnID {
				next.Nodes[i].Attributes = append(attrs[:j:j], attrs[j+1:]...)
				break
			}
		}
		break
	}
	return next
}

// AddRelationship always succeeds, even when source or target do not resolve
// to an existing table.
func (s State) AddRelationship(source, target string, attrs RelationshipAttrs) State {
	next := s.Clone()
	rel := Relationship{
		ID:     attrs.ID,
		Source: source,
		Target: target,
		Label:  attrs.Label,
		Style:  attrs.Style,
	}
	if rel.ID == "" {
		rel.ID = fmt.Sprintf("e-%s-%s", source, target)
	}
	if rel.Label == "" {
		rel.Label = "1:N"
	}
	next.Edges = append(next.Edges, rel)
	return next
}

// UpdateRelationship merges the patch into the relationship matching id.
func (s State) UpdateRelationship(id string, patch RelationshipPatch) State {
	next := s.Clone()
	for i := range next.Edges {
		if next.Edges[i].ID != id {
			continue
		}
		e := &next.Edges[i]
		if patch.Source != nil {
			e.Source = *patch.Source
		}
		if patch.Target != nil {
			e.Target = *patch.Target
		}
		if patch.Label != nil {
			e.Label = *patch.Label
		}
		if patch.Style != nil {
			e.Style = *patch.Style
		}
		break
	}
	return next
}

// RemoveRelationship deletes the relationship matching id.
func (s State) RemoveRelationship(id string) State {
	next := s.Clone()
	for i := range next.Edges {
		if next.Edges[i].ID == id {
			next.Edges = append(next.Edges[:i:i], next.Edges[i+1:]...)
			break
		}
	}
	return next
}

// ReplaceAll swaps in a whole new node and edge set. Used by import, AI
// generation and undo/redo. No referential validation is performed.
func (s State) ReplaceAll(nodes []Table, edges []Relationship) State {
	next := State{
		Nodes: make([]Table, len(nodes)),
		Edges: append([]Relationship{}, edges...),
	}
	for i, t := range nodes {
		next.Nodes[i] = cloneTable(t)
	}
	return next
}

// AppendComment derives a fresh comment id and timestamp and appends it to
// the matching table's comment list.
func (s State) AppendComment(tableID, author, text string) State {
	next := s.Clone()
	now := time.Now().UnixMilli()
	for i := range next.Nodes {
		if next.Nodes[i].ID == tableID {
			next.Nodes[i].Comments = append(next.Nodes[i].Comments, Comment{
				ID:        fmt.Sprintf("c_%d", now),
				Author:    author,
				Text:      text,
				Timestamp: now,
			})
			break
		}
	}
	return next
}
