package services

import (
	"fmt"

	"liveerd/internal/diagram"
)

// Operation kinds accepted by the ops endpoint.
const (
	OpAddTable           = "add_table"
	OpUpdateTable        = "update_table"
	OpAddColumn          = "add_column"
	OpUpdateColumn       = "update_column"
	OpRemoveColumn       = "remove_column"
	OpAddRelationship    = "add_relationship"
	OpUpdateRelationship = "update_relationship"
	OpRemoveRelationship = "remove_relationship"
	OpReplaceAll         = "replace_all"
	OpAppendComment      = "append_comment"
)

// Operation is one committed mutation, tagged by Op. Only the fields the
// kind needs are read; tables are never deleted directly, they disappear by
// being absent from a replace_all.
type Operation struct {
	Op string `json:"op"`

	Table *diagram.Table `json:"table,omitempty"`

	TableID     string               `json:"tableId,omitempty"`
	Patch       *diagram.TablePatch  `json:"patch,omitempty"`
	Column      *diagram.Column      `json:"column,omitempty"`
	ColumnID    string               `json:"columnId,omitempty"`
	ColumnPatch *diagram.ColumnPatch `json:"columnPatch,omitempty"`

	Source            string                     `json:"source,omitempty"`
	Target            string                     `json:"target,omitempty"`
	Relationship      *diagram.RelationshipAttrs `json:"relationship,omitempty"`
	RelationshipID    string                     `json:"relationshipId,omitempty"`
	RelationshipPatch *diagram.RelationshipPatch `json:"relationshipPatch,omitempty"`

	Nodes []diagram.Table        `json:"nodes,omitempty"`
	Edges []diagram.Relationship `json:"edges,omitempty"`

	Text string `json:"text,omitempty"`
}

// Validate checks that the fields the operation kind requires are present.
// Missing target ids inside the state are NOT an error; the store treats
// those as silent no-ops.
func (o Operation) Validate() error {
	switch o.Op {
	case OpAddTable:
		if o.Table == nil {
			return fmt.Errorf("%s requires table", o.Op)
		}
	case OpUpdateTable:
		if o.TableID == "" || o.Patch == nil {
			return fmt.Errorf("%s requires tableId and patch", o.Op)
		}
	case OpAddColumn:
		if o.TableID == "" || o.Column == nil {
			return fmt.Errorf("%s requires tableId and column", o.Op)
		}
	case OpUpdateColumn:
		if o.TableID == "" || o.ColumnID == "" || o.ColumnPatch == nil {
			return fmt.Errorf("%s requires tableId, columnId and columnPatch", o.Op)
		}
	case OpRemoveColumn:
		if o.TableID == "" || o.ColumnID == "" {
			return fmt.Errorf("%s requires tableId and columnId", o.Op)
		}
	case OpAddRelationship:
		if o.Source == "" || o.Target == "" {
			return fmt.Errorf("%s requires source and target", o.Op)
		}
	case OpUpdateRelationship:
		if o.RelationshipID == "" || o.RelationshipPatch == nil {
			return fmt.Errorf("%s requires relationshipId and relationshipPatch", o.Op)
		}
	case OpRemoveRelationship:
		if o.RelationshipID == "" {
			return fmt.Errorf("%s requires relationshipId", o.Op)
		}
	case OpReplaceAll:
		if o.Nodes == nil || o.Edges == nil {
			return fmt.Errorf("%s requires nodes and edges", o.Op)
		}
	case OpAppendComment:
		if o.TableID == "" || o.Text == "" {
			return fmt.Errorf("%s requires tableId and text", o.Op)
		}
	default:
		return fmt.Errorf("unknown operation %q", o.Op)
	}
	return nil
}

// Apply maps the operation onto a state store mutation. Author is the
// authenticated caller; only append_comment uses it.
func (o Operation) Apply(s diagram.State, author string) diagram.State {
	switch o.Op {
	case OpAddTable:
		return s.AddTable(*o.Table)
	case OpUpdateTable:
		return s.UpdateTable(o.TableID, *o.Patch)
	case OpAddColumn:
		return s.AddColumn(o.TableID, *o.Column)
	case OpUpdateColumn:
		return s.UpdateColumn(o.TableID, o.ColumnID, *o.ColumnPatch)
	case OpRemoveColumn:
		return s.RemoveColumn(o.TableID, o.ColumnID)
	case OpAddRelationship:
		attrs := diagram.RelationshipAttrs{}
		if o.Relationship != nil {
			attrs = *o.Relationship
		}
		return s.AddRelationship(o.Source, o.Target, attrs)
	case OpUpdateRelationship:
		return s.UpdateRelationship(o.RelationshipID, *o.RelationshipPatch)
	case OpRemoveRelationship:
		return s.RemoveRelationship(o.RelationshipID)
	case OpReplaceAll:
		return s.ReplaceAll(o.Nodes, o.Edges)
	case OpAppendComment:
		return s.AppendComment(o.TableID, author, o.Text)
	}
	return s
}
