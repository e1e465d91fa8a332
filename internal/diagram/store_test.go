package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func usersTable() Table {
	return Table{
		ID:   "users",
		Name: "Users",
		Attributes: []Column{
			{ID: "1", Name: "id", Type: TypeUUID, IsPrimary: true},
			{ID: "2", Name: "email", Type: TypeVarchar},
		},
	}
}

func TestAddTablePreservesInsertionOrder(t *testing.T) {
	s := NewState().
		AddTable(usersTable()).
		AddTable(Table{ID: "posts", Name: "Posts", Attributes: []Column{}})

	require.Len(t, s.Nodes, 2)
	assert.Equal(t, "users", s.Nodes[0].ID)
	assert.Equal(t, "posts", s.Nodes[1].ID)
}

func TestAddTableGeneratesIDWhenMissing(t *testing.T) {
	s := NewState().AddTable(Table{Name: "NewTable", Attributes: []Column{}})

	require.Len(t, s.Nodes, 1)
	assert.NotEmpty(t, s.Nodes[0].ID)
}

func TestUpdateTableMergesPatch(t *testing.T) {
	s := NewState().AddTable(usersTable())

	s2 := s.UpdateTable("users", TablePatch{
		Name:        strPtr("Accounts"),
		Description: strPtr("registered accounts"),
	})

	assert.Equal(t, "Accounts", s2.Nodes[0].Name)
	assert.Equal(t, "registered accounts", s2.Nodes[0].Description)
	// untouched fields survive the merge
	assert.Len(t, s2.Nodes[0].Attributes, 2)
}

func TestUpdateTableMissingIDIsNoOp(t *testing.T) {
	s := NewState().AddTable(usersTable())

	s2 := s.UpdateTable("nonexistent", TablePatch{Name: strPtr("x")})

	assert.Equal(t, s, s2)
}

func TestMutationsDoNotAliasInput(t *testing.T) {
	s := NewState().AddTable(usersTable())

	s2 := s.UpdateColumn("users", "2", ColumnPatch{Name: strPtr("mail")})

	assert.Equal(t, "email", s.Nodes[0].Attributes[1].Name)
	assert.Equal(t, "mail", s2.Nodes[0].Attributes[1].Name)
}

func TestColumnLifecycle(t *testing.T) {
	s := NewState().AddTable(usersTable())

	s = s.AddColumn("users", Column{ID: "3", Name: "created_at", Type: TypeTimestamp})
	require.Len(t, s.Nodes[0].Attributes, 3)

	nullable := true
	s = s.UpdateColumn("users", "3", ColumnPatch{IsNullable: &nullable})
	assert.True(t, s.Nodes[0].Attributes[2].IsNullable)

	s = s.RemoveColumn("users", "2")
	require.Len(t, s.Nodes[0].Attributes, 2)
	assert.Equal(t, "id", s.Nodes[0].Attributes[0].Name)
	assert.Equal(t, "created_at", s.Nodes[0].Attributes[1].Name)

	// unknown column id: no-op
	s2 := s.RemoveColumn("users", "99")
	assert.Equal(t, s, s2)
}

func TestAddRelationshipToleratesDanglingEndpoints(t *testing.T) {
	s := NewState().AddRelationship("ghost", "phantom", RelationshipAttrs{})

	require.Len(t, s.Edges, 1)
	assert.Equal(t, "ghost", s.Edges[0].Source)
	assert.Equal(t, "1:N", s.Edges[0].Label) // default cardinality annotation
}

func TestRelationshipUpdateAndRemove(t *testing.T) {
	s := NewState().
		AddTable(usersTable()).
		AddTable(Table{ID: "posts", Name: "Posts", Attributes: []Column{}}).
		AddRelationship("users", "posts", RelationshipAttrs{ID: "r1", Label: "1:N"})

	s = s.UpdateRelationship("r1", RelationshipPatch{Label: strPtr("1:1")})
	assert.Equal(t, "1:1", s.Edges[0].Label)

	s2 := s.UpdateRelationship("missing", RelationshipPatch{Label: strPtr("N:M")})
	assert.Equal(t, s, s2)

	s = s.RemoveRelationship("r1")
	assert.Empty(t, s.Edges)
}

func TestReplaceAllSkipsValidation(t *testing.T) {
	s := NewState().AddTable(usersTable())

	edges := []Relationship{{ID: "r1", Source: "a", Target: "b"}}
	s2 := s.ReplaceAll(nil, edges)

	assert.Empty(t, s2.Nodes)
	assert.Equal(t, edges, s2.Edges)

	// replacement copies, input slice stays independent
	edges[0].Label = "mutated"
	assert.Empty(t, s2.Edges[0].Label)
}

func TestAppendCommentDerivesIDAndTimestamp(t *testing.T) {
	s := NewState().AddTable(usersTable())

	s = s.AppendComment("users", "dana@example.com", "rename this table?")

	require.Len(t, s.Nodes[0].Comments, 1)
	c := s.Nodes[0].Comments[0]
	assert.NotEmpty(t, c.ID)
	assert.NotZero(t, c.Timestamp)
	assert.Equal(t, "dana@example.com", c.Author)
	assert.Equal(t, "rename this table?", c.Text)

	s2 := s.AppendComment("missing", "x", "y")
	assert.Equal(t, s, s2)
}
