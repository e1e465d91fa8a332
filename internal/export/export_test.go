package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liveerd/internal/diagram"
)

func blogState() diagram.State {
	return diagram.NewState().
		AddTable(diagram.Table{
			ID:   "users",
			Name: "Users",
			Attributes: []diagram.Column{
				{ID: "1", Name: "id", Type: diagram.TypeUUID, IsPrimary: true, IsNullable: false},
				{ID: "2", Name: "email", Type: diagram.TypeVarchar, IsNullable: false},
				{ID: "3", Name: "bio", Type: diagram.TypeText, IsNullable: true},
			},
		}).
		AddTable(diagram.Table{
			ID:   "posts",
			Name: "Posts",
			Attributes: []diagram.Column{
				{ID: "1", Name: "id", Type: diagram.TypeBigInt, IsPrimary: true, AutoIncrement: true},
				{ID: "2", Name: "user_id", Type: diagram.TypeUUID, IsNullable: false},
			},
		}).
		AddRelationship("users", "posts", diagram.RelationshipAttrs{ID: "e1", Label: "1:N"})
}

func TestSQLEndToEndScenario(t *testing.T) {
	out := SQL(blogState())

	stmts := strings.Split(out, "\n\n")
	require.Len(t, stmts, 2)
	// insertion order, lowercased table names
	assert.True(t, strings.HasPrefix(stmts[0], "CREATE TABLE users ("))
	assert.True(t, strings.HasPrefix(stmts[1], "CREATE TABLE posts ("))
	assert.Contains(t, stmts[0], "  id UUID PRIMARY KEY NOT NULL")
	assert.Contains(t, stmts[0], "  bio TEXT")
	assert.NotContains(t, stmts[0], "bio TEXT NOT NULL")
	assert.Contains(t, stmts[1], "  id BIGINT PRIMARY KEY NOT NULL AUTO_INCREMENT")
}

func TestMySQLDialect(t *testing.T) {
	out := MySQL(blogState())

	assert.Contains(t, out, "CREATE TABLE `users` (")
	assert.Contains(t, out, "`email` VARCHAR(255) NOT NULL")
	assert.Contains(t, out, "`id` BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY")
	assert.Contains(t, out, ") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;")
}

func TestMermaidResolvesTableNamesAndSkipsDangling(t *testing.T) {
	state := blogState().AddRelationship("users", "ghost", diagram.RelationshipAttrs{ID: "e2"})
	out := Mermaid(state)

	assert.True(t, strings.HasPrefix(out, "erDiagram\n"))
	assert.Contains(t, out, "  Users {\n")
	assert.Contains(t, out, "    UUID id PK\n")
	assert.Contains(t, out, "    VARCHAR email\n")
	assert.Contains(t, out, "  Users ||--o{ Posts : \"1:N\"\n")
	// dangling endpoint renders no connection
	assert.NotContains(t, out, "ghost")
}

func TestPrismaTypeMapping(t *testing.T) {
	out := Prisma(blogState())

	assert.Contains(t, out, "model Users {")
	assert.Contains(t, out, "  id String @id @default(uuid())")
	assert.Contains(t, out, "  email String\n")
	// nullable non-primary columns get the optional marker
	assert.Contains(t, out, "  bio String?")
}

func TestJSONRoundTrip(t *testing.T) {
	state := blogState()

	data, err := JSON(state)
	require.NoError(t, err)

	back, err := ImportJSON(data)
	require.NoError(t, err)
	assert.Equal(t, state, back)
}

func TestImportRejectsMalformedDocuments(t *testing.T) {
	_, err := ImportJSON([]byte("{not json"))
	assert.Error(t, err)

	_, err = ImportJSON([]byte(`{"nodes": []}`))
	assert.ErrorIs(t, err, ErrInvalidDocument)

	_, err = ImportJSON([]byte(`{"edges": []}`))
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestRenderUnknownFormat(t *testing.T) {
	_, _, err := Render(diagram.NewState(), Format("yaml"))
	assert.Error(t, err)
}
