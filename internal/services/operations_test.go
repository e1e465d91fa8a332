package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liveerd/internal/diagram"
)

func opFromJSON(t *testing.T, raw string) Operation {
	t.Helper()
	var op Operation
	require.NoError(t, json.Unmarshal([]byte(raw), &op))
	return op
}

func TestOperationValidate(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"unknown op", `{"op":"drop_everything"}`, true},
		{"add_table ok", `{"op":"add_table","table":{"id":"t1","name":"Users"}}`, false},
		{"add_table missing table", `{"op":"add_table"}`, true},
		{"update_table missing patch", `{"op":"update_table","tableId":"t1"}`, true},
		{"update_column ok", `{"op":"update_column","tableId":"t1","columnId":"c1","columnPatch":{"name":"email"}}`, false},
		{"remove_column missing columnId", `{"op":"remove_column","tableId":"t1"}`, true},
		{"add_relationship ok", `{"op":"add_relationship","source":"t1","target":"t2"}`, false},
		{"replace_all missing edges", `{"op":"replace_all","nodes":[]}`, true},
		{"replace_all empty ok", `{"op":"replace_all","nodes":[],"edges":[]}`, false},
		{"append_comment missing text", `{"op":"append_comment","tableId":"t1"}`, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := opFromJSON(t, tc.raw).Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOperationApply(t *testing.T) {
	state := diagram.NewState()

	state = opFromJSON(t, `{"op":"add_table","table":{"id":"t1","name":"Users","attributes":[]}}`).Apply(state, "")
	require.Len(t, state.Nodes, 1)

	state = opFromJSON(t, `{"op":"add_column","tableId":"t1","column":{"id":"c1","name":"id","type":"UUID","isPrimary":true}}`).Apply(state, "")
	require.Len(t, state.Nodes[0].Attributes, 1)

	state = opFromJSON(t, `{"op":"update_column","tableId":"t1","columnId":"c1","columnPatch":{"name":"user_id"}}`).Apply(state, "")
	assert.Equal(t, "user_id", state.Nodes[0].Attributes[0].Name)
	assert.True(t, state.Nodes[0].Attributes[0].IsPrimary)

	state = opFromJSON(t, `{"op":"add_relationship","source":"t1","target":"t2","relationship":{"label":"1:1"}}`).Apply(state, "")
	require.Len(t, state.Edges, 1)
	assert.Equal(t, "1:1", state.Edges[0].Label)

	state = opFromJSON(t, `{"op":"append_comment","tableId":"t1","text":"looks good"}`).Apply(state, "alice@example.com")
	require.Len(t, state.Nodes[0].Comments, 1)
	assert.Equal(t, "alice@example.com", state.Nodes[0].Comments[0].Author)
	assert.Equal(t, "looks good", state.Nodes[0].Comments[0].Text)

	// Operations aimed at ids that do not exist change nothing.
	before := state.Clone()
	state = opFromJSON(t, `{"op":"remove_column","tableId":"ghost","columnId":"c1"}`).Apply(state, "")
	assert.Equal(t, before, state)

	state = opFromJSON(t, `{"op":"replace_all","nodes":[],"edges":[]}`).Apply(state, "")
	assert.Empty(t, state.Nodes)
	assert.Empty(t, state.Edges)
}
