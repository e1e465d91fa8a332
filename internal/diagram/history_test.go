package diagram

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stateWithTable(id string) State {
	return NewState().AddTable(Table{ID: id, Name: id, Attributes: []Column{}})
}

func TestUndoRedoRoundTrip(t *testing.T) {
	h := NewHistory(0)
	s0 := stateWithTable("users")
	s1 := s0.AddTable(Table{ID: "posts", Name: "Posts", Attributes: []Column{}})

	h.Capture(s0)
	h.Capture(s1)

	undone, err := h.Undo()
	require.NoError(t, err)
	assert.Equal(t, s0, undone)

	redone, err := h.Redo()
	require.NoError(t, err)
	assert.Equal(t, s1, redone)
}

func TestUndoRedoBoundaries(t *testing.T) {
	h := NewHistory(0)

	_, err := h.Undo()
	assert.ErrorIs(t, err, ErrNoOp)
	_, err = h.Redo()
	assert.ErrorIs(t, err, ErrNoOp)
	assert.Equal(t, -1, h.Cursor())

	h.Capture(stateWithTable("users"))

	_, err = h.Undo()
	assert.ErrorIs(t, err, ErrNoOp)
	_, err = h.Redo()
	assert.ErrorIs(t, err, ErrNoOp)
	assert.Equal(t, 0, h.Cursor())
}

func TestCaptureTruncatesRedoBranch(t *testing.T) {
	h := NewHistory(0)
	s0 := stateWithTable("a")
	s1 := stateWithTable("b")
	s2 := stateWithTable("c")
	s3 := stateWithTable("d")

	h.Capture(s0)
	h.Capture(s1)
	h.Capture(s2)
	require.Equal(t, 2, h.Cursor())

	_, err := h.Undo()
	require.NoError(t, err)

	h.Capture(s3) // discards s2

	assert.Equal(t, 3, h.Len())
	assert.Equal(t, 2, h.Cursor())

	_, err = h.Redo()
	assert.ErrorIs(t, err, ErrNoOp)

	undone, err := h.Undo()
	require.NoError(t, err)
	assert.Equal(t, s1, undone)
}

func TestSnapshotIndependence(t *testing.T) {
	h := NewHistory(0)
	live := stateWithTable("users")
	h.Capture(live)
	h.Capture(live.AddTable(Table{ID: "posts", Name: "Posts", Attributes: []Column{}}))

	// mutating the live copy after capture must not alter the snapshot
	live.Nodes[0].Name = "Mutated"

	undone, err := h.Undo()
	require.NoError(t, err)
	assert.Equal(t, "users", undone.Nodes[0].Name)
}

func TestHistoryEvictsOldestBeyondLimit(t *testing.T) {
	h := NewHistory(3)
	for i := 0; i < 5; i++ {
		h.Capture(stateWithTable(fmt.Sprintf("t%d", i)))
	}

	assert.Equal(t, 3, h.Len())
	assert.Equal(t, 2, h.Cursor())

	// oldest retained snapshot is t2
	undone, err := h.Undo()
	require.NoError(t, err)
	assert.Equal(t, "t3", undone.Nodes[0].ID)

	undone, err = h.Undo()
	require.NoError(t, err)
	assert.Equal(t, "t2", undone.Nodes[0].ID)

	_, err = h.Undo()
	assert.ErrorIs(t, err, ErrNoOp)
}
