package export

import (
	"encoding/json"
	"errors"
	"fmt"

	"liveerd/internal/diagram"
)

// ErrInvalidDocument flags an import payload that is not valid JSON or is
// missing the nodes or edges keys.
var ErrInvalidDocument = errors.New("invalid diagram document")

// JSON renders the generic {nodes, edges} document, round-trippable back
// through ImportJSON.
func JSON(state diagram.State) ([]byte, error) {
	return json.MarshalIndent(state, "", "  ")
}

// ImportJSON parses a {nodes, edges} document into a fresh state. On any
// failure the caller's state is untouched; no referential validation beyond
// key presence is performed.
func ImportJSON(data []byte) (diagram.State, error) {
	var doc struct {
		Nodes *[]diagram.Table        `json:"nodes"`
		Edges *[]diagram.Relationship `json:"edges"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return diagram.State{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc.Nodes == nil || doc.Edges == nil {
		return diagram.State{}, ErrInvalidDocument
	}
	return diagram.NewState().ReplaceAll(*doc.Nodes, *doc.Edges), nil
}
