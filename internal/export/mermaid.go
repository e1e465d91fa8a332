package export

import (
	"fmt"
	"strings"

	"liveerd/internal/diagram"
)

// Mermaid renders the diagram in Mermaid ER syntax: one block per table
// listing type, name and a PK marker, followed by one line per relationship.
// Edges whose endpoints do not resolve to a table are skipped, matching the
// canvas behavior of simply not rendering a dangling connection.
func Mermaid(state diagram.State) string {
	var b strings.Builder
	b.WriteString("erDiagram\n")

	names := make(map[string]string, len(state.Nodes))
	for _, table := range state.Nodes {
		names[table.ID] = table.Name
		b.WriteString(fmt.Sprintf("  %s {\n", table.Name))
		for _, a := range table.Attributes {
			marker := ""
			if a.IsPrimary {
				marker = " PK"
			}
			b.WriteString(fmt.Sprintf("    %s %s%s\n", a.Type, a.Name, marker))
		}
		b.WriteString("  }\n")
	}

	for _, edge := range state.Edges {
		source, okS := names[edge.Source]
		target, okT := names[edge.Target]
		if !okS || !okT {
			continue
		}
		label := edge.Label
		if label == "" {
			label = "Connected"
		}
		b.WriteString(fmt.Sprintf("  %s ||--o{ %s : \"%s\"\n", source, target, label))
	}

	return b.String()
}
