package export

import (
	"fmt"
	"strings"

	"liveerd/internal/diagram"
)

// Prisma renders one model block per table with the editor's simplistic type
// mapping. Anything outside the mapped set falls back to String.
func Prisma(state diagram.State) string {
	blocks := make([]string, 0, len(state.Nodes))
	for _, table := range state.Nodes {
		fields := make([]string, 0, len(table.Attributes))
		for _, a := range table.Attributes {
			field := fmt.Sprintf("  %s %s", a.Name, prismaType(a.Type))
			if !a.IsPrimary && a.IsNullable {
				field += "?"
			}
			fields = append(fields, field)
		}
		blocks = append(blocks, fmt.Sprintf("model %s {\n%s\n}", table.Name, strings.Join(fields, "\n")))
	}
	return "// Generated by LiveERD\n\n" + strings.Join(blocks, "\n\n")
}

func prismaType(t diagram.AttributeType) string {
	switch t {
	case diagram.TypeVarchar:
		return "String"
	case diagram.TypeUUID:
		return "String @id @default(uuid())"
	case diagram.TypeInt:
		return "Int"
	case diagram.TypeBoolean:
		return "Boolean"
	default:
		return "String"
	}
}
