package export

import (
	"fmt"

	"liveerd/internal/diagram"
)

// Format selects an export renderer.
type Format string

const (
	FormatSQL     Format = "sql"
	FormatMySQL   Format = "mysql"
	FormatPrisma  Format = "prisma"
	FormatMermaid Format = "mermaid"
	FormatJSON    Format = "json"
)

// Render produces the export document and a suggested file name.
func Render(state diagram.State, format Format) ([]byte, string, error) {
	switch format {
	case FormatSQL:
		return []byte(SQL(state)), "schema.sql", nil
	case FormatMySQL:
		return []byte(MySQL(state)), "schema.sql", nil
	case FormatPrisma:
		return []byte(Prisma(state)), "schema.prisma", nil
	case FormatMermaid:
		return []byte(Mermaid(state)), "schema.mmd", nil
	case FormatJSON:
		data, err := JSON(state)
		return data, "erd_export.json", err
	default:
		return nil, "", fmt.Errorf("unknown export format %q", format)
	}
}
