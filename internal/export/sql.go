package export

import (
	"fmt"
	"strings"

	"liveerd/internal/diagram"
)

// SQL renders one CREATE TABLE statement per table, in table order. Column
// modifiers follow the live preview: PRIMARY KEY, then NOT NULL, then
// AUTO_INCREMENT.
func SQL(state diagram.State) string {
	statements := make([]string, 0, len(state.Nodes))
	for _, table := range state.Nodes {
		cols := make([]string, 0, len(table.Attributes))
		for _, a := range table.Attributes {
			line := fmt.Sprintf("  %s %s", a.Name, a.Type)
			if a.IsPrimary {
				line += " PRIMARY KEY"
			}
			if !a.IsNullable {
				line += " NOT NULL"
			}
			if a.AutoIncrement {
				line += " AUTO_INCREMENT"
			}
			cols = append(cols, line)
		}
		statements = append(statements, fmt.Sprintf("CREATE TABLE %s (\n%s\n);",
			strings.ToLower(table.Name), strings.Join(cols, ",\n")))
	}
	return strings.Join(statements, "\n\n")
}

// MySQL renders the InnoDB-flavored dialect used by the code preview panel:
// backticked identifiers, sized VARCHAR, engine and charset suffix.
func MySQL(state diagram.State) string {
	statements := make([]string, 0, len(state.Nodes))
	for _, table := range state.Nodes {
		cols := make([]string, 0, len(table.Attributes))
		for _, a := range table.Attributes {
			line := fmt.Sprintf("  `%s` %s", a.Name, a.Type)
			if a.Type == diagram.TypeVarchar {
				line += "(255)"
			}
			if !a.IsNullable {
				line += " NOT NULL"
			}
			if a.AutoIncrement {
				line += " AUTO_INCREMENT"
			}
			if a.IsPrimary {
				line += " PRIMARY KEY"
			}
			cols = append(cols, line)
		}
		statements = append(statements, fmt.Sprintf(
			"CREATE TABLE `%s` (\n%s\n) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;",
			strings.ToLower(table.Name), strings.Join(cols, ",\n")))
	}
	return strings.Join(statements, "\n\n")
}
