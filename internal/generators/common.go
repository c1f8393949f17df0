package generators

import (
	"fmt"
	"strings"

	"spyreport/internal/schema"
)

var nameCleaner = strings.NewReplacer("-", "_", ".", "_", " ", "_", "$", "_")

func cleanName(name string) string {
	return nameCleaner.Replace(name)
}

func title(s *schema.Schema) string {
	switch {
	case s.Database != "" && s.Name != "" && s.Name != s.Database:
		return s.Database + "." + s.Name
	case s.Database != "":
		return s.Database
	case s.Name != "":
		return s.Name
	default:
		return "schema"
	}
}

func isForeignKey(s *schema.Schema, table, column string) bool {
	for _, fk := range s.ForeignKeys {
		if fk.Table == table && fk.Column == column {
			return true
		}
	}
	return false
}

// formatSQLType renders a column type with its length or precision.
func formatSQLType(col schema.Column) string {
	t := strings.ToUpper(col.Type)
	switch strings.ToLower(col.Type) {
	case "varchar", "char", "character varying", "character":
		if col.Length != nil {
			return fmt.Sprintf("%s(%d)", t, *col.Length)
		}
	case "decimal", "numeric":
		if col.Precision != nil && col.Scale != nil {
			return fmt.Sprintf("%s(%d,%d)", t, *col.Precision, *col.Scale)
		}
	}
	return t
}
