package generators

import (
	"fmt"
	"strings"

	"spyreport/internal/schema"
)

// GenerateMermaid renders an erDiagram wrapped in a Markdown code fence.
func GenerateMermaid(s *schema.Schema) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "# %s\n\n", title(s))
	if s.Description != "" {
		fmt.Fprintf(&builder, "%s\n\n", s.Description)
	}
	builder.WriteString("```mermaid\nerDiagram\n")

	for _, table := range s.Tables {
		fmt.Fprintf(&builder, "    %s {\n", cleanName(table.Name))
		for _, col := range table.Columns {
			keyStr := ""
			if col.IsPrimaryKey {
				keyStr = " PK"
			} else if isForeignKey(s, table.Name, col.Name) {
				keyStr = " FK"
			}
			fmt.Fprintf(&builder, "        %s %s%s\n", formatMermaidType(col), cleanName(col.Name), keyStr)
		}
		builder.WriteString("    }\n")
	}

	for _, view := range s.Views {
		fmt.Fprintf(&builder, "    %s {\n", cleanName(view.Name))
		for _, col := range view.Columns {
			fmt.Fprintf(&builder, "        %s %s\n", formatMermaidType(col), cleanName(col.Name))
		}
		builder.WriteString("    }\n")
	}

	for _, fk := range s.ForeignKeys {
		fmt.Fprintf(&builder, "    %s ||--o{ %s : %s\n",
			cleanName(fk.ReferencedTable),
			cleanName(fk.Table),
			cleanName(fk.Column))
	}

	builder.WriteString("```\n")
	return builder.String()
}

func formatMermaidType(col schema.Column) string {
	switch strings.ToLower(col.Type) {
	case "varchar", "text", "char", "string", "character varying":
		return "varchar"
	case "int", "integer", "bigint", "smallint":
		return "int"
	case "decimal", "numeric":
		return "decimal"
	case "boolean", "bool":
		return "boolean"
	case "date":
		return "date"
	case "timestamp", "datetime", "timestamp without time zone", "timestamp with time zone":
		return "timestamp"
	case "":
		return "any"
	default:
		return cleanName(strings.ToLower(col.Type))
	}
}
