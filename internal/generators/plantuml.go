package generators

import (
	"fmt"
	"strings"

	"spyreport/internal/schema"
)

func GeneratePlantUML(s *schema.Schema) string {
	var builder strings.Builder

	builder.WriteString("@startuml\n")
	builder.WriteString("!theme plain\n")
	builder.WriteString("skinparam linetype ortho\n")
	fmt.Fprintf(&builder, "title %s\n\n", title(s))

	for _, table := range s.Tables {
		fmt.Fprintf(&builder, "entity \"%s\" as %s {\n", table.Name, cleanName(table.Name))

		for _, col := range table.Columns {
			if col.IsPrimaryKey {
				fmt.Fprintf(&builder, "  * %s : %s <<PK>>\n", col.Name, formatSQLType(col))
			}
		}

		builder.WriteString("  --\n")

		for _, col := range table.Columns {
			if col.IsPrimaryKey {
				continue
			}
			stereotype := ""
			if isForeignKey(s, table.Name, col.Name) {
				stereotype = " <<FK>>"
			}
			if !col.IsNullable {
				stereotype += " <<NOT NULL>>"
			}
			fmt.Fprintf(&builder, "  %s : %s%s\n", col.Name, formatSQLType(col), stereotype)
		}

		builder.WriteString("}\n\n")
	}

	for _, view := range s.Views {
		fmt.Fprintf(&builder, "entity \"%s\" as %s <<view>> {\n", view.Name, cleanName(view.Name))
		for _, col := range view.Columns {
			fmt.Fprintf(&builder, "  %s : %s\n", col.Name, formatSQLType(col))
		}
		builder.WriteString("}\n\n")
	}

	for _, fk := range s.ForeignKeys {
		fmt.Fprintf(&builder, "%s ||--o{ %s : %s\n",
			cleanName(fk.ReferencedTable),
			cleanName(fk.Table),
			fk.Column)
	}

	builder.WriteString("\n@enduml\n")

	return builder.String()
}
