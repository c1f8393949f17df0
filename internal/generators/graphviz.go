package generators

import (
	"fmt"
	"strings"

	"spyreport/internal/schema"
)

func GenerateGraphviz(s *schema.Schema) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "digraph %q {\n", title(s))
	builder.WriteString("  rankdir=RL;\n")
	builder.WriteString("  node [shape=record, style=filled, fillcolor=lightblue, fontname=Helvetica];\n")
	builder.WriteString("  edge [color=gray, arrowhead=crow];\n\n")

	for _, table := range s.Tables {
		fmt.Fprintf(&builder, "  %s [label=\"{%s|", cleanName(table.Name), escapeRecord(table.Name))

		fields := make([]string, 0, len(table.Columns))
		for _, col := range table.Columns {
			field := escapeRecord(col.Name) + ": " + formatSQLType(col)
			if col.IsPrimaryKey {
				field = "+" + field
			}
			if !col.IsNullable {
				field += " NOT NULL"
			}
			fields = append(fields, field)
		}

		builder.WriteString(strings.Join(fields, "\\l"))
		builder.WriteString("\\l}\"];\n")
	}

	for _, view := range s.Views {
		fmt.Fprintf(&builder, "  %s [label=\"{%s (VIEW)|", cleanName(view.Name), escapeRecord(view.Name))

		fields := make([]string, 0, len(view.Columns))
		for _, col := range view.Columns {
			fields = append(fields, escapeRecord(col.Name)+": "+formatSQLType(col))
		}

		builder.WriteString(strings.Join(fields, "\\l"))
		builder.WriteString("\\l}\", fillcolor=lightgreen];\n")
	}

	builder.WriteString("\n")

	for _, fk := range s.ForeignKeys {
		fmt.Fprintf(&builder, "  %s -> %s [label=\"%s\"];\n",
			cleanName(fk.Table),
			cleanName(fk.ReferencedTable),
			escapeRecord(fk.Column))
	}

	builder.WriteString("}\n")

	return builder.String()
}

var recordEscaper = strings.NewReplacer(
	`"`, `\"`,
	"{", `\{`,
	"}", `\}`,
	"|", `\|`,
	"<", `\<`,
	">", `\>`,
)

func escapeRecord(s string) string {
	return recordEscaper.Replace(s)
}
