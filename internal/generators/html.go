package generators

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"spyreport/internal/schema"
)

// HTMLOptions control the summary page.
type HTMLOptions struct {
	// AllowHTMLInComments renders comment markup instead of escaping it.
	AllowHTMLInComments bool
	// CommentsInitiallyDisplayed shows the column comment column on load.
	CommentsInitiallyDisplayed bool
	// Stylesheet is the href of the page stylesheet.
	Stylesheet string
	// Diagrams are link targets listed under the summary.
	Diagrams []string
}

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="{{.Stylesheet}}">
</head>
<body class="{{if .ShowComments}}comments-shown{{else}}comments-hidden{{end}}">
{{.Body}}
<footer>Generated {{.GeneratedAt}}</footer>
</body>
</html>
`))

// GenerateHTML renders a browsable summary of s. The body is written as
// Markdown and converted with goldmark.
func GenerateHTML(s *schema.Schema, opts HTMLOptions) (string, error) {
	md := summaryMarkdown(s, opts)

	rendererOpts := []goldmark.Option{
		goldmark.WithExtensions(extension.Table),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	if opts.AllowHTMLInComments {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(gmhtml.WithUnsafe()))
	}

	var body bytes.Buffer
	if err := goldmark.New(rendererOpts...).Convert([]byte(md), &body); err != nil {
		return "", fmt.Errorf("failed to render summary: %w", err)
	}

	var out bytes.Buffer
	err := page.Execute(&out, map[string]any{
		"Title":        title(s),
		"Stylesheet":   opts.Stylesheet,
		"ShowComments": opts.CommentsInitiallyDisplayed,
		"Body":         template.HTML(body.String()),
		"GeneratedAt":  s.GeneratedAt.Format("2006-01-02 15:04:05"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}
	return out.String(), nil
}

func summaryMarkdown(s *schema.Schema, opts HTMLOptions) string {
	var b strings.Builder
	comment := func(c string) string {
		if !opts.AllowHTMLInComments {
			c = html.EscapeString(c)
		}
		return cell(c)
	}

	fmt.Fprintf(&b, "# %s\n\n", cell(title(s)))
	if s.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", comment(s.Description))
	}
	fmt.Fprintf(&b, "%d tables, %d views, %d relationships\n\n", len(s.Tables), len(s.Views), len(s.ForeignKeys))

	if len(opts.Diagrams) > 0 {
		b.WriteString("## Diagrams\n\n")
		for _, d := range opts.Diagrams {
			fmt.Fprintf(&b, "- [%s](%s)\n", d, d)
		}
		b.WriteString("\n")
	}

	if len(s.Tables) > 0 {
		b.WriteString("## Tables\n\n| Table | Columns | Comment |\n|---|---|---|\n")
		for _, t := range s.Tables {
			fmt.Fprintf(&b, "| [%s](#%s) | %d | %s |\n", cell(t.Name), anchor(t.Name), len(t.Columns), comment(t.Comment))
		}
		b.WriteString("\n")
	}

	for _, t := range s.Tables {
		fmt.Fprintf(&b, "### %s\n\n", cell(t.Name))
		if t.Comment != "" {
			fmt.Fprintf(&b, "%s\n\n", comment(t.Comment))
		}
		writeColumns(&b, s, t.Name, t.Columns, comment)
	}

	for _, v := range s.Views {
		fmt.Fprintf(&b, "### %s (view)\n\n", cell(v.Name))
		if v.Comment != "" {
			fmt.Fprintf(&b, "%s\n\n", comment(v.Comment))
		}
		writeColumns(&b, s, v.Name, v.Columns, comment)
	}

	if len(s.ForeignKeys) > 0 {
		b.WriteString("## Relationships\n\n| Child | Parent | On delete |\n|---|---|---|\n")
		for _, fk := range s.ForeignKeys {
			fmt.Fprintf(&b, "| %s.%s | %s.%s | %s |\n",
				cell(fk.Table), cell(fk.Column), cell(fk.ReferencedTable), cell(fk.ReferencedColumn), cell(fk.OnDelete))
		}
	}

	return b.String()
}

func writeColumns(b *strings.Builder, s *schema.Schema, table string, cols []schema.Column, comment func(string) string) {
	b.WriteString("| Column | Type | Nullable | Key | Comment |\n|---|---|---|---|---|\n")
	for _, col := range cols {
		key := ""
		switch {
		case col.IsPrimaryKey:
			key = "PK"
		case isForeignKey(s, table, col.Name):
			key = "FK"
		}
		nullable := "no"
		if col.IsNullable {
			nullable = "yes"
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n", cell(col.Name), cell(formatSQLType(col)), nullable, key, comment(col.Comment))
	}
	b.WriteString("\n")
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ", "\r", "")

func cell(s string) string {
	return cellEscaper.Replace(s)
}

func anchor(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
}

// DefaultStylesheet is written when no custom stylesheet is supplied.
const DefaultStylesheet = `body { font-family: Helvetica, Arial, sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 1.5em; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
th { background: #eef; }
.comments-hidden table td:nth-child(5), .comments-hidden table th:nth-child(5) { display: none; }
footer { color: #888; font-size: small; }
`
