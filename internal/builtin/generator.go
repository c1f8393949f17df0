// Package builtin renders a schema report in-process from the same argument
// vector the SchemaSpy jar accepts. Supported database types are pgsql, mysql
// and sqlite.
package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"spyreport/internal/database"
	"spyreport/internal/generators"
	"spyreport/internal/schema"
)

const stylesheetName = "schemaspy.css"

type outputFile struct {
	name    string
	content []byte
}

// Generator implements report.Generator without a JVM.
type Generator struct {
	Fs     afero.Fs
	Logger logrus.FieldLogger
}

func New(fs afero.Fs, log logrus.FieldLogger) *Generator {
	return &Generator{Fs: fs, Logger: log}
}

func (g *Generator) Run(ctx context.Context, args []string) error {
	opts, err := ParseArgs(args)
	if err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	log := g.logger().WithField("type", opts.Params.Type)
	if opts.DriverPath != "" {
		log.WithField("cp", opts.DriverPath).Warn("driver path ignored; drivers are compiled in")
	}

	connector, err := database.NewConnector(ctx, opts.Params)
	if err != nil {
		return fmt.Errorf("failed to create database connector: %w", err)
	}
	defer connector.Close()

	sch, err := connector.ExtractSchema(ctx, database.Filter{
		Schema:         opts.Schema,
		Include:        opts.Include,
		ExcludeColumns: opts.ExcludeColumns,
	})
	if err != nil {
		return fmt.Errorf("failed to extract schema: %w", err)
	}
	sch.Description = opts.Description
	if opts.NoTableComments {
		sch.DropTableComments()
	}

	return g.write(opts, sch, log)
}

func (g *Generator) write(opts *Options, sch *schema.Schema, log logrus.FieldLogger) error {
	data, err := json.MarshalIndent(sch, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}

	files := []outputFile{
		{"schema.md", []byte(generators.GenerateMermaid(sch))},
		{"schema.puml", []byte(generators.GeneratePlantUML(sch))},
		{"schema.dot", []byte(generators.GenerateGraphviz(sch))},
		{"schema.json", data},
	}

	if !opts.NoHTML {
		css := []byte(generators.DefaultStylesheet)
		if opts.Stylesheet != "" {
			if css, err = afero.ReadFile(g.Fs, opts.Stylesheet); err != nil {
				return fmt.Errorf("failed to read stylesheet: %w", err)
			}
		}

		page, err := generators.GenerateHTML(sch, generators.HTMLOptions{
			AllowHTMLInComments:        opts.AllowHTML,
			CommentsInitiallyDisplayed: opts.ShowComments,
			Stylesheet:                 stylesheetName,
			Diagrams:                   []string{"schema.md", "schema.puml", "schema.dot", "schema.json"},
		})
		if err != nil {
			return err
		}
		files = append(files, outputFile{stylesheetName, css}, outputFile{"index.html", []byte(page)})
	}

	if err := g.Fs.MkdirAll(opts.Output, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, f := range files {
		path := filepath.Join(opts.Output, f.name)
		if err := afero.WriteFile(g.Fs, path, f.content, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.name, err)
		}
	}

	log.WithFields(logrus.Fields{
		"tables":        len(sch.Tables),
		"views":         len(sch.Views),
		"relationships": len(sch.ForeignKeys),
		"files":         len(files),
	}).Info("schema report written")
	return nil
}

func (g *Generator) logger() logrus.FieldLogger {
	if g.Logger != nil {
		return g.Logger
	}
	return logrus.StandardLogger()
}
