package builtin

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"regexp"

	"spyreport/internal/database"
	"spyreport/internal/jdbc"
)

// Options is the parsed SchemaSpy argument vector.
type Options struct {
	Params          database.Params
	Schema          string
	Output          string
	Description     string
	Include         *regexp.Regexp
	ExcludeColumns  *regexp.Regexp
	Stylesheet      string
	DriverPath      string
	AllowHTML       bool
	ShowComments    bool
	NoTableComments bool
	NoImplied       bool
	NoHTML          bool
}

// ParseArgs reads the single-dash flag vocabulary produced by the argument
// assembler.
func ParseArgs(args []string) (*Options, error) {
	var o Options
	var include, exclude string

	fs := flag.NewFlagSet("schemaspy", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&o.Params.Database, "db", "", "database name")
	fs.StringVar(&o.Params.Host, "host", "", "database host")
	fs.StringVar(&o.Params.Port, "port", "", "database port")
	fs.StringVar(&o.Params.Type, "t", "", "database type")
	fs.StringVar(&o.Params.User, "u", "", "user")
	fs.StringVar(&o.Params.Password, "p", "", "password")
	fs.StringVar(&o.Params.JDBCURL, "jdbcUrl", "", "JDBC URL")
	fs.StringVar(&o.Schema, "s", "", "schema")
	fs.StringVar(&o.Output, "o", "", "output directory")
	fs.StringVar(&o.Description, "desc", "", "schema description")
	fs.StringVar(&include, "i", "", "include table names regex")
	fs.StringVar(&exclude, "x", "", "exclude column names regex")
	fs.StringVar(&o.Stylesheet, "css", "", "stylesheet")
	fs.StringVar(&o.DriverPath, "cp", "", "driver path")
	fs.BoolVar(&o.AllowHTML, "ahic", false, "allow HTML in comments")
	fs.BoolVar(&o.ShowComments, "cid", false, "comments initially displayed")
	fs.BoolVar(&o.NoTableComments, "notablecomments", false, "drop table comments")
	fs.BoolVar(&o.NoImplied, "noimplied", false, "no implied relationships")
	fs.BoolVar(&o.NoHTML, "nohtml", false, "skip HTML")
	fs.Bool("useDriverManager", false, "ignored")
	fs.Bool("useCurrentClasspath", true, "ignored")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	if o.Output == "" {
		return nil, errors.New("-o is required")
	}

	if o.Params.Type == "" && o.Params.JDBCURL != "" {
		t, err := jdbc.ExtractDatabaseType(o.Params.JDBCURL)
		if err != nil {
			return nil, err
		}
		o.Params.Type = t
	}
	if o.Params.Type == "" {
		return nil, errors.New("-t is required")
	}

	var err error
	if include != "" {
		if o.Include, err = regexp.Compile(include); err != nil {
			return nil, fmt.Errorf("invalid -i: %w", err)
		}
	}
	if exclude != "" {
		if o.ExcludeColumns, err = regexp.Compile(exclude); err != nil {
			return nil, fmt.Errorf("invalid -x: %w", err)
		}
	}
	return &o, nil
}
