package report

import (
	"errors"
	"fmt"
	"strconv"

	"spyreport/pkg/config"
)

var ErrDatabaseType = errors.New("failed to infer database type")

// TypeResolver infers a database type from a JDBC URL.
type TypeResolver interface {
	ExtractDatabaseType(url string) (string, error)
}

type argKind int

const (
	// valueArg emits flag=value when the value is present.
	valueArg argKind = iota
	// switchArg emits the bare flag when the value is present and true.
	switchArg
	// boolValueArg emits flag=true|false when the value is present.
	boolValueArg
)

type argRule struct {
	flag  string
	kind  argKind
	str   func(in *argInput) *string
	value func(in *argInput) *bool
}

// argInput is the configuration after derived values have been filled in.
type argInput struct {
	cfg                 config.Config
	outputDir           string
	databaseType        *string
	useCurrentClasspath *bool
}

// argRules lists every option in the order its token is emitted.
var argRules = []argRule{
	{flag: "-cp", kind: valueArg, str: func(in *argInput) *string { return in.cfg.PathToDrivers }},
	{flag: "-db", kind: valueArg, str: func(in *argInput) *string { return in.cfg.Database }},
	{flag: "-host", kind: valueArg, str: func(in *argInput) *string { return in.cfg.Host }},
	{flag: "-port", kind: valueArg, str: func(in *argInput) *string { return in.cfg.Port }},
	{flag: "-t", kind: valueArg, str: func(in *argInput) *string { return in.databaseType }},
	{flag: "-u", kind: valueArg, str: func(in *argInput) *string { return in.cfg.User }},
	{flag: "-p", kind: valueArg, str: func(in *argInput) *string { return in.cfg.Password }},
	{flag: "-s", kind: valueArg, str: func(in *argInput) *string { return in.cfg.Schema }},
	{flag: "-o", kind: valueArg, str: func(in *argInput) *string { return &in.outputDir }},
	{flag: "-desc", kind: valueArg, str: func(in *argInput) *string { return in.cfg.SchemaDescription }},
	{flag: "-i", kind: valueArg, str: func(in *argInput) *string { return in.cfg.IncludeTableNamesRegex }},
	{flag: "-x", kind: valueArg, str: func(in *argInput) *string { return in.cfg.ExcludeColumnNamesRegex }},
	{flag: "-jdbcUrl", kind: valueArg, str: func(in *argInput) *string { return in.cfg.JDBCURL }},
	{flag: "-ahic", kind: switchArg, value: func(in *argInput) *bool { return in.cfg.AllowHTMLInComments }},
	{flag: "-cid", kind: switchArg, value: func(in *argInput) *bool { return in.cfg.CommentsInitiallyDisplayed }},
	{flag: "-notablecomments", kind: switchArg, value: func(in *argInput) *bool { return in.cfg.NoTableComments }},
	{flag: "-noimplied", kind: switchArg, value: func(in *argInput) *bool { return in.cfg.NoImplied }},
	{flag: "-nohtml", kind: switchArg, value: func(in *argInput) *bool { return in.cfg.NoHTML }},
	{flag: "-useDriverManager", kind: boolValueArg, value: func(in *argInput) *bool { return in.cfg.UseDriverManager }},
	{flag: "-useCurrentClasspath", kind: boolValueArg, value: func(in *argInput) *bool { return in.useCurrentClasspath }},
	{flag: "-css", kind: valueArg, str: func(in *argInput) *string { return in.cfg.CSSStylesheet }},
}

func (r argRule) token(in *argInput) (string, bool) {
	switch r.kind {
	case valueArg:
		if v := r.str(in); v != nil {
			return r.flag + "=" + *v, true
		}
	case switchArg:
		if v := r.value(in); v != nil && *v {
			return r.flag, true
		}
	case boolValueArg:
		if v := r.value(in); v != nil {
			return r.flag + "=" + strconv.FormatBool(*v), true
		}
	}
	return "", false
}

// AssembleArguments maps cfg onto SchemaSpy command-line tokens. When a JDBC
// URL is given without a database type, types is asked to infer one.
func AssembleArguments(cfg config.Config, outputDir string, types TypeResolver) ([]string, error) {
	in := &argInput{
		cfg:          cfg,
		outputDir:    outputDir,
		databaseType: cfg.DatabaseType,
	}
	// A driver path replaces the current classpath; -cp is emitted instead.
	if cfg.PathToDrivers == nil {
		in.useCurrentClasspath = config.Bool(true)
	}

	if cfg.JDBCURL != nil && cfg.DatabaseType == nil {
		if types == nil {
			return nil, fmt.Errorf("%w: no resolver configured", ErrDatabaseType)
		}
		dbType, err := types.ExtractDatabaseType(*cfg.JDBCURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDatabaseType, err)
		}
		in.databaseType = &dbType
	}

	args := make([]string, 0, len(argRules))
	for _, rule := range argRules {
		if tok, ok := rule.token(in); ok {
			args = append(args, tok)
		}
	}
	return args, nil
}
