package report

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"spyreport/pkg/config"
)

// Report generates SchemaSpy database documentation for one configuration.
type Report struct {
	fs        afero.Fs
	generator Generator
	types     TypeResolver
	log       logrus.FieldLogger
}

// Result describes a finished run.
type Result struct {
	OutputDirectory string
	Arguments       []string
}

type Option func(*Report)

// WithFs replaces the filesystem used for directory setup.
func WithFs(fs afero.Fs) Option {
	return func(r *Report) { r.fs = fs }
}

// WithLogger sets the logger tokens are reported to.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Report) { r.log = log }
}

func New(g Generator, types TypeResolver, opts ...Option) *Report {
	r := &Report{
		fs:        afero.NewOsFs(),
		generator: g,
		types:     types,
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Execute prepares the output directory, assembles the argument vector and
// hands it to the generator. Nothing is delegated if setup fails.
func (r *Report) Execute(ctx context.Context, cfg config.Config) (*Result, error) {
	log := r.log.WithField("run_id", uuid.NewString())

	outDir, err := ResolveOutputDirectory(r.fs, cfg.TargetDirectory, cfg.OutputDirectory)
	if err != nil {
		return nil, err
	}

	args, err := AssembleArguments(cfg, outDir, r.types)
	if err != nil {
		return nil, err
	}

	for _, arg := range args {
		log.Info(maskSecrets(arg))
	}

	if err := r.generator.Run(ctx, args); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneratorFailed, err)
	}

	log.WithField("output", outDir).Info("schemaspy report generated")
	return &Result{OutputDirectory: outDir, Arguments: args}, nil
}

const mask = "********"

var (
	jdbcPasswordParam = regexp.MustCompile(`(?i)([?&;]password=)[^&;]*`)
	jdbcUserInfo      = regexp.MustCompile(`(//[^/:@]*:)[^/@]*@`)
)

// maskSecrets hides credentials in a token before it is logged: the -p=
// value, and the password query parameter or user:pass@ userinfo of a JDBC URL.
func maskSecrets(arg string) string {
	switch {
	case strings.HasPrefix(arg, "-p="):
		return "-p=" + mask
	case strings.HasPrefix(arg, "-jdbcUrl="):
		arg = jdbcPasswordParam.ReplaceAllString(arg, "${1}"+mask)
		return jdbcUserInfo.ReplaceAllString(arg, "${1}"+mask+"@")
	}
	return arg
}

func (r *Report) Name() string { return "SchemaSpy" }

func (r *Report) Description() string { return "SchemaSpy database documentation" }

// OutputName is the report entry page relative to the site root.
func (r *Report) OutputName() string { return reportDirectory + "/index" }

// IsExternalReport is always true: the pages come from the generator, not
// from an in-process document model.
func (r *Report) IsExternalReport() bool { return true }
