package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/sirupsen/logrus"
)

var ErrGeneratorFailed = errors.New("report generation failed")

// Generator produces the report from a SchemaSpy argument vector. It owns all
// database access and rendering; the caller only sees success or failure.
type Generator interface {
	Run(ctx context.Context, args []string) error
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, args []string) error

func (f GeneratorFunc) Run(ctx context.Context, args []string) error { return f(ctx, args) }

// JarGenerator runs the SchemaSpy jar in a child JVM.
type JarGenerator struct {
	Java   string
	Jar    string
	Logger logrus.FieldLogger
}

func (g *JarGenerator) Run(ctx context.Context, args []string) error {
	if g.Jar == "" {
		return errors.New("schemaspy jar path is not configured")
	}
	java := g.Java
	if java == "" {
		java = "java"
	}
	if _, err := exec.LookPath(java); err != nil {
		return fmt.Errorf("java executable %q not found: %w", java, err)
	}

	cmdArgs := append([]string{"-jar", g.Jar}, args...)
	cmd := exec.CommandContext(ctx, java, cmdArgs...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log := g.logger()
	log.WithField("jar", g.Jar).Debug("invoking schemaspy")
	err := cmd.Run()

	outStr := stdout.String()
	errStr := stderr.String()
	if outStr != "" {
		log.Debug(outStr)
	}
	if errStr != "" {
		log.Warn(errStr)
	}

	if err != nil {
		output := errStr
		if output == "" {
			output = outStr
		}
		if output != "" {
			return fmt.Errorf("schemaspy exited: %w: %s", err, output)
		}
		return fmt.Errorf("schemaspy exited: %w", err)
	}
	return nil
}

func (g *JarGenerator) logger() logrus.FieldLogger {
	if g.Logger != nil {
		return g.Logger
	}
	return logrus.StandardLogger()
}
