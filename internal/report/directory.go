package report

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	defaultTargetDirectory = "target"
	siteDirectory          = "site"
	reportDirectory        = "schemaspy"
)

var ErrCreateDirectory = errors.New("failed to create directory")

// ResolveOutputDirectory returns the absolute directory the report is written
// to, creating it and its parents on fs. The result always ends in
// "schemaspy": under output when given, otherwise under <target>/site.
func ResolveOutputDirectory(fs afero.Fs, target, output *string) (string, error) {
	targetDir := defaultTargetDirectory
	if target != nil {
		targetDir = *target
	}

	siteDir := filepath.Join(targetDir, siteDirectory)
	for _, dir := range []string{targetDir, siteDir} {
		if err := mkdirAll(fs, dir); err != nil {
			return "", err
		}
	}

	outDir := filepath.Join(siteDir, reportDirectory)
	if output != nil {
		outDir = filepath.Join(*output, reportDirectory)
	}
	if err := mkdirAll(fs, outDir); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(outDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", outDir, err)
	}
	return abs, nil
}

func mkdirAll(fs afero.Fs, dir string) error {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w %s: %v", ErrCreateDirectory, dir, err)
	}
	return nil
}
