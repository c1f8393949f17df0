package report

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spyreport/pkg/config"
)

func TestResolveOutputDirectory_Defaults(t *testing.T) {
	fs := afero.NewMemMapFs()

	dir, err := ResolveOutputDirectory(fs, nil, nil)
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(dir))
	assert.True(t, hasSuffix(dir, filepath.Join("target", "site", "schemaspy")), dir)
	for _, d := range []string{"target", filepath.Join("target", "site"), filepath.Join("target", "site", "schemaspy")} {
		ok, err := afero.DirExists(fs, d)
		require.NoError(t, err)
		assert.True(t, ok, d)
	}
}

func TestResolveOutputDirectory_TargetOnly(t *testing.T) {
	fs := afero.NewMemMapFs()
	target := filepath.Join(t.TempDir(), "build")

	dir, err := ResolveOutputDirectory(fs, config.String(target), nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(target, "site", "schemaspy"), dir)
}

func TestResolveOutputDirectory_ExplicitOutput(t *testing.T) {
	fs := afero.NewMemMapFs()
	root := t.TempDir()
	out := filepath.Join(root, "docs")

	dir, err := ResolveOutputDirectory(fs, config.String(filepath.Join(root, "build")), config.String(out))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "schemaspy"), dir)

	ok, _ := afero.DirExists(fs, filepath.Join(root, "build", "site"))
	assert.True(t, ok, "site directory is created even with an explicit output")
	ok, _ = afero.DirExists(fs, dir)
	assert.True(t, ok)
}

func TestResolveOutputDirectory_Idempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	out := filepath.Join(t.TempDir(), "docs")

	first, err := ResolveOutputDirectory(fs, nil, config.String(out))
	require.NoError(t, err)
	second, err := ResolveOutputDirectory(fs, nil, config.String(out))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveOutputDirectory_CreateFailure(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())

	_, err := ResolveOutputDirectory(fs, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCreateDirectory)
}

func hasSuffix(path, suffix string) bool {
	return len(path) >= len(suffix) && path[len(path)-len(suffix):] == suffix
}
