package cmd

import (
	"bytes"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spyreport/internal/report"
	"spyreport/pkg/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(viper.New())
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), err
}

func TestFlagsOnlySetWhenGiven(t *testing.T) {
	v := viper.New()
	root := NewRootCmd(v)
	require.NoError(t, root.ParseFlags([]string{"--database", "orders", "-t", "mssql", "--no-html", "--host="}))

	cfg := config.Load(v)
	assert.Equal(t, "orders", *cfg.Database)
	assert.Equal(t, "mssql", *cfg.DatabaseType)
	assert.Equal(t, "", *cfg.Host)
	assert.True(t, *cfg.NoHTML)
	assert.Nil(t, cfg.User)
	assert.Nil(t, cfg.Password)
	assert.Nil(t, cfg.Schema)
	assert.Nil(t, cfg.OutputDirectory)
	assert.Nil(t, cfg.AllowHTMLInComments)

	gen := config.LoadGenerator(v)
	assert.Equal(t, "jar", gen.Kind)
	assert.Equal(t, "java", gen.Java)
}

func TestEnvironmentAndConfigFile(t *testing.T) {
	t.Setenv("SPYREPORT_HOST", "db-from-env")

	cfgPath := filepath.Join(t.TempDir(), "spyreport.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("database: orders\nno_implied: true\n"), 0644))

	v := viper.New()
	require.NoError(t, initConfig(v, cfgPath, io.Discard))

	cfg := config.Load(v)
	require.NotNil(t, cfg.Host)
	assert.Equal(t, "db-from-env", *cfg.Host)
	assert.Equal(t, "orders", *cfg.Database)
	assert.True(t, *cfg.NoImplied)
	assert.Nil(t, cfg.Port)
}

func TestMissingConfigFile(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestInvalidGenerator(t *testing.T) {
	_, err := execute(t, "--generator", "python", "--output-dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid generator")
}

func TestJarGeneratorWithoutJar(t *testing.T) {
	_, err := execute(t, "--database", "orders", "-t", "pgsql", "--output-dir", t.TempDir(), "--target-dir", t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, report.ErrGeneratorFailed)
}

func TestBuiltinGenerator_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "shop.db")
	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE customers (id INTEGER PRIMARY KEY, name TEXT)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	outDir := filepath.Join(dir, "docs")
	stdout, err := execute(t,
		"--generator", "builtin",
		"-t", "sqlite",
		"--database", dbPath,
		"--target-dir", filepath.Join(dir, "build"),
		"--output-dir", outDir,
		"--log-level", "warn",
	)
	require.NoError(t, err)

	reportDir := filepath.Join(outDir, "schemaspy")
	assert.Contains(t, stdout, "SchemaSpy database documentation generated: "+reportDir)
	assert.Contains(t, stdout, "Entry page: "+filepath.Join(outDir, "schemaspy", "index.html"))
	assert.FileExists(t, filepath.Join(reportDir, "index.html"))
	assert.FileExists(t, filepath.Join(reportDir, "schema.md"))
	assert.DirExists(t, filepath.Join(dir, "build", "site"))
}
