package report

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spyreport/internal/jdbc"
	"spyreport/pkg/config"
)

const testOutDir = "/work/target/site/schemaspy"

type stubTypes struct {
	dbType string
	err    error
	calls  int
}

func (s *stubTypes) ExtractDatabaseType(string) (string, error) {
	s.calls++
	return s.dbType, s.err
}

func count(args []string, prefix string) int {
	n := 0
	for _, a := range args {
		if a == prefix || len(a) > len(prefix) && a[:len(prefix)+1] == prefix+"=" {
			n++
		}
	}
	return n
}

func TestAssembleArguments_StringOptions(t *testing.T) {
	cases := []struct {
		flag string
		set  func(*config.Config, *string)
	}{
		{"-db", func(c *config.Config, v *string) { c.Database = v }},
		{"-host", func(c *config.Config, v *string) { c.Host = v }},
		{"-port", func(c *config.Config, v *string) { c.Port = v }},
		{"-t", func(c *config.Config, v *string) { c.DatabaseType = v }},
		{"-u", func(c *config.Config, v *string) { c.User = v }},
		{"-p", func(c *config.Config, v *string) { c.Password = v }},
		{"-s", func(c *config.Config, v *string) { c.Schema = v }},
		{"-desc", func(c *config.Config, v *string) { c.SchemaDescription = v }},
		{"-i", func(c *config.Config, v *string) { c.IncludeTableNamesRegex = v }},
		{"-x", func(c *config.Config, v *string) { c.ExcludeColumnNamesRegex = v }},
		{"-css", func(c *config.Config, v *string) { c.CSSStylesheet = v }},
	}
	for _, tc := range cases {
		t.Run(tc.flag, func(t *testing.T) {
			var present config.Config
			tc.set(&present, config.String("value with = sign"))
			args, err := AssembleArguments(present, testOutDir, nil)
			require.NoError(t, err)
			assert.Contains(t, args, tc.flag+"=value with = sign")
			assert.Equal(t, 1, count(args, tc.flag))

			args, err = AssembleArguments(config.Config{}, testOutDir, nil)
			require.NoError(t, err)
			assert.Equal(t, 0, count(args, tc.flag))
		})
	}
}

func TestAssembleArguments_SwitchOptions(t *testing.T) {
	cases := []struct {
		flag string
		set  func(*config.Config, *bool)
	}{
		{"-ahic", func(c *config.Config, v *bool) { c.AllowHTMLInComments = v }},
		{"-cid", func(c *config.Config, v *bool) { c.CommentsInitiallyDisplayed = v }},
		{"-notablecomments", func(c *config.Config, v *bool) { c.NoTableComments = v }},
		{"-noimplied", func(c *config.Config, v *bool) { c.NoImplied = v }},
		{"-nohtml", func(c *config.Config, v *bool) { c.NoHTML = v }},
	}
	for _, tc := range cases {
		t.Run(tc.flag, func(t *testing.T) {
			for _, v := range []*bool{nil, config.Bool(false), config.Bool(true)} {
				var cfg config.Config
				tc.set(&cfg, v)
				args, err := AssembleArguments(cfg, testOutDir, nil)
				require.NoError(t, err)

				want := 0
				if v != nil && *v {
					want = 1
					assert.Contains(t, args, tc.flag)
				}
				assert.Equal(t, want, count(args, tc.flag))
			}
		})
	}
}

func TestAssembleArguments_UseDriverManager(t *testing.T) {
	args, err := AssembleArguments(config.Config{}, testOutDir, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count(args, "-useDriverManager"))

	args, err = AssembleArguments(config.Config{UseDriverManager: config.Bool(false)}, testOutDir, nil)
	require.NoError(t, err)
	assert.Contains(t, args, "-useDriverManager=false")

	args, err = AssembleArguments(config.Config{UseDriverManager: config.Bool(true)}, testOutDir, nil)
	require.NoError(t, err)
	assert.Contains(t, args, "-useDriverManager=true")
}

func TestAssembleArguments_Classpath(t *testing.T) {
	args, err := AssembleArguments(config.Config{}, testOutDir, nil)
	require.NoError(t, err)
	assert.Contains(t, args, "-useCurrentClasspath=true")
	assert.Equal(t, 0, count(args, "-cp"))

	args, err = AssembleArguments(config.Config{PathToDrivers: config.String("/opt/drivers/ojdbc.jar")}, testOutDir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"-cp=/opt/drivers/ojdbc.jar", "-o=" + testOutDir}, args)
	assert.Equal(t, 0, count(args, "-useCurrentClasspath"))
}

func TestAssembleArguments_OutputAlwaysPresent(t *testing.T) {
	args, err := AssembleArguments(config.Config{}, testOutDir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"-o=" + testOutDir, "-useCurrentClasspath=true"}, args)
}

func TestAssembleArguments_InfersTypeFromJDBCURL(t *testing.T) {
	cfg := config.Config{JDBCURL: config.String("jdbc:mysql://db1:3306/orders")}

	args, err := AssembleArguments(cfg, testOutDir, jdbc.Helper{})
	require.NoError(t, err)
	assert.Contains(t, args, "-t=mysql")
	assert.Contains(t, args, "-jdbcUrl=jdbc:mysql://db1:3306/orders")
	assert.Nil(t, cfg.DatabaseType, "configuration is not written back")
}

func TestAssembleArguments_ExplicitTypeWins(t *testing.T) {
	types := &stubTypes{dbType: "mysql"}
	cfg := config.Config{
		JDBCURL:      config.String("jdbc:mysql://db1/orders"),
		DatabaseType: config.String("mariadb"),
	}

	args, err := AssembleArguments(cfg, testOutDir, types)
	require.NoError(t, err)
	assert.Contains(t, args, "-t=mariadb")
	assert.Zero(t, types.calls)
}

func TestAssembleArguments_InferenceFailure(t *testing.T) {
	types := &stubTypes{err: errors.New("boom")}
	cfg := config.Config{JDBCURL: config.String("not-a-url")}

	_, err := AssembleArguments(cfg, testOutDir, types)
	assert.ErrorIs(t, err, ErrDatabaseType)

	_, err = AssembleArguments(cfg, testOutDir, jdbc.Helper{})
	assert.ErrorIs(t, err, ErrDatabaseType)
	assert.ErrorIs(t, err, jdbc.ErrMalformedURL)
}

func TestAssembleArguments_Order(t *testing.T) {
	cfg := config.Config{
		PathToDrivers:    config.String("/drivers"),
		Database:         config.String("orders"),
		Host:             config.String("db1"),
		Port:             config.String("1433"),
		DatabaseType:     config.String("mssql"),
		User:             config.String("sa"),
		Password:         config.String("secret"),
		Schema:           config.String("dbo"),
		JDBCURL:          config.String("jdbc:sqlserver://db1"),
		NoHTML:           config.Bool(true),
		NoImplied:        config.Bool(true),
		UseDriverManager: config.Bool(true),
		CSSStylesheet:    config.String("site.css"),
	}

	args, err := AssembleArguments(cfg, testOutDir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"-cp=/drivers",
		"-db=orders",
		"-host=db1",
		"-port=1433",
		"-t=mssql",
		"-u=sa",
		"-p=secret",
		"-s=dbo",
		"-o=" + testOutDir,
		"-jdbcUrl=jdbc:sqlserver://db1",
		"-noimplied",
		"-nohtml",
		"-useDriverManager=true",
		"-css=site.css",
	}, args)
}
