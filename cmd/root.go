package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"spyreport/internal/builtin"
	"spyreport/internal/jdbc"
	"spyreport/internal/report"
	"spyreport/pkg/config"
)

func Execute() error {
	return NewRootCmd(viper.New()).Execute()
}

// NewRootCmd builds the CLI around v. Each flag is bound to the viper key
// config.Load reads, so flags, the config file and SPYREPORT_* variables are
// interchangeable.
func NewRootCmd(v *viper.Viper) *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "spyreport",
		Short: "Generate SchemaSpy database documentation",
		Long: `Collects connection and formatting options, translates them into
SchemaSpy arguments and runs the report generator. Reports are always written
to a "schemaspy" directory under the output directory.

Examples:
  spyreport --database orders --host db1 --database-type pgsql -u app -p secret
  spyreport --jdbc-url jdbc:mysql://db1:3306/orders --user root --output-dir build/docs
  spyreport --generator builtin --database-type sqlite --database ./orders.db --no-html`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile, cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, v)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.spyreport.yaml)")

	flags := rootCmd.Flags()
	flags.String("database", "", "Name of the database being analysed")
	flags.String("host", "", "Database host address")
	flags.String("port", "", "Database port")
	flags.String("jdbc-url", "", "Complete JDBC URL; overrides host and database")
	flags.StringP("database-type", "t", "", "SchemaSpy database type (inferred from --jdbc-url when omitted)")
	flags.StringP("user", "u", "", "Connect as this user")
	flags.StringP("password", "p", "", "Database password")
	flags.StringP("schema", "s", "", "Database schema (defaults to the user)")
	flags.String("path-to-drivers", "", "Look for JDBC drivers on this path instead of the classpath")
	flags.String("schema-description", "", "Description shown on summary pages")
	flags.StringP("include-table-names-regex", "i", "", "Only include matching tables and views")
	flags.StringP("exclude-column-names-regex", "x", "", "Exclude matching table.column from relationship analysis")
	flags.Bool("allow-html-in-comments", false, "Render HTML embedded in comments")
	flags.Bool("comments-initially-displayed", false, "Show column comments by default")
	flags.Bool("no-table-comments", false, "Hide table comments")
	flags.Bool("no-implied", false, "Leave out implied foreign keys")
	flags.Bool("no-html", false, "Only generate files needed for scripting")
	flags.Bool("use-driver-manager", false, "Connect through the JDBC DriverManager")
	flags.String("css-stylesheet", "", "Replacement stylesheet")
	flags.String("target-dir", "", "Build directory (default: target)")
	flags.StringP("output-dir", "o", "", "Directory the schemaspy report directory is created in (default: <target-dir>/site)")
	flags.String("generator", "jar", "Report generator: jar or builtin")
	flags.String("schemaspy-jar", "", "Path to the SchemaSpy jar (jar generator)")
	flags.String("java", "java", "Java executable (jar generator)")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")

	bindings := map[string]string{
		"database":                     "database",
		"host":                         "host",
		"port":                         "port",
		"jdbc_url":                     "jdbc-url",
		"database_type":                "database-type",
		"user":                         "user",
		"password":                     "password",
		"schema":                       "schema",
		"path_to_drivers":              "path-to-drivers",
		"schema_description":           "schema-description",
		"include_table_names_regex":    "include-table-names-regex",
		"exclude_column_names_regex":   "exclude-column-names-regex",
		"allow_html_in_comments":       "allow-html-in-comments",
		"comments_initially_displayed": "comments-initially-displayed",
		"no_table_comments":            "no-table-comments",
		"no_implied":                   "no-implied",
		"no_html":                      "no-html",
		"use_driver_manager":           "use-driver-manager",
		"css_stylesheet":               "css-stylesheet",
		"target_directory":             "target-dir",
		"output_directory":             "output-dir",
		"generator.kind":               "generator",
		"generator.jar":                "schemaspy-jar",
		"generator.java":               "java",
		"log_level":                    "log-level",
	}
	for key, name := range bindings {
		cobra.CheckErr(v.BindPFlag(key, flags.Lookup(name)))
	}

	return rootCmd
}

func initConfig(v *viper.Viper, cfgFile string, stderr io.Writer) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		v.AddConfigPath(home)
		v.SetConfigType("yaml")
		v.SetConfigName(".spyreport")
	}

	v.SetEnvPrefix("SPYREPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err == nil {
		fmt.Fprintln(stderr, "Using config file:", v.ConfigFileUsed())
	} else if cfgFile != "" {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

func newLogger(level string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	return logger, nil
}

func runReport(cmd *cobra.Command, v *viper.Viper) error {
	logger, err := newLogger(v.GetString("log_level"), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	cfg := config.Load(v)
	genCfg := config.LoadGenerator(v)

	var gen report.Generator
	switch genCfg.Kind {
	case "jar":
		gen = &report.JarGenerator{Java: genCfg.Java, Jar: genCfg.Jar, Logger: logger}
	case "builtin":
		gen = builtin.New(afero.NewOsFs(), logger)
	default:
		return fmt.Errorf("invalid generator '%s'. Valid generators: jar, builtin", genCfg.Kind)
	}

	r := report.New(gen, jdbc.Helper{}, report.WithLogger(logger))
	res, err := r.Execute(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s generated: %s\n", r.Description(), res.OutputDirectory)
	fmt.Fprintf(out, "Entry page: %s\n", filepath.Join(filepath.Dir(res.OutputDirectory), r.OutputName()+".html"))
	fmt.Fprintf(out, "Arguments: %d\n", len(res.Arguments))

	return nil
}
