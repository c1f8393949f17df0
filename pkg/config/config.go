package config

import "github.com/spf13/viper"

// Config is the per-run option set. Nil pointers mean the option was not
// supplied, which is distinct from an empty string or false.
type Config struct {
	Database                   *string `mapstructure:"database"`
	Host                       *string `mapstructure:"host"`
	Port                       *string `mapstructure:"port"`
	JDBCURL                    *string `mapstructure:"jdbc_url"`
	DatabaseType               *string `mapstructure:"database_type"`
	User                       *string `mapstructure:"user"`
	Password                   *string `mapstructure:"password"`
	Schema                     *string `mapstructure:"schema"`
	PathToDrivers              *string `mapstructure:"path_to_drivers"`
	SchemaDescription          *string `mapstructure:"schema_description"`
	IncludeTableNamesRegex     *string `mapstructure:"include_table_names_regex"`
	ExcludeColumnNamesRegex    *string `mapstructure:"exclude_column_names_regex"`
	AllowHTMLInComments        *bool   `mapstructure:"allow_html_in_comments"`
	CommentsInitiallyDisplayed *bool   `mapstructure:"comments_initially_displayed"`
	NoTableComments            *bool   `mapstructure:"no_table_comments"`
	NoImplied                  *bool   `mapstructure:"no_implied"`
	NoHTML                     *bool   `mapstructure:"no_html"`
	UseDriverManager           *bool   `mapstructure:"use_driver_manager"`
	CSSStylesheet              *string `mapstructure:"css_stylesheet"`
	TargetDirectory            *string `mapstructure:"target_directory"`
	OutputDirectory            *string `mapstructure:"output_directory"`
}

// GeneratorConfig selects and configures the report generator backend.
type GeneratorConfig struct {
	Kind string `mapstructure:"kind"`
	Jar  string `mapstructure:"jar"`
	Java string `mapstructure:"java"`
}

// Load builds a Config from v, reading only keys that were explicitly set by
// a flag, the config file or the environment.
func Load(v *viper.Viper) Config {
	var cfg Config
	str := func(key string) *string {
		if !v.IsSet(key) {
			return nil
		}
		s := v.GetString(key)
		return &s
	}
	flag := func(key string) *bool {
		if !v.IsSet(key) {
			return nil
		}
		b := v.GetBool(key)
		return &b
	}

	cfg.Database = str("database")
	cfg.Host = str("host")
	cfg.Port = str("port")
	cfg.JDBCURL = str("jdbc_url")
	cfg.DatabaseType = str("database_type")
	cfg.User = str("user")
	cfg.Password = str("password")
	cfg.Schema = str("schema")
	cfg.PathToDrivers = str("path_to_drivers")
	cfg.SchemaDescription = str("schema_description")
	cfg.IncludeTableNamesRegex = str("include_table_names_regex")
	cfg.ExcludeColumnNamesRegex = str("exclude_column_names_regex")
	cfg.AllowHTMLInComments = flag("allow_html_in_comments")
	cfg.CommentsInitiallyDisplayed = flag("comments_initially_displayed")
	cfg.NoTableComments = flag("no_table_comments")
	cfg.NoImplied = flag("no_implied")
	cfg.NoHTML = flag("no_html")
	cfg.UseDriverManager = flag("use_driver_manager")
	cfg.CSSStylesheet = str("css_stylesheet")
	cfg.TargetDirectory = str("target_directory")
	cfg.OutputDirectory = str("output_directory")
	return cfg
}

// LoadGenerator reads the generator section.
func LoadGenerator(v *viper.Viper) GeneratorConfig {
	g := GeneratorConfig{
		Kind: v.GetString("generator.kind"),
		Jar:  v.GetString("generator.jar"),
		Java: v.GetString("generator.java"),
	}
	if g.Kind == "" {
		g.Kind = "jar"
	}
	if g.Java == "" {
		g.Java = "java"
	}
	return g
}

// String returns a pointer to s. Handy for building a Config in code.
func String(s string) *string { return &s }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }
