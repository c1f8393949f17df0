package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"spyreport/internal/schema"
)

var ErrUnsupportedType = errors.New("unsupported database type")

// Params are the connection settings carried by the report arguments.
type Params struct {
	Type     string
	Host     string
	Port     string
	Database string
	User     string
	Password string
	JDBCURL  string
}

// Filter narrows what is extracted. Include matches table and view names;
// ExcludeColumns matches "table.column" and drops the column from
// relationship analysis.
type Filter struct {
	Schema         string
	Include        *regexp.Regexp
	ExcludeColumns *regexp.Regexp
}

func (f Filter) includes(name string) bool {
	return f.Include == nil || f.Include.MatchString(name)
}

func (f Filter) keepsRelationship(fk schema.ForeignKey) bool {
	if !f.includes(fk.Table) || !f.includes(fk.ReferencedTable) {
		return false
	}
	if f.ExcludeColumns == nil {
		return true
	}
	return !f.ExcludeColumns.MatchString(fk.Table+"."+fk.Column) &&
		!f.ExcludeColumns.MatchString(fk.ReferencedTable+"."+fk.ReferencedColumn)
}

type Connector struct {
	db     *sql.DB
	driver string
	params Params
}

type SchemaExtractor interface {
	ExtractSchema(ctx context.Context, f Filter) (*schema.Schema, error)
}

func NewConnector(ctx context.Context, p Params) (*Connector, error) {
	driver, dsn, err := DataSource(p)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Connector{
		db:     db,
		driver: driver,
		params: p,
	}, nil
}

func (c *Connector) Close() error {
	return c.db.Close()
}

func (c *Connector) ExtractSchema(ctx context.Context, f Filter) (*schema.Schema, error) {
	var extractor SchemaExtractor

	switch c.driver {
	case "postgres":
		if f.Schema == "" {
			f.Schema = "public"
		}
		extractor = &PostgreSQLExtractor{db: c.db}
	case "mysql":
		if f.Schema == "" {
			f.Schema = c.params.Database
		}
		extractor = &MySQLExtractor{db: c.db}
	case "sqlite3":
		f.Schema = "main"
		extractor = &SQLiteExtractor{db: c.db}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, c.driver)
	}

	s, err := extractor.ExtractSchema(ctx, f)
	if err != nil {
		return nil, err
	}
	s.Database = c.params.Database
	s.Type = c.params.Type
	s.Name = f.Schema
	return s, nil
}

// DataSource picks the Go driver for a SchemaSpy database type and builds its
// DSN, preferring the JDBC URL when one is given.
func DataSource(p Params) (driver, dsn string, err error) {
	switch strings.ToLower(p.Type) {
	case "pgsql", "pgsql11", "postgresql", "postgres":
		dsn, err = postgresDSN(p)
		return "postgres", dsn, err
	case "mysql", "mariadb":
		dsn, err = mysqlDSN(p)
		return "mysql", dsn, err
	case "sqlite", "sqlite3":
		dsn = p.Database
		if p.JDBCURL != "" {
			dsn = strings.TrimPrefix(p.JDBCURL, "jdbc:sqlite:")
		}
		if dsn == "" {
			return "", "", errors.New("sqlite requires a database file")
		}
		return "sqlite3", dsn, nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedType, p.Type)
	}
}

func postgresDSN(p Params) (string, error) {
	u := &url.URL{Scheme: "postgres", Host: hostPort(p.Host, p.Port), Path: "/" + p.Database}
	if p.JDBCURL != "" {
		parsed, err := url.Parse(strings.TrimPrefix(p.JDBCURL, "jdbc:"))
		if err != nil {
			return "", fmt.Errorf("failed to parse JDBC URL: %w", err)
		}
		u = parsed
		u.Scheme = "postgres"
	}
	if p.User != "" {
		u.User = url.UserPassword(p.User, p.Password)
	}
	q := u.Query()
	if q.Get("sslmode") == "" {
		q.Set("sslmode", "disable")
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func mysqlDSN(p Params) (string, error) {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = hostPort(p.Host, p.Port)
	cfg.DBName = p.Database
	if p.JDBCURL != "" {
		u, err := url.Parse(strings.TrimPrefix(p.JDBCURL, "jdbc:"))
		if err != nil {
			return "", fmt.Errorf("failed to parse JDBC URL: %w", err)
		}
		cfg.Addr = u.Host
		cfg.DBName = strings.TrimPrefix(u.Path, "/")
	}
	cfg.User = p.User
	cfg.Passwd = p.Password
	return cfg.FormatDSN(), nil
}

func hostPort(host, port string) string {
	if host == "" {
		host = "localhost"
	}
	if port == "" {
		return host
	}
	return net.JoinHostPort(host, port)
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if strings.EqualFold(s, item) {
			return true
		}
	}
	return false
}
