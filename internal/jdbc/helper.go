package jdbc

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedURL = errors.New("malformed JDBC URL")

// subprotocols maps a JDBC sub-protocol to the database type name used by
// SchemaSpy's -t option. Longer prefixes are listed before shorter ones
// sharing the same start.
var subprotocols = []struct {
	prefix string
	dbType string
}{
	{"jtds:sqlserver", "mssql"},
	{"jtds:sybase", "sybase"},
	{"sqlserver", "mssql"},
	{"microsoft:sqlserver", "mssql"},
	{"postgresql", "pgsql"},
	{"mysql", "mysql"},
	{"mariadb", "mysql"},
	{"oracle", "ora"},
	{"db2", "db2"},
	{"derby", "derby"},
	{"hsqldb", "hsqldb"},
	{"sqlite", "sqlite"},
	{"h2", "h2"},
	{"informix-sqli", "informix"},
	{"sybase", "sybase"},
	{"firebirdsql", "firebird"},
}

// Helper infers database types from JDBC URLs.
type Helper struct{}

// ExtractDatabaseType returns the SchemaSpy database type for a URL of the
// form jdbc:<subprotocol>:<rest>. An unknown sub-protocol is returned as is.
func (Helper) ExtractDatabaseType(url string) (string, error) {
	return ExtractDatabaseType(url)
}

func ExtractDatabaseType(url string) (string, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(url), "jdbc:")
	if !ok {
		return "", fmt.Errorf("%w: %q does not start with jdbc:", ErrMalformedURL, url)
	}
	sub, _, ok := strings.Cut(rest, ":")
	if !ok || sub == "" {
		return "", fmt.Errorf("%w: %q has no sub-protocol", ErrMalformedURL, url)
	}

	lower := strings.ToLower(rest)
	for _, p := range subprotocols {
		if strings.HasPrefix(lower, p.prefix+":") {
			return p.dbType, nil
		}
	}
	return strings.ToLower(sub), nil
}
