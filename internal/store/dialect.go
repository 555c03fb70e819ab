package store

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"regexp"
	"strings"

	"modernc.org/sqlite"
)

func init() {
	// casefold lowers every Unicode letter; SQLite's built-in lower() and LIKE fold ASCII only.
	sqlite.MustRegisterDeterministicScalarFunction("casefold", 1, func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		switch v := args[0].(type) {
		case string:
			return strings.ToLower(v), nil
		case []byte:
			return strings.ToLower(string(v)), nil
		default:
			return v, nil
		}
	})
}

// Dialect selects the SQL flavour spoken by the underlying database.
type Dialect int

const (
	// Postgres is the default server database (pgx driver).
	Postgres Dialect = iota
	// SQLite is the embedded single-file database (modernc.org/sqlite driver).
	SQLite
)

// ParseDialect maps a configured driver name onto a Dialect.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return 0, fmt.Errorf("unsupported database driver %q", name)
	}
}

func (d Dialect) String() string {
	if d == SQLite {
		return "sqlite"
	}
	return "postgres"
}

// DriverName is the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == SQLite {
		return "sqlite"
	}
	return "pgx"
}

var placeholderPattern = regexp.MustCompile(`\$(\d+)`)

// rebind converts $N placeholders into SQLite's numbered ?N form.
func (d Dialect) rebind(query string) string {
	if d != SQLite {
		return query
	}
	return placeholderPattern.ReplaceAllString(query, "?$1")
}

// like renders a case-insensitive LIKE predicate with backslash escaping.
func (d Dialect) like(column, placeholder string) string {
	if d == SQLite {
		return fmt.Sprintf(`casefold(%s) LIKE casefold(%s) ESCAPE '\'`, column, placeholder)
	}
	return fmt.Sprintf(`%s ILIKE %s ESCAPE '\'`, column, placeholder)
}

// snapshotOptions configures read transactions so that every statement sees
// the same committed data. SQLite transactions already read from one snapshot.
func (d Dialect) snapshotOptions() *sql.TxOptions {
	if d == SQLite {
		return nil
	}
	return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a substring LIKE pattern matching term literally.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
