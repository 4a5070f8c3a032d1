package dbx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// Dialect names the SQL flavour behind a connection.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

var ErrEmptyDSN = errors.New("empty database url")

func init() {
	sqlx.BindDriver("pgx", sqlx.DOLLAR)
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Target is a parsed database URL.
type Target struct {
	Driver  string
	DSN     string
	Dialect Dialect
}

// ParseURL maps a DATABASE_URL to a driver and DSN.
//
// Accepted forms:
//
//	postgres://... or postgresql://...   pgx
//	sqlite:///relative.db                 sqlite, path "relative.db"
//	sqlite:////abs/path.db                sqlite, path "/abs/path.db"
//	sqlite:// or :memory:                 sqlite, in-memory
//	file:...                              sqlite, passed through
//	anything else                         sqlite, treated as a file path
func ParseURL(raw string) (Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Target{}, ErrEmptyDSN
	}

	lower := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return Target{Driver: "pgx", DSN: raw, Dialect: Postgres}, nil
	case lower == "sqlite://", lower == ":memory:":
		return Target{Driver: "sqlite", DSN: ":memory:", Dialect: SQLite}, nil
	case strings.HasPrefix(lower, "sqlite:///"):
		path := raw[len("sqlite:///"):]
		if path == "" {
			return Target{}, fmt.Errorf("sqlite url %q has no path", raw)
		}
		return Target{Driver: "sqlite", DSN: withPragmas(path), Dialect: SQLite}, nil
	case strings.HasPrefix(lower, "sqlite:"):
		return Target{}, fmt.Errorf("unsupported sqlite url %q", raw)
	default:
		return Target{Driver: "sqlite", DSN: withPragmas(raw), Dialect: SQLite}, nil
	}
}

func withPragmas(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + sqlitePragmas
	}
	return dsn + "?" + sqlitePragmas
}

// Open parses rawURL, opens the pool and pings it.
func Open(rawURL string) (*sqlx.DB, Dialect, error) {
	target, err := ParseURL(rawURL)
	if err != nil {
		return nil, "", err
	}

	db, err := sqlx.Open(target.Driver, target.DSN)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", target.Dialect, err)
	}

	if target.Dialect == SQLite {
		// one writer at a time; in-memory databases also need a single connection
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("ping %s: %w", target.Dialect, err)
	}

	return db, target.Dialect, nil
}
