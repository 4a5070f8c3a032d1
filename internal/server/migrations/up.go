package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/auditoria/internal/dbx"
	"github.com/pressly/goose/v3"
)

// Up applies every pending migration for dialect and returns how many ran.
func Up(ctx context.Context, db *sql.DB, dialect dbx.Dialect) (int, error) {
	var (
		gd   goose.Dialect
		fsys fs.FS
	)
	switch dialect {
	case dbx.SQLite:
		gd, fsys = goose.DialectSQLite3, SQLite()
	case dbx.Postgres:
		gd, fsys = goose.DialectPostgres, Postgres()
	default:
		return 0, fmt.Errorf("migrations: unsupported dialect %q", dialect)
	}

	provider, err := goose.NewProvider(gd, db, fsys)
	if err != nil {
		return 0, fmt.Errorf("migrations: new provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return len(results), fmt.Errorf("migrations: up: %w", err)
	}
	return len(results), nil
}
