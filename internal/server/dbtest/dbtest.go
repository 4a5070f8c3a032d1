// Package dbtest opens migrated throwaway databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/auditoria/internal/dbx"
	"github.com/dmitrijs2005/auditoria/internal/server/migrations"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// NewSQLite returns a migrated SQLite database in t.TempDir, closed on cleanup.
func NewSQLite(t testing.TB) *sqlx.DB {
	t.Helper()

	db, dialect, err := dbx.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = migrations.Up(context.Background(), db.DB, dialect)
	require.NoError(t, err)

	return db
}
