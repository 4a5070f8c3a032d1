// Package repomanager vends dialect-aware repositories and runs schema
// migrations for the configured database.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/auditoria/internal/dbx"
	"github.com/dmitrijs2005/auditoria/internal/server/migrations"
	"github.com/dmitrijs2005/auditoria/internal/server/repositories/audits"
	"github.com/dmitrijs2005/auditoria/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Audits(db dbx.DBTX) audits.Repository
}

// migrateUp is a seam for testing migrations.Up.
var migrateUp = migrations.Up

// SQLRepositoryManager serves both SQLite and PostgreSQL; the repositories
// rebind placeholders per connection, so only migrations depend on dialect.
type SQLRepositoryManager struct {
	dialect dbx.Dialect
}

func NewSQLRepositoryManager(dialect dbx.Dialect) *SQLRepositoryManager {
	return &SQLRepositoryManager{dialect: dialect}
}

func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Audits(db dbx.DBTX) audits.Repository {
	return audits.NewSQLRepository(db)
}

// RunMigrations applies the embedded migrations for the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	if _, err := migrateUp(ctx, db, m.dialect); err != nil {
		return err
	}
	return nil
}
