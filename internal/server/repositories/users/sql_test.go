package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/auditoria/internal/common"
	"github.com/dmitrijs2005/auditoria/internal/server/dbtest"
	"github.com/dmitrijs2005/auditoria/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*SQLRepository, *sqlx.DB) {
	t.Helper()
	db := dbtest.NewSQLite(t)
	return NewSQLRepository(db), db
}

func newRepoWithMock(t *testing.T, driver string) (*SQLRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLRepository(sqlx.NewDb(db, driver)), mock
}

func TestCreate_AssignsIDAndPersists(t *testing.T) {
	repo, db := newRepo(t)
	ctx := context.Background()

	u, err := repo.Create(ctx, &models.User{Username: "alice", PasswordHash: "h1"})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)

	var hash string
	require.NoError(t, db.Get(&hash, `SELECT senha FROM usuarios WHERE username = ?`, "alice"))
	assert.Equal(t, "h1", hash)
}

func TestCreate_DuplicateUsername(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.User{Username: "alice", PasswordHash: "h1"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.User{Username: "alice", PasswordHash: "h2"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestCreate_PostgresUniqueViolation(t *testing.T) {
	repo, mock := newRepoWithMock(t, "pgx")

	q := `(?s)^INSERT\s+INTO\s+usuarios\s*\(username,\s*senha\)\s*VALUES\s*\(\$1,\s*\$2\)\s*RETURNING\s+id\s*$`
	mock.ExpectQuery(q).
		WithArgs("alice", "h").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.User{Username: "alice", PasswordHash: "h"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t, "sqlite")

	mock.ExpectQuery(`INSERT\s+INTO\s+usuarios`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{Username: "alice", PasswordHash: "h"})
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
}

func TestCreateIfAbsent_OnlyFirstInsertWins(t *testing.T) {
	repo, db := newRepo(t)
	ctx := context.Background()

	created, err := repo.CreateIfAbsent(ctx, &models.User{Username: "admin", PasswordHash: "first"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateIfAbsent(ctx, &models.User{Username: "admin", PasswordHash: "second"})
	require.NoError(t, err)
	assert.False(t, created)

	var rows []models.User
	require.NoError(t, db.Select(&rows, `SELECT id, username, senha FROM usuarios WHERE username = 'admin'`))
	require.Len(t, rows, 1)
	assert.Equal(t, "first", rows[0].PasswordHash, "existing credential must not be replaced")
}

func TestCreateIfAbsent_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t, "sqlite")

	mock.ExpectExec(`INSERT\s+INTO\s+usuarios.*ON\s+CONFLICT`).
		WillReturnError(errors.New("locked"))

	_, err := repo.CreateIfAbsent(context.Background(), &models.User{Username: "admin", PasswordHash: "h"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}

func TestGetUserByLogin_Found(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.User{Username: "bob", PasswordHash: "hh"})
	require.NoError(t, err)

	got, err := repo.GetUserByLogin(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "bob", got.Username)
	assert.Equal(t, "hh", got.PasswordHash)
}

func TestGetUserByLogin_NotFound(t *testing.T) {
	repo, _ := newRepo(t)

	_, err := repo.GetUserByLogin(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetUserByLogin_PostgresPlaceholders(t *testing.T) {
	repo, mock := newRepoWithMock(t, "pgx")

	q := `(?s)^SELECT\s+id,\s*username,\s*senha\s+FROM\s+usuarios\s+WHERE\s+username\s*=\s*\$1\s*$`
	mock.ExpectQuery(q).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "senha"}).AddRow(int64(3), "alice", "x"))

	got, err := repo.GetUserByLogin(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByLogin_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t, "sqlite")

	mock.ExpectQuery(`SELECT`).WillReturnError(sql.ErrConnDone)

	_, err := repo.GetUserByLogin(context.Background(), "alice")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, err, sql.ErrConnDone)
}
