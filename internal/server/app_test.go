package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/auditoria/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.OllamaAPIKey = "k"
	cfg.DatabaseURL = "sqlite:///" + filepath.Join(dir, "auditoria.db")
	cfg.UploadDir = filepath.Join(dir, "uploads")
	cfg.ExportPath = filepath.Join(dir, "auditoria_export.xlsx")
	cfg.StaticDir = ""
	return cfg
}

func TestNewApp_SeedsAdminAndServes(t *testing.T) {
	ctx := context.Background()
	app, err := NewApp(ctx, testConfig(t), nil)
	require.NoError(t, err)
	defer app.Close()

	ok, err := app.Users().Verify(ctx, "admin", "1234")
	require.NoError(t, err)
	assert.True(t, ok)

	form := url.Values{"username": {"admin"}, "password": {"1234"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	app.Handler().Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestNewApp_ReopenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	first, err := NewApp(ctx, cfg, nil)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewApp(ctx, cfg, nil)
	require.NoError(t, err)
	defer second.Close()

	var n int
	require.NoError(t, second.db.Get(&n, `SELECT COUNT(*) FROM usuarios`))
	assert.Equal(t, 1, n)
}

func TestNewApp_BadDatabaseURL(t *testing.T) {
	cfg := testConfig(t)
	cfg.DatabaseURL = "sqlite:nope"

	_, err := NewApp(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "db init error")
}

func TestNewApp_SignedWithoutSecret(t *testing.T) {
	cfg := testConfig(t)
	cfg.SessionMode = "signed"

	_, err := NewApp(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestRunAndClose_ClosesDatabaseOnListenError(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	cfg := testConfig(t)
	cfg.ListenAddr = l.Addr().String()

	app, err := NewApp(context.Background(), cfg, nil)
	require.NoError(t, err)

	assert.Error(t, app.RunAndClose(context.Background()))
	assert.Error(t, app.db.Ping(), "database must be closed after a failed run")
}

func TestRunAndClose_CleanShutdown(t *testing.T) {
	cfg := testConfig(t)
	cfg.ListenAddr = "127.0.0.1:0"

	app, err := NewApp(context.Background(), cfg, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, app.RunAndClose(ctx))
	assert.Error(t, app.db.Ping())
}
