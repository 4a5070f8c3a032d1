package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/auditoria/internal/dbx"
	"github.com/dmitrijs2005/auditoria/internal/server/config"
	"github.com/dmitrijs2005/auditoria/internal/server/dbtest"
	"github.com/dmitrijs2005/auditoria/internal/server/inference"
	"github.com/dmitrijs2005/auditoria/internal/server/repositories/repomanager"
	"github.com/jmoiron/sqlx"
)

func newTestDB(t *testing.T) (*sqlx.DB, repomanager.RepositoryManager) {
	t.Helper()
	return dbtest.NewSQLite(t), repomanager.NewSQLRepositoryManager(dbx.SQLite)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.OllamaAPIKey = "k"
	cfg.UploadDir = t.TempDir()
	cfg.ExportPath = t.TempDir() + "/auditoria_export.xlsx"
	return cfg
}

// echoGateway answers with the image bytes as transcription.
type echoGateway struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
	delay time.Duration
}

func (g *echoGateway) Transcribe(ctx context.Context, image []byte) inference.Result {
	if g.delay > 0 {
		time.Sleep(g.delay)
	}
	g.mu.Lock()
	g.calls = append(g.calls, string(image))
	g.mu.Unlock()

	if g.fail[string(image)] {
		return inference.Result{
			Transcription:     inference.FallbackTranscription,
			IdentifiedRequest: inference.FallbackRequest,
			Fallback:          true,
			Err:               context.DeadlineExceeded,
		}
	}
	return inference.Result{Transcription: "t:" + string(image), IdentifiedRequest: "p:" + string(image)}
}
