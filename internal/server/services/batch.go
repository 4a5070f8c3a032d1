package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/auditoria/internal/common"
	"github.com/dmitrijs2005/auditoria/internal/dbx"
	"github.com/dmitrijs2005/auditoria/internal/logging"
	"github.com/dmitrijs2005/auditoria/internal/server/config"
	"github.com/dmitrijs2005/auditoria/internal/server/inference"
	"github.com/dmitrijs2005/auditoria/internal/server/models"
	"github.com/dmitrijs2005/auditoria/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/auditoria/internal/server/storage"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

// Transcriber turns one image into text. Implementations absorb their own
// failures into the returned Result.
type Transcriber interface {
	Transcribe(ctx context.Context, image []byte) inference.Result
}

// UploadFile is one file of a batch as received from the client.
type UploadFile struct {
	Filename string
	Data     []byte
}

// BatchResult is what the client sees for one processed file.
type BatchResult struct {
	Filename          string           `json:"arquivo"`
	Transcription     string           `json:"transcricao"`
	IdentifiedRequest string           `json:"pedido_identificado"`
	RequestedAt       models.Timestamp `json:"data_requisicao"`
	RespondedAt       models.Timestamp `json:"data_resposta"`
}

// BatchService stores, transcribes and records uploaded files.
type BatchService struct {
	db          *sqlx.DB
	repomanager repomanager.RepositoryManager
	store       storage.Store
	gateway     Transcriber
	workers     int
	now         func() time.Time
	logger      logging.Logger
}

func NewBatchService(db *sqlx.DB, m repomanager.RepositoryManager, store storage.Store, gateway Transcriber, cfg *config.Config, logger logging.Logger) *BatchService {
	if logger == nil {
		logger = logging.NewNop()
	}
	workers := cfg.BatchWorkers
	if workers < 1 {
		workers = 1
	}
	return &BatchService{
		db:          db,
		repomanager: m,
		store:       store,
		gateway:     gateway,
		workers:     workers,
		now:         time.Now,
		logger:      logger,
	}
}

// HandleBatch processes files for user and returns one result per file in
// submission order. Storage and database failures abort the batch; rows
// already written stay. Transcription failures never abort.
func (s *BatchService) HandleBatch(ctx context.Context, user string, files []UploadFile) ([]BatchResult, error) {
	if user == "" {
		return nil, common.ErrorUnauthorized
	}
	if len(files) == 0 {
		return nil, common.ErrorNoFiles
	}

	results := make([]BatchResult, len(files))

	if s.workers == 1 {
		for i, f := range files {
			r, err := s.processFile(ctx, user, f)
			if err != nil {
				return nil, err
			}
			results[i] = r
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, f := range files {
		g.Go(func() error {
			r, err := s.processFile(gctx, user, f)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (s *BatchService) processFile(ctx context.Context, user string, f UploadFile) (BatchResult, error) {
	name := storage.StorageName(f.Filename)
	if _, err := s.store.Save(ctx, name, f.Data); err != nil {
		return BatchResult{}, fmt.Errorf("store %s: %w", f.Filename, err)
	}

	requestedAt := models.NewTimestamp(s.now())
	res := s.gateway.Transcribe(ctx, f.Data)
	respondedAt := models.NewTimestamp(s.now())
	// wall clock may step back between the two reads
	if respondedAt.Before(requestedAt.Time) {
		respondedAt = requestedAt
	}

	if res.Fallback {
		s.logger.Warn(ctx, "transcription fell back", "file", f.Filename, "error", res.Err)
	}

	rec := &models.AuditRecord{
		Username:          user,
		Filename:          f.Filename,
		Transcription:     res.Transcription,
		IdentifiedRequest: res.IdentifiedRequest,
		RequestedAt:       requestedAt,
		RespondedAt:       respondedAt,
	}
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := s.repomanager.Audits(tx).Create(ctx, rec)
		return err
	})
	if err != nil {
		return BatchResult{}, fmt.Errorf("record %s: %w", f.Filename, err)
	}

	s.logger.Info(ctx, "file processed", "file", f.Filename, "stored_as", name, "audit_id", rec.ID, "fallback", res.Fallback)

	return BatchResult{
		Filename:          rec.Filename,
		Transcription:     rec.Transcription,
		IdentifiedRequest: rec.IdentifiedRequest,
		RequestedAt:       rec.RequestedAt,
		RespondedAt:       rec.RespondedAt,
	}, nil
}
