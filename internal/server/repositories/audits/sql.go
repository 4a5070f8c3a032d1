package audits

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/auditoria/internal/dbx"
	"github.com/dmitrijs2005/auditoria/internal/server/models"
	"github.com/jmoiron/sqlx"
)

// legacy rows written by older deployments may carry NULLs
const selectColumns = `id,
	COALESCE(usuario, '') AS usuario,
	COALESCE(arquivo, '') AS arquivo,
	COALESCE(transcricao, '') AS transcricao,
	COALESCE(pedido_identificado, '') AS pedido_identificado,
	data_requisicao,
	data_resposta`

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, rec *models.AuditRecord) (*models.AuditRecord, error) {
	query := r.db.Rebind(
		`INSERT INTO auditoria
		 (usuario, arquivo, transcricao, pedido_identificado, data_requisicao, data_resposta)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING id`)

	err := sqlx.GetContext(ctx, r.db, &rec.ID, query,
		rec.Username, rec.Filename, rec.Transcription, rec.IdentifiedRequest, rec.RequestedAt, rec.RespondedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rec, nil
}

func (r *SQLRepository) List(ctx context.Context, opts ListOptions) ([]models.AuditRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM auditoria ORDER BY id`
	if opts.NewestFirst {
		query += ` DESC`
	}

	args := []any{}
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	records := []models.AuditRecord{}
	if err := sqlx.SelectContext(ctx, r.db, &records, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return records, nil
}
