package services

import (
	"context"

	"github.com/dmitrijs2005/auditoria/internal/server/config"
	"github.com/dmitrijs2005/auditoria/internal/server/export"
	"github.com/dmitrijs2005/auditoria/internal/server/models"
	"github.com/dmitrijs2005/auditoria/internal/server/repositories/audits"
	"github.com/dmitrijs2005/auditoria/internal/server/repositories/repomanager"
	"github.com/jmoiron/sqlx"
)

// ReportService reads the audit log back out.
type ReportService struct {
	db          *sqlx.DB
	repomanager repomanager.RepositoryManager
	exportPath  string
}

func NewReportService(db *sqlx.DB, m repomanager.RepositoryManager, cfg *config.Config) *ReportService {
	return &ReportService{db: db, repomanager: m, exportPath: cfg.ExportPath}
}

// ListAudit returns audit records newest first; limit 0 means all.
func (s *ReportService) ListAudit(ctx context.Context, limit int) ([]models.AuditRecord, error) {
	return s.repomanager.Audits(s.db).List(ctx, audits.ListOptions{NewestFirst: true, Limit: limit})
}

// ExportAudit rewrites the export workbook with every record in insertion
// order and returns its path.
func (s *ReportService) ExportAudit(ctx context.Context) (string, error) {
	return s.ExportAuditTo(ctx, s.exportPath)
}

func (s *ReportService) ExportAuditTo(ctx context.Context, path string) (string, error) {
	records, err := s.repomanager.Audits(s.db).List(ctx, audits.ListOptions{})
	if err != nil {
		return "", err
	}
	if err := export.WriteXLSX(path, records); err != nil {
		return "", err
	}
	return path, nil
}
