// Package audits persists the append-only auditoria table.
package audits

import (
	"context"

	"github.com/dmitrijs2005/auditoria/internal/server/models"
)

// ListOptions controls ordering and size of a listing.
type ListOptions struct {
	// NewestFirst orders by id descending; otherwise insertion order.
	NewestFirst bool
	// Limit caps the number of rows; 0 means no limit.
	Limit int
}

type Repository interface {
	// Create appends rec and fills its ID.
	Create(ctx context.Context, rec *models.AuditRecord) (*models.AuditRecord, error)
	List(ctx context.Context, opts ListOptions) ([]models.AuditRecord, error)
}
