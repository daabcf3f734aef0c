package repositories

import (
	"context"

	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
)

// AuditWriter appends activity log entries. The log is append-only; there is
// no update or delete operation.
type AuditWriter interface {
	SaveAuditRecord(ctx context.Context, record domain.AuditRecord) error
}

// AuditReader retrieves activity log entries for review and export.
type AuditReader interface {
	// ListAuditRecords returns the filtered page (newest first) together
	// with the total number of matching records for pagination math.
	ListAuditRecords(ctx context.Context, userID string, filter domain.AuditRecordFilter) ([]domain.AuditRecord, int64, error)
}

// AuditRepositoryFacade combines audit read and write operations.
type AuditRepositoryFacade interface {
	AuditWriter
	AuditReader
}
