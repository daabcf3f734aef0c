package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
	portsrepo "github.com/pesoplan/pesoplan_backend/internal/core/ports/repositories"
	"github.com/pesoplan/pesoplan_backend/internal/models"
	"github.com/pesoplan/pesoplan_backend/internal/utils/mapping"
)

// PgxAuditRepository persists activity log entries. The table is append-only;
// there is no update or delete path.
type PgxAuditRepository struct {
	BaseRepository
}

func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

// SaveAuditRecord appends one activity log entry.
func (r *PgxAuditRepository) SaveAuditRecord(ctx context.Context, record domain.AuditRecord) error {
	m, err := mapping.ToModelAuditRecord(record)
	if err != nil {
		return fmt.Errorf("failed to encode audit record %s: %w", record.AuditID, err)
	}

	query := `
		INSERT INTO audit_records (audit_id, user_id, account_id, activity_type, description, detail, severity, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.AuditID,
		m.UserID,
		nullIfEmpty(m.AccountID),
		m.ActivityType,
		m.Description,
		m.Detail,
		m.Severity,
		nullIfEmpty(m.IPAddress),
		nullIfEmpty(m.UserAgent),
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save audit record %s: %w", m.AuditID, err)
	}
	return nil
}

// ListAuditRecords returns the filtered page, newest first, plus the total
// count of records matching the filter.
func (r *PgxAuditRepository) ListAuditRecords(ctx context.Context, userID string, filter domain.AuditRecordFilter) ([]domain.AuditRecord, int64, error) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}

	if filter.AccountID != "" {
		args = append(args, filter.AccountID)
		conditions = append(conditions, fmt.Sprintf("account_id = $%d", len(args)))
	}
	if len(filter.Types) > 0 {
		types := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			types[i] = string(t)
		}
		args = append(args, types)
		conditions = append(conditions, fmt.Sprintf("activity_type = ANY($%d)", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	where := strings.Join(conditions, " AND ")

	countQuery := `SELECT COUNT(*) FROM audit_records WHERE ` + where + `;`
	var total int64
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit records for user %s: %w", userID, err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 25
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)
	listQuery := fmt.Sprintf(`
		SELECT audit_id, user_id, COALESCE(account_id, ''), activity_type, description, detail, severity, COALESCE(ip_address, ''), COALESCE(user_agent, ''), created_at
		FROM audit_records
		WHERE %s
		ORDER BY created_at DESC, audit_id DESC
		LIMIT $%d OFFSET $%d;
	`, where, len(args)-1, len(args))

	rows, err := r.Pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query audit records for user %s: %w", userID, err)
	}
	defer rows.Close()

	records := []domain.AuditRecord{}
	for rows.Next() {
		var m models.AuditRecord
		err := rows.Scan(
			&m.AuditID,
			&m.UserID,
			&m.AccountID,
			&m.ActivityType,
			&m.Description,
			&m.Detail,
			&m.Severity,
			&m.IPAddress,
			&m.UserAgent,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit record row: %w", err)
		}
		records = append(records, mapping.ToDomainAuditRecord(m))
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("error iterating audit record rows: %w", rows.Err())
	}
	return records, total, nil
}
