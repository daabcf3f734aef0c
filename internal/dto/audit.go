package dto

import (
	"time"

	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
)

// AuditHistoryParams defines query parameters for the activity log.
type AuditHistoryParams struct {
	AccountID string   `form:"accountID"`
	Types     []string `form:"types"`
	From      *string  `form:"from"` // RFC3339
	To        *string  `form:"to"`   // RFC3339
	Limit     int      `form:"limit,default=25"`
	Offset    int      `form:"offset,default=0"`
}

// AuditRecordResponse is the wire form of an activity log entry.
type AuditRecordResponse struct {
	AuditID     string              `json:"auditID"`
	AccountID   string              `json:"accountID,omitempty"`
	Type        domain.ActivityType `json:"activityType"`
	Description string              `json:"description"`
	Detail      domain.AuditDetail  `json:"detail,omitempty"`
	Severity    domain.Severity     `json:"severity"`
	IPAddress   string              `json:"ipAddress,omitempty"`
	UserAgent   string              `json:"userAgent,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// AuditHistoryResponse is a page of activity log entries plus the total
// matching count for pagination math.
type AuditHistoryResponse struct {
	Records    []AuditRecordResponse `json:"records"`
	TotalCount int64                 `json:"totalCount"`
	Limit      int                   `json:"limit"`
	Offset     int                   `json:"offset"`
}

// ToAuditRecordResponse converts a domain.AuditRecord to its wire form.
func ToAuditRecordResponse(rec domain.AuditRecord) AuditRecordResponse {
	return AuditRecordResponse{
		AuditID:     rec.AuditID,
		AccountID:   rec.AccountID,
		Type:        rec.Type,
		Description: rec.Description,
		Detail:      rec.Detail,
		Severity:    rec.Severity,
		IPAddress:   rec.IPAddress,
		UserAgent:   rec.UserAgent,
		CreatedAt:   rec.CreatedAt,
	}
}

// ToAuditHistoryResponse builds the paginated response.
func ToAuditHistoryResponse(records []domain.AuditRecord, total int64, limit, offset int) AuditHistoryResponse {
	out := make([]AuditRecordResponse, len(records))
	for i, rec := range records {
		out[i] = ToAuditRecordResponse(rec)
	}
	return AuditHistoryResponse{Records: out, TotalCount: total, Limit: limit, Offset: offset}
}
