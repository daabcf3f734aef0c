package models

import (
	"encoding/json"
	"time"
)

// AuditRecord is the database representation of an activity log row.
// Detail holds the jsonb payload; its shape depends on activity_type.
type AuditRecord struct {
	AuditID      string          `db:"audit_id"`
	UserID       string          `db:"user_id"`
	AccountID    string          `db:"account_id"` // nullable
	ActivityType string          `db:"activity_type"`
	Description  string          `db:"description"`
	Detail       json.RawMessage `db:"detail"`
	Severity     string          `db:"severity"`
	IPAddress    string          `db:"ip_address"` // nullable
	UserAgent    string          `db:"user_agent"` // nullable
	CreatedAt    time.Time       `db:"created_at"`
}
