package domain

import "time"

// User represents an application user.
type User struct {
	UserID       string `json:"userID"`
	Username     string `json:"username"` // email address
	Name         string `json:"name"`
	PasswordHash string `json:"-"` // empty for external-auth users
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`

	// Refresh token state; only the SHA256 hash of the active token is stored.
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
}
