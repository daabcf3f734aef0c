package repositories

import (
	"context"
	"time"

	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
)

// UserRepository persists application users.
type UserRepository interface {
	SaveUser(ctx context.Context, user domain.User) error

	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// UpdateRefreshToken stores the hash and expiry of the user's current
	// refresh token; pass empty hash to clear it.
	UpdateRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt *time.Time, now time.Time) error
}
