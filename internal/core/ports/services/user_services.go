package services

import (
	"context"
	"time"

	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
	"github.com/pesoplan/pesoplan_backend/internal/dto"
)

// UserSvcFacade manages application users.
type UserSvcFacade interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)

	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindOrCreateGoogleUser resolves a user for a verified Google identity,
	// creating one on first sign-in.
	FindOrCreateGoogleUser(ctx context.Context, email, name string) (*domain.User, error)

	// StoreRefreshToken saves the hash of the user's active refresh token;
	// pass an empty hash to revoke it.
	StoreRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt *time.Time) error
}
