package services

import (
	"context"
	"time"

	"google.golang.org/api/idtoken"

	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
)

// TokenSvcFacade issues and validates the tokens used by the API.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a short-lived JWT for the user.
	GenerateAccessToken(ctx context.Context, user *domain.User) (token string, expiresAt time.Time, err error)

	// GenerateRefreshToken creates a long-lived opaque refresh token.
	GenerateRefreshToken(ctx context.Context, user *domain.User) (token string, expiresAt time.Time, err error)

	// ValidateRefreshToken checks a presented refresh token against the
	// stored hash and expiry for the user.
	ValidateRefreshToken(ctx context.Context, userID, refreshToken string) (*domain.User, error)
}

// GoogleAuthSvc validates Google ID tokens presented by the front end.
type GoogleAuthSvc interface {
	ValidateGoogleIDToken(ctx context.Context, idToken string) (*idtoken.Payload, error)
}
