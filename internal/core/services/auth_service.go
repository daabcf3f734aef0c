package services

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/idtoken"

	"github.com/pesoplan/pesoplan_backend/internal/apperrors"
	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
	portssvc "github.com/pesoplan/pesoplan_backend/internal/core/ports/services"
	"github.com/pesoplan/pesoplan_backend/internal/platform/config"
	"github.com/pesoplan/pesoplan_backend/internal/utils"
)

// refreshTokenBytes is the entropy of a freshly minted refresh token.
const refreshTokenBytes = 32

// TokenService issues access and refresh tokens. Access tokens are HS256
// JWTs; refresh tokens are opaque random strings of which only the SHA256
// hash is persisted.
type TokenService struct {
	BaseService
	cfg      *config.Config
	userRepo portssvc.UserSvcFacade
}

// NewTokenService creates the token service.
func NewTokenService(cfg *config.Config, userSvc portssvc.UserSvcFacade) *TokenService {
	return &TokenService{cfg: cfg, userRepo: userSvc}
}

var _ portssvc.TokenSvcFacade = (*TokenService)(nil)

// GenerateAccessToken creates a short-lived JWT for the user.
func (s *TokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.cfg.JWTExpiryDuration)
	token, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token")
		return "", time.Time{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return token, expiresAt, nil
}

// GenerateRefreshToken creates an opaque refresh token and stores its hash.
func (s *TokenService) GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	raw, err := utils.GenerateSecureRandomString(refreshTokenBytes)
	if err != nil {
		s.LogError(ctx, err, "Failed to mint refresh token")
		return "", time.Time{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	expiresAt := time.Now().UTC().Add(s.cfg.RefreshTokenExpiryDuration)
	hash := utils.HashRefreshToken(raw)
	if err := s.userRepo.StoreRefreshToken(ctx, user.UserID, hash, &expiresAt); err != nil {
		return "", time.Time{}, err
	}
	return raw, expiresAt, nil
}

// ValidateRefreshToken checks a presented refresh token against the stored
// hash and expiry for the user.
func (s *TokenService) ValidateRefreshToken(ctx context.Context, userID, refreshToken string) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.RefreshTokenHash == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if user.RefreshTokenExpiryTime == nil || time.Now().UTC().After(*user.RefreshTokenExpiryTime) {
		return nil, apperrors.ErrRefreshTokenExpired
	}

	if !utils.CompareRefreshTokenHash(refreshToken, user.RefreshTokenHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

// GoogleAuthService validates Google ID tokens against the configured OAuth
// client ID.
type GoogleAuthService struct {
	BaseService
	clientID string
}

// NewGoogleAuthService creates the Google auth service.
func NewGoogleAuthService(cfg *config.Config) *GoogleAuthService {
	return &GoogleAuthService{clientID: cfg.GoogleClientID}
}

var _ portssvc.GoogleAuthSvc = (*GoogleAuthService)(nil)

// ValidateGoogleIDToken verifies the token signature and audience.
func (s *GoogleAuthService) ValidateGoogleIDToken(ctx context.Context, idToken string) (*idtoken.Payload, error) {
	if s.clientID == "" {
		return nil, fmt.Errorf("%w: google sign-in is not configured", apperrors.ErrUnauthorized)
	}
	payload, err := idtoken.Validate(ctx, idToken, s.clientID)
	if err != nil {
		s.LogWarn(ctx, "Google ID token validation failed", "error", err.Error())
		return nil, fmt.Errorf("%w: invalid google id token", apperrors.ErrUnauthorized)
	}
	return payload, nil
}
