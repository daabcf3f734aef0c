package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pesoplan/pesoplan_backend/internal/apperrors"
	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
	portsrepo "github.com/pesoplan/pesoplan_backend/internal/core/ports/repositories"
	portssvc "github.com/pesoplan/pesoplan_backend/internal/core/ports/services"
	"github.com/pesoplan/pesoplan_backend/internal/dto"
	"github.com/pesoplan/pesoplan_backend/internal/utils"
)

// UserService manages application users.
type UserService struct {
	BaseService
	userRepo portsrepo.UserRepository
}

// NewUserService creates the user service.
func NewUserService(userRepo portsrepo.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*UserService)(nil)

// CreateUser registers a new user with a bcrypt-hashed password.
func (s *UserService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     username,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "system",
			LastUpdatedAt: now,
			LastUpdatedBy: "system",
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save user")
		}
		return nil, err
	}

	s.LogInfo(ctx, "User registered", slog.String("user_id", user.UserID))
	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user", slog.String("user_id", userID))
		}
		return nil, err
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user by username")
		}
		return nil, err
	}
	return user, nil
}

// FindOrCreateGoogleUser resolves a user for a verified Google identity,
// creating a passwordless user on first sign-in.
func (s *UserService) FindOrCreateGoogleUser(ctx context.Context, email, name string) (*domain.User, error) {
	username := strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up Google user")
		return nil, err
	}

	now := time.Now().UTC()
	newUser := domain.User{
		UserID:   uuid.NewString(),
		Username: username,
		Name:     name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "google",
			LastUpdatedAt: now,
			LastUpdatedBy: "google",
		},
	}
	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		s.LogError(ctx, err, "Failed to create Google user")
		return nil, err
	}

	s.LogInfo(ctx, "Google user created", slog.String("user_id", newUser.UserID))
	return &newUser, nil
}

// StoreRefreshToken saves the hash of the user's active refresh token.
func (s *UserService) StoreRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt *time.Time) error {
	now := time.Now().UTC()
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, tokenHash, expiresAt, now); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to store refresh token", slog.String("user_id", userID))
		}
		return err
	}
	return nil
}
