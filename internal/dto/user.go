package dto

import (
	"time"

	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
)

// CreateUserRequest registers a new user.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
}

// LoginRequest authenticates with username and password.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginRequest authenticates with a Google ID token obtained by the
// front end via Google Identity Services.
type GoogleLoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// LoginResponse carries the issued access token. The refresh token travels
// in an HTTP-only cookie, not in the body.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// UserResponse is the wire form of a user.
type UserResponse struct {
	UserID    string    `json:"userID"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToUserResponse converts a domain.User to its wire form.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Username:  u.Username,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}
