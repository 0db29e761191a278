package dto

import (
	"time"

	"github.com/spec-kit/feedback-portal/internal/domain"
)

// LoginRequest carries admin credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Role      domain.AdminRole `json:"role"`
}

// ChangePasswordRequest rotates the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// CategoryResponse is one reference category.
type CategoryResponse struct {
	CategoryID  int64   `json:"category_id"`
	Name        string  `json:"category_name"`
	Description *string `json:"description"`
}
