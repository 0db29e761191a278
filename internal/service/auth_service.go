package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/feedback-portal/internal/auth"
	"github.com/spec-kit/feedback-portal/internal/config"
	"github.com/spec-kit/feedback-portal/internal/domain"
	"github.com/spec-kit/feedback-portal/internal/repository"
	"github.com/spec-kit/feedback-portal/pkg/util"
)

const minPasswordLength = 8

// AuthService handles admin credential checks and token issuance.
type AuthService struct {
	admins     repository.AdminRepository
	tokens     *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig, admins repository.AdminRepository, logger *zap.Logger) *AuthService {
	return &AuthService{
		admins:     admins,
		tokens:     auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
		logger:     logger,
	}
}

// TokenManager exposes the manager for the auth middleware.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Login verifies credentials and issues a bearer token. Unknown users,
// wrong passwords and disabled accounts all yield the same unauthorized
// answer.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, time.Time, *domain.AdminUser, error) {
	user, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, nil, util.NewUnauthorized("invalid credentials")
		}
		return "", time.Time{}, nil, err
	}
	if !user.IsActive {
		return "", time.Time{}, nil, util.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return "", time.Time{}, nil, util.NewUnauthorized("invalid credentials")
	}

	if err := s.admins.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to update last login", zap.Error(err))
	}

	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		return "", time.Time{}, nil, err
	}
	return token, expiresAt, user, nil
}

// ChangePassword rotates the caller's password after verifying the
// current one.
func (s *AuthService) ChangePassword(ctx context.Context, user *domain.AdminUser, current, next string) error {
	if err := auth.ComparePassword(user.PasswordHash, current); err != nil {
		return util.NewUnauthorized("invalid credentials")
	}
	if len(next) < minPasswordLength {
		return util.NewValidationError("password too short", map[string]any{"min_length": minPasswordLength})
	}
	hashed, err := auth.HashPassword(next, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.admins.UpdatePassword(ctx, user.ID, hashed)
}

// EnsureBootstrapAdmin seeds the initial admin account when a bootstrap
// password is configured; an existing account is left untouched.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context, username, password string) error {
	if password == "" {
		s.logger.Warn("no bootstrap admin password configured; skipping admin seed")
		return nil
	}
	hashed, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.admins.EnsureBootstrapAdmin(ctx, username, hashed)
}
