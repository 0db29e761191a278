package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/feedback-portal/internal/domain"
	"github.com/spec-kit/feedback-portal/internal/repository"
	"github.com/spec-kit/feedback-portal/pkg/util"
)

const principalKey = "admin_principal"

// AuthMiddleware authenticates admin requests via bearer tokens.
type AuthMiddleware struct {
	tokens *TokenManager
	admins repository.AdminRepository
}

// NewAuthMiddleware constructs the middleware.
func NewAuthMiddleware(tokens *TokenManager, admins repository.AdminRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, admins: admins}
}

// Handle extracts and validates the bearer token, loading the backing
// admin account. Disabled accounts are rejected even with a valid token.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return util.NewUnauthorized("missing bearer token")
	}

	claims, err := m.tokens.ParseToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return util.NewUnauthorized("invalid token")
	}

	user, err := m.admins.GetByUsername(c.Context(), claims.Username)
	if err != nil {
		return util.NewUnauthorized("unknown account")
	}
	if !user.IsActive {
		return util.NewForbidden("account disabled")
	}

	c.Locals(principalKey, user)
	return c.Next()
}

// AdminFromContext returns the authenticated admin, if any.
func AdminFromContext(c *fiber.Ctx) (*domain.AdminUser, bool) {
	user, ok := c.Locals(principalKey).(*domain.AdminUser)
	return user, ok
}

// RequireRole restricts a route to the given roles.
func RequireRole(roles ...domain.AdminRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := AdminFromContext(c)
		if !ok {
			return util.NewUnauthorized("authentication required")
		}
		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}
		return util.NewForbidden("insufficient role")
	}
}
