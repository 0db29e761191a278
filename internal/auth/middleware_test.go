package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/feedback-portal/internal/domain"
	"github.com/spec-kit/feedback-portal/pkg/util"
)

func roleTestApp(user *domain.AdminUser, roles ...domain.AdminRole) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(util.ToDomainError(err).HTTPStatus)
		},
	})
	app.Post("/guarded", func(c *fiber.Ctx) error {
		if user != nil {
			c.Locals(principalKey, user)
		}
		return c.Next()
	}, RequireRole(roles...), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name    string
		user    *domain.AdminUser
		allowed []domain.AdminRole
		want    int
	}{
		{
			name:    "matching role",
			user:    &domain.AdminUser{Username: "root", Role: domain.AdminRoleAdmin},
			allowed: []domain.AdminRole{domain.AdminRoleAdmin},
			want:    fiber.StatusNoContent,
		},
		{
			name:    "any of several roles",
			user:    &domain.AdminUser{Username: "lead", Role: domain.AdminRoleManager},
			allowed: []domain.AdminRole{domain.AdminRoleAdmin, domain.AdminRoleManager},
			want:    fiber.StatusNoContent,
		},
		{
			name:    "insufficient role",
			user:    &domain.AdminUser{Username: "triage", Role: domain.AdminRoleAgent},
			allowed: []domain.AdminRole{domain.AdminRoleAdmin},
			want:    fiber.StatusForbidden,
		},
		{
			name:    "no authenticated principal",
			user:    nil,
			allowed: []domain.AdminRole{domain.AdminRoleAdmin},
			want:    fiber.StatusUnauthorized,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := roleTestApp(tc.user, tc.allowed...)
			resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/guarded", nil))
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tc.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tc.want)
			}
		})
	}
}
