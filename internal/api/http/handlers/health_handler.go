package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/feedback-portal/internal/persistence"
)

// HealthHandler exposes liveness/readiness probes.
type HealthHandler struct {
	store *persistence.Postgres
}

// NewHealthHandler constructs the handler.
func NewHealthHandler(store *persistence.Postgres) *HealthHandler {
	return &HealthHandler{store: store}
}

// Live GET /health/live.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready GET /health/ready. Ready means the store answers a ping.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	if err := h.store.Ping(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "ready"})
}
