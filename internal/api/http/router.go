package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/feedback-portal/internal/api/http/handlers"
	"github.com/spec-kit/feedback-portal/internal/auth"
	"github.com/spec-kit/feedback-portal/internal/domain"
	"github.com/spec-kit/feedback-portal/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{})))

	api := app.Group("/api")
	api.Post("/submit", cfg.Tickets.Submit)
	api.Get("/track/:id", cfg.Tickets.Track)

	adminGroup := api.Group("/admin")
	adminGroup.Post("/login", cfg.Admin.Login)

	protected := adminGroup.Group("", cfg.AuthMiddleware.Handle)
	protected.Post("/password", cfg.Admin.ChangePassword)
	protected.Get("/tickets", cfg.Admin.ListTickets)
	protected.Get("/tickets/:id", cfg.Admin.GetTicket)
	protected.Put("/tickets/:id/status", cfg.Admin.UpdateStatus)
	protected.Get("/tickets/:id/history", cfg.Admin.GetHistory)
	protected.Post("/tickets/:id/tags", cfg.Admin.AddTag)
	protected.Delete("/tickets/:id/tags/:name", cfg.Admin.RemoveTag)
	protected.Get("/stats", cfg.Admin.Stats)
	// Deleting data is reserved for the admin role.
	protected.Post("/retention/sweep", auth.RequireRole(domain.AdminRoleAdmin), cfg.Admin.Sweep)
	protected.Get("/categories", cfg.Admin.Categories)
}
