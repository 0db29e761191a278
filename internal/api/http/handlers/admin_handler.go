package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/feedback-portal/internal/api/dto"
	"github.com/spec-kit/feedback-portal/internal/auth"
	"github.com/spec-kit/feedback-portal/internal/repository"
	"github.com/spec-kit/feedback-portal/internal/service"
	apperrors "github.com/spec-kit/feedback-portal/pkg/util"
)

// AdminHandler manages the authenticated triage endpoints.
type AdminHandler struct {
	tickets    *service.TicketService
	stats      *service.StatsService
	retention  *service.RetentionService
	authSvc    *service.AuthService
	categories repository.CategoryRepository
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(tickets *service.TicketService, stats *service.StatsService, retention *service.RetentionService, authSvc *service.AuthService, categories repository.CategoryRepository) *AdminHandler {
	return &AdminHandler{
		tickets:    tickets,
		stats:      stats,
		retention:  retention,
		authSvc:    authSvc,
		categories: categories,
	}
}

// Login POST /api/admin/login.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	token, expiresAt, user, err := h.authSvc.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Role:      user.Role,
	}})
}

// ChangePassword POST /api/admin/password.
func (h *AdminHandler) ChangePassword(c *fiber.Ctx) error {
	user, ok := auth.AdminFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.authSvc.ChangePassword(c.UserContext(), user, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"changed": true}})
}

// ListTickets GET /api/admin/tickets.
func (h *AdminHandler) ListTickets(c *fiber.Ctx) error {
	query := parseListQuery(c)
	tickets, total, err := h.tickets.List(c.UserContext(), query)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.TicketFromDomain(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": dto.ListTicketsResponse{Tickets: items, TotalCount: total}})
}

// GetTicket GET /api/admin/tickets/:id.
func (h *AdminHandler) GetTicket(c *fiber.Ctx) error {
	id, err := parseTicketID(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.GetTicket(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketFromDomain(ticket)})
}

// UpdateStatus PUT /api/admin/tickets/:id/status.
func (h *AdminHandler) UpdateStatus(c *fiber.Ctx) error {
	user, ok := auth.AdminFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseTicketID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}

	err = h.tickets.UpdateStatus(c.UserContext(), id, service.UpdateStatusInput{
		Status:          req.Status,
		AssignedTo:      req.AssignedTo,
		ResolutionNotes: req.ResolutionNotes,
		ChangedBy:       user.Username,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"updated": true}})
}

// GetHistory GET /api/admin/tickets/:id/history.
func (h *AdminHandler) GetHistory(c *fiber.Ctx) error {
	id, err := parseTicketID(c)
	if err != nil {
		return err
	}
	history, err := h.tickets.GetHistory(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.HistoryFromDomain(history)})
}

// AddTag POST /api/admin/tickets/:id/tags.
func (h *AdminHandler) AddTag(c *fiber.Ctx) error {
	id, err := parseTicketID(c)
	if err != nil {
		return err
	}
	var req dto.AddTagRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	added, err := h.tickets.AddTag(c.UserContext(), id, req.Tag)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TagResponse{Changed: added}})
}

// RemoveTag DELETE /api/admin/tickets/:id/tags/:name.
func (h *AdminHandler) RemoveTag(c *fiber.Ctx) error {
	id, err := parseTicketID(c)
	if err != nil {
		return err
	}
	removed, err := h.tickets.RemoveTag(c.UserContext(), id, c.Params("name"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TagResponse{Changed: removed}})
}

// Stats GET /api/admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	window := repository.StatsWindow{
		From: parseTime(c.Query("date_from")),
		To:   parseTime(c.Query("date_to")),
	}
	stats, err := h.stats.GetStatistics(c.UserContext(), window)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.StatisticsFromDomain(stats)})
}

// Sweep POST /api/admin/retention/sweep.
func (h *AdminHandler) Sweep(c *fiber.Ctx) error {
	result, err := h.retention.Sweep(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SweepResponse{
		ArchivedTickets: result.TicketsDeleted,
		CleanedHistory:  result.HistoryDeleted,
		CleanedTags:     result.TagsDeleted,
	}})
}

// Categories GET /api/admin/categories.
func (h *AdminHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.categories.ListActive(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		items = append(items, dto.CategoryResponse{
			CategoryID:  category.ID,
			Name:        category.Name,
			Description: category.Description,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseListQuery(c *fiber.Ctx) service.ListQuery {
	query := service.ListQuery{
		Status:      c.Query("status"),
		Type:        c.Query("type"),
		Priority:    c.Query("priority"),
		AssignedTo:  c.Query("assigned_to"),
		Search:      c.Query("search"),
		CreatedFrom: parseTime(c.Query("date_from")),
		CreatedTo:   parseTime(c.Query("date_to")),
		RatingMin:   parseIntPtr(c.Query("rating_min")),
		RatingMax:   parseIntPtr(c.Query("rating_max")),
	}

	page := parseInt(c.Query("page"), 0)
	pageSize := parseInt(c.Query("page_size"), 0)
	if pageSize > 0 {
		query.Limit = pageSize
		if page > 1 {
			query.Offset = (page - 1) * pageSize
		}
	}
	return query
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", val); err == nil {
		return &t
	}
	return nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func parseIntPtr(val string) *int {
	if strings.TrimSpace(val) == "" {
		return nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return nil
	}
	return &parsed
}
