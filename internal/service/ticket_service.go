package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/feedback-portal/internal/domain"
	"github.com/spec-kit/feedback-portal/internal/observability"
	"github.com/spec-kit/feedback-portal/internal/repository"
	"github.com/spec-kit/feedback-portal/pkg/util"
)

// TicketService coordinates the ticket lifecycle: submission, triage,
// tagging and audit retrieval.
type TicketService struct {
	tickets repository.TicketRepository
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, metrics *observability.Metrics, logger *zap.Logger) *TicketService {
	return &TicketService{tickets: tickets, metrics: metrics, logger: logger}
}

// SubmitInput describes a raw submission before validation.
type SubmitInput struct {
	Name     string
	Email    string
	Product  string
	Rating   *int
	Type     string
	Message  string
	Priority string
}

// ListQuery describes a raw listing request before validation.
type ListQuery struct {
	Status      string
	Type        string
	Priority    string
	AssignedTo  string
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	RatingMin   *int
	RatingMax   *int
	Limit       int
	Offset      int
}

// UpdateStatusInput describes a status-affecting update request.
type UpdateStatusInput struct {
	Status          string
	AssignedTo      *string
	ResolutionNotes *string
	ChangedBy       string
}

// Submit validates and stores a new ticket, returning its id. The ticket
// starts Pending; priority defaults to Medium when absent.
func (s *TicketService) Submit(ctx context.Context, input SubmitInput) (int64, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	product := strings.TrimSpace(input.Product)
	message := strings.TrimSpace(input.Message)

	missing := []string{}
	for field, value := range map[string]string{
		"name": name, "email": email, "product": product, "type": input.Type, "message": message,
	} {
		if value == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return 0, util.NewValidationError("missing required fields", map[string]any{"fields": missing})
	}

	ticketType, ok := domain.ParseType(input.Type)
	if !ok {
		return 0, util.NewValidationError("invalid feedback type", map[string]any{"type": input.Type})
	}
	if input.Rating != nil && !domain.ValidRating(*input.Rating) {
		return 0, util.NewValidationError("rating must be between 1 and 5", map[string]any{"rating": *input.Rating})
	}

	priority := domain.TicketPriorityMedium
	if input.Priority != "" {
		parsed, ok := domain.ParsePriority(input.Priority)
		if !ok {
			return 0, util.NewValidationError("invalid priority", map[string]any{"priority": input.Priority})
		}
		priority = parsed
	}

	id, err := s.tickets.Create(ctx, repository.CreateTicketInput{
		Name:     name,
		Email:    email,
		Product:  product,
		Rating:   input.Rating,
		Type:     ticketType,
		Message:  message,
		Priority: priority,
	})
	if err != nil {
		return 0, err
	}

	s.metrics.TicketsCreated.Inc()
	s.logger.Info("ticket created", zap.Int64("ticket_id", id), zap.String("type", string(ticketType)))
	return id, nil
}

// GetTicket fetches one ticket with its customer fields and tags.
func (s *TicketService) GetTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, err
	}
	return ticket, nil
}

// List returns tickets matching the query plus the unpaginated total.
func (s *TicketService) List(ctx context.Context, query ListQuery) ([]domain.Ticket, int, error) {
	filter, err := s.buildFilter(query)
	if err != nil {
		return nil, 0, err
	}

	tickets, err := s.tickets.List(ctx, filter, query.Limit, query.Offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.tickets.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, total, nil
}

func (s *TicketService) buildFilter(query ListQuery) (repository.TicketFilter, error) {
	var filter repository.TicketFilter

	if query.Status != "" {
		status, ok := domain.ParseStatus(query.Status)
		if !ok {
			return filter, util.NewInvalidStatus(query.Status)
		}
		filter.Status = &status
	}
	if query.Type != "" {
		ticketType, ok := domain.ParseType(query.Type)
		if !ok {
			return filter, util.NewValidationError("invalid feedback type", map[string]any{"type": query.Type})
		}
		filter.Type = &ticketType
	}
	if query.Priority != "" {
		priority, ok := domain.ParsePriority(query.Priority)
		if !ok {
			return filter, util.NewValidationError("invalid priority", map[string]any{"priority": query.Priority})
		}
		filter.Priority = &priority
	}
	if query.AssignedTo != "" {
		assignedTo := query.AssignedTo
		filter.AssignedTo = &assignedTo
	}
	if strings.TrimSpace(query.Search) != "" {
		search := query.Search
		filter.Search = &search
	}
	filter.CreatedFrom = query.CreatedFrom
	filter.CreatedTo = query.CreatedTo

	// Rating bounds are inclusive; out-of-scale bounds are caller errors.
	for _, bound := range []*int{query.RatingMin, query.RatingMax} {
		if bound != nil && !domain.ValidRating(*bound) {
			return filter, util.NewValidationError("rating bound must be between 1 and 5", map[string]any{"rating": *bound})
		}
	}
	filter.RatingMin = query.RatingMin
	filter.RatingMax = query.RatingMax

	return filter, nil
}

// UpdateStatus applies a status transition. The only transition rule is
// label validity: any recognized status is reachable from any other.
// Unchanged values are a successful no-op.
func (s *TicketService) UpdateStatus(ctx context.Context, id int64, input UpdateStatusInput) error {
	status, ok := domain.ParseStatus(input.Status)
	if !ok {
		return util.NewInvalidStatus(input.Status)
	}

	changedBy := strings.TrimSpace(input.ChangedBy)
	if changedBy == "" {
		changedBy = "admin"
	}

	err := s.tickets.UpdateStatus(ctx, id, repository.StatusChange{
		Status:          status,
		AssignedTo:      input.AssignedTo,
		ResolutionNotes: input.ResolutionNotes,
		ChangedBy:       changedBy,
	})
	if err != nil {
		return err
	}

	s.metrics.StatusTransitions.WithLabelValues(string(status)).Inc()
	s.logger.Info("ticket status updated",
		zap.Int64("ticket_id", id),
		zap.String("status", string(status)),
		zap.String("changed_by", changedBy),
	)
	return nil
}

// AddTag attaches a case-normalized tag. Re-adding an existing tag is a
// no-op reported as added=false.
func (s *TicketService) AddTag(ctx context.Context, id int64, name string) (bool, error) {
	tag := domain.NormalizeTag(name)
	if tag == "" {
		return false, util.NewValidationError("tag name required", nil)
	}
	added, err := s.tickets.AddTag(ctx, id, tag)
	if err != nil {
		return false, err
	}
	if added {
		s.metrics.TagMutations.WithLabelValues("add").Inc()
	}
	return added, nil
}

// RemoveTag detaches a tag; removing a missing tag is a no-op reported as
// removed=false, never an error.
func (s *TicketService) RemoveTag(ctx context.Context, id int64, name string) (bool, error) {
	tag := domain.NormalizeTag(name)
	if tag == "" {
		return false, util.NewValidationError("tag name required", nil)
	}
	removed, err := s.tickets.RemoveTag(ctx, id, tag)
	if err != nil {
		return false, err
	}
	if removed {
		s.metrics.TagMutations.WithLabelValues("remove").Inc()
	}
	return removed, nil
}

// GetHistory returns the audit trail, newest first.
func (s *TicketService) GetHistory(ctx context.Context, id int64) ([]domain.TicketHistory, error) {
	history, err := s.tickets.GetHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []domain.TicketHistory{}
	}
	return history, nil
}
