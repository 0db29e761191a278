package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/feedback-portal/internal/observability"
	"github.com/spec-kit/feedback-portal/internal/repository"
)

// RetentionService retires old resolved tickets. Sweeps run only when
// invoked; there is no background schedule.
type RetentionService struct {
	tickets repository.TicketRepository
	horizon time.Duration
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewRetentionService constructs the service.
func NewRetentionService(tickets repository.TicketRepository, horizon time.Duration, metrics *observability.Metrics, logger *zap.Logger) *RetentionService {
	return &RetentionService{tickets: tickets, horizon: horizon, metrics: metrics, logger: logger}
}

// Sweep removes Resolved tickets older than the horizon together with
// their history and tag rows.
func (s *RetentionService) Sweep(ctx context.Context) (repository.SweepResult, error) {
	cutoff := time.Now().Add(-s.horizon)
	result, err := s.tickets.Sweep(ctx, cutoff)
	if err != nil {
		return repository.SweepResult{}, err
	}

	s.metrics.SweepDeletions.Add(float64(result.TicketsDeleted))
	s.logger.Info("retention sweep completed",
		zap.Time("cutoff", cutoff),
		zap.Int64("tickets_deleted", result.TicketsDeleted),
		zap.Int64("history_deleted", result.HistoryDeleted),
		zap.Int64("tags_deleted", result.TagsDeleted),
	)
	return result, nil
}
