package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/feedback-portal/internal/domain"
	"github.com/spec-kit/feedback-portal/internal/persistence"
	"github.com/spec-kit/feedback-portal/internal/repository"
)

// StatsService serves dashboard aggregations, fronted by a short-lived
// Redis cache. Cache failures degrade to a direct query.
type StatsService struct {
	stats  repository.StatsRepository
	cache  *persistence.Redis
	ttl    time.Duration
	logger *zap.Logger
}

// NewStatsService constructs the service. A zero ttl disables caching.
func NewStatsService(stats repository.StatsRepository, cache *persistence.Redis, ttl time.Duration, logger *zap.Logger) *StatsService {
	return &StatsService{stats: stats, cache: cache, ttl: ttl, logger: logger}
}

// GetStatistics aggregates over the optional creation-date window.
// Responses may be up to ttl stale.
func (s *StatsService) GetStatistics(ctx context.Context, window repository.StatsWindow) (*domain.Statistics, error) {
	key := cacheKey(window)

	if s.cacheEnabled() {
		if cached, err := s.cache.Client.Get(ctx, key).Bytes(); err == nil {
			var stats domain.Statistics
			if err := json.Unmarshal(cached, &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats, err := s.stats.Collect(ctx, window)
	if err != nil {
		return nil, err
	}

	if s.cacheEnabled() {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.cache.Client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
				s.logger.Warn("stats cache write failed", zap.Error(err))
			}
		}
	}
	return stats, nil
}

func (s *StatsService) cacheEnabled() bool {
	return s.cache != nil && s.cache.Client != nil && s.ttl > 0
}

func cacheKey(window repository.StatsWindow) string {
	from, to := "-", "-"
	if window.From != nil {
		from = window.From.UTC().Format(time.RFC3339)
	}
	if window.To != nil {
		to = window.To.UTC().Format(time.RFC3339)
	}
	return "stats:" + from + ":" + to
}
