package service

import (
	"context"
	"time"

	"stockroom/internal/model"
	"stockroom/internal/repository"

	"github.com/rs/zerolog"
)

// analyticsService implements AnalyticsService.
type analyticsService struct {
	analyticsRepo repository.AnalyticsRepository
	logger        zerolog.Logger
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(analyticsRepo repository.AnalyticsRepository, logger zerolog.Logger) AnalyticsService {
	return &analyticsService{
		analyticsRepo: analyticsRepo,
		logger:        logger.With().Str("service", "analytics").Logger(),
	}
}

// SalesSummary aggregates sales figures for [from, to). An empty range
// defaults to the last 30 days.
func (s *analyticsService) SalesSummary(ctx context.Context, from, to time.Time) (*model.SalesSummary, error) {
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	if !from.Before(to) {
		return nil, model.NewValidationError("from", "range start must be before range end")
	}

	return s.analyticsRepo.SalesSummary(ctx, from, to)
}
