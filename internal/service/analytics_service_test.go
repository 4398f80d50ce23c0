package service

import (
	"context"
	"testing"
	"time"

	"stockroom/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsService_SalesSummary(t *testing.T) {
	analyticsRepo := &MockAnalyticsRepository{}
	svc := NewAnalyticsService(analyticsRepo, zerolog.Nop())

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	summary := &model.SalesSummary{
		From:       from,
		To:         to,
		OrderCount: 12,
		UnitsSold:  864,
		Revenue:    decimal.NewFromInt(4320),
		Cost:       decimal.NewFromInt(1814),
		Profit:     decimal.NewFromInt(2506),
	}
	analyticsRepo.On("SalesSummary", mock.Anything, from, to).Return(summary, nil)

	got, err := svc.SalesSummary(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, 12, got.OrderCount)
	assert.True(t, got.Profit.Equal(got.Revenue.Sub(got.Cost)))
}

func TestAnalyticsService_SalesSummary_DefaultsToLast30Days(t *testing.T) {
	analyticsRepo := &MockAnalyticsRepository{}
	svc := NewAnalyticsService(analyticsRepo, zerolog.Nop())

	analyticsRepo.On("SalesSummary", mock.Anything,
		mock.MatchedBy(func(from time.Time) bool { return !from.IsZero() }),
		mock.MatchedBy(func(to time.Time) bool { return !to.IsZero() }),
	).Return(&model.SalesSummary{}, nil)

	_, err := svc.SalesSummary(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)

	call := analyticsRepo.Calls[0]
	from := call.Arguments.Get(1).(time.Time)
	to := call.Arguments.Get(2).(time.Time)
	assert.WithinDuration(t, to.AddDate(0, 0, -30), from, time.Second)
}

func TestAnalyticsService_SalesSummary_RejectsInvertedRange(t *testing.T) {
	svc := NewAnalyticsService(&MockAnalyticsRepository{}, zerolog.Nop())

	to := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	from := to.AddDate(0, 1, 0)

	_, err := svc.SalesSummary(context.Background(), from, to)
	require.Error(t, err)

	var validationErr *model.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}
