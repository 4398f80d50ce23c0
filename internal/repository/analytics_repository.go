package repository

import (
	"context"
	"fmt"
	"time"

	"stockroom/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// analyticsRepository implements the AnalyticsRepository interface using PostgreSQL.
type analyticsRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAnalyticsRepository creates a new PostgreSQL-backed analytics repository.
func NewAnalyticsRepository(pool *pgxpool.Pool, logger zerolog.Logger) AnalyticsRepository {
	return &analyticsRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "analytics").Logger(),
	}
}

// SalesSummary aggregates revenue, units and cost across orders created in
// [from, to). Cost uses the unit cost of the carton each line item drew
// from, so profit reflects the sold stock's actual intake cost.
func (r *analyticsRepository) SalesSummary(ctx context.Context, from, to time.Time) (*model.SalesSummary, error) {
	query := `
		SELECT
			COUNT(DISTINCT o.id),
			COALESCE(SUM(i.quantity), 0),
			COALESCE(SUM(i.line_total), 0),
			COALESCE(SUM(i.quantity * c.unit_cost), 0)
		FROM orders o
		JOIN order_items i ON i.order_id = o.id
		JOIN cartons c ON c.id = i.carton_id
		WHERE o.created_at >= $1 AND o.created_at < $2
		  AND o.status <> 'cancelled'
	`

	summary := &model.SalesSummary{From: from, To: to}
	var revenue, cost decimal.Decimal
	err := r.pool.QueryRow(ctx, query, from, to).Scan(
		&summary.OrderCount, &summary.UnitsSold, &revenue, &cost,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Time("from", from).
			Time("to", to).
			Msg("failed to aggregate sales summary")
		return nil, fmt.Errorf("failed to aggregate sales summary: %w", err)
	}

	summary.Revenue = revenue
	summary.Cost = cost
	summary.Profit = revenue.Sub(cost)

	r.logger.Debug().
		Int("orders", summary.OrderCount).
		Int("units", summary.UnitsSold).
		Msg("sales summary computed")

	return summary, nil
}
