package repository

import (
	"context"
	"errors"
	"fmt"

	"stockroom/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartonRepository implements the CartonRepository interface using PostgreSQL.
type cartonRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartonRepository creates a new PostgreSQL-backed carton repository.
func NewCartonRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartonRepository {
	return &cartonRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "carton").Logger(),
	}
}

const cartonColumns = `id, product_id, supplier_id, units_remaining, unit_cost, status, is_open, created_at, updated_at`

// List retrieves cartons matching the filter, oldest first.
func (r *cartonRepository) List(ctx context.Context, filter CartonFilter) ([]model.Carton, error) {
	query := `SELECT ` + cartonColumns + ` FROM cartons WHERE 1=1`
	var args []interface{}

	if filter.ProductID != 0 {
		args = append(args, filter.ProductID)
		query += fmt.Sprintf(" AND product_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.OpenOnly {
		query += " AND is_open"
	}
	if filter.WithUnits {
		query += " AND units_remaining > 0"
	}
	query += " ORDER BY id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query cartons")
		return nil, fmt.Errorf("failed to query cartons: %w", err)
	}
	defer rows.Close()

	return scanCartons(rows)
}

// GetByID retrieves a single carton by its ID.
func (r *cartonRepository) GetByID(ctx context.Context, id int64) (*model.Carton, error) {
	query := `SELECT ` + cartonColumns + ` FROM cartons WHERE id = $1`

	var c model.Carton
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.ProductID, &c.SupplierID, &c.UnitsRemaining,
		&c.UnitCost, &c.Status, &c.IsOpen, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("carton_id", id).Msg("failed to query carton")
		return nil, fmt.Errorf("failed to query carton: %w", err)
	}
	return &c, nil
}

// GetByIDs retrieves multiple cartons by their IDs.
func (r *cartonRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.Carton, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + cartonColumns + ` FROM cartons WHERE id = ANY($1) ORDER BY id`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query cartons by ids")
		return nil, fmt.Errorf("failed to query cartons by ids: %w", err)
	}
	defer rows.Close()

	return scanCartons(rows)
}

// Insert creates a carton and assigns its ID.
func (r *cartonRepository) Insert(ctx context.Context, carton *model.Carton) error {
	query := `
		INSERT INTO cartons (product_id, supplier_id, units_remaining, unit_cost, status, is_open, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		carton.ProductID, carton.SupplierID, carton.UnitsRemaining,
		carton.UnitCost, carton.Status, carton.IsOpen,
		carton.CreatedAt, carton.UpdatedAt,
	).Scan(&carton.ID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("product_id", carton.ProductID).
			Msg("failed to insert carton")
		return fmt.Errorf("failed to insert carton: %w", err)
	}

	r.logger.Debug().
		Int64("carton_id", carton.ID).
		Int64("product_id", carton.ProductID).
		Int("units", carton.UnitsRemaining).
		Msg("carton inserted")

	return nil
}

// UpdateStatusBatch flips every carton in ids from one status to another
// within the transaction. The from-status guard means a carton already
// booked by another order cannot be booked twice: the row count comes up
// short and the whole batch fails.
func (r *cartonRepository) UpdateStatusBatch(ctx context.Context, tx pgx.Tx, ids []int64, from, to model.CartonStatus) error {
	if len(ids) == 0 {
		return nil
	}

	query := `
		UPDATE cartons
		SET status = $3, updated_at = NOW()
		WHERE id = ANY($1) AND status = $2
	`

	tag, err := tx.Exec(ctx, query, ids, from, to)
	if err != nil {
		r.logger.Error().
			Err(err).
			Ints64("carton_ids", ids).
			Msg("failed to update carton statuses")
		return fmt.Errorf("failed to update carton statuses: %w", err)
	}

	if int(tag.RowsAffected()) != len(ids) {
		r.logger.Warn().
			Ints64("carton_ids", ids).
			Str("from", from.String()).
			Str("to", to.String()).
			Int64("updated", tag.RowsAffected()).
			Msg("carton status batch guard rejected update")
		return fmt.Errorf("%w: %d of %d cartons not in %s status",
			model.ErrInvalidTransition, len(ids)-int(tag.RowsAffected()), len(ids), from)
	}

	r.logger.Debug().
		Ints64("carton_ids", ids).
		Str("from", from.String()).
		Str("to", to.String()).
		Msg("carton statuses updated")

	return nil
}

// AdjustUnits adds delta to a carton's units_remaining within the
// transaction. The WHERE guard keeps the stored count non-negative; a
// violating adjustment fails before anything is written.
func (r *cartonRepository) AdjustUnits(ctx context.Context, tx pgx.Tx, id int64, delta int) error {
	if delta == 0 {
		return nil
	}

	query := `
		UPDATE cartons
		SET units_remaining = units_remaining + $2, updated_at = NOW()
		WHERE id = $1 AND units_remaining + $2 >= 0
		RETURNING units_remaining
	`

	var remaining int
	err := tx.QueryRow(ctx, query, id, delta).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.adjustUnitsFailure(ctx, tx, id, delta)
		}
		r.logger.Error().
			Err(err).
			Int64("carton_id", id).
			Int("delta", delta).
			Msg("failed to adjust carton units")
		return fmt.Errorf("failed to adjust carton units: %w", err)
	}

	r.logger.Debug().
		Int64("carton_id", id).
		Int("delta", delta).
		Int("units_remaining", remaining).
		Msg("carton units adjusted")

	return nil
}

// adjustUnitsFailure distinguishes a missing carton from one without
// enough units left.
func (r *cartonRepository) adjustUnitsFailure(ctx context.Context, tx pgx.Tx, id int64, delta int) error {
	var available int
	err := tx.QueryRow(ctx, `SELECT units_remaining FROM cartons WHERE id = $1`, id).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrCartonNotFound
		}
		return fmt.Errorf("failed to read carton units: %w", err)
	}

	r.logger.Warn().
		Int64("carton_id", id).
		Int("delta", delta).
		Int("available", available).
		Msg("units adjustment would drive carton negative")

	return &model.InsufficientStockError{Desired: -delta, Available: available}
}

// SetStatus sets a carton's status for inventory workflows outside the
// booking machine (shipped, delivered).
func (r *cartonRepository) SetStatus(ctx context.Context, id int64, status model.CartonStatus) error {
	query := `UPDATE cartons SET status = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		r.logger.Error().Err(err).Int64("carton_id", id).Msg("failed to set carton status")
		return fmt.Errorf("failed to set carton status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCartonNotFound
	}
	return nil
}

// SetOpen marks a carton opened (or closed) for loose-unit sales.
func (r *cartonRepository) SetOpen(ctx context.Context, id int64, open bool) error {
	query := `UPDATE cartons SET is_open = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, open)
	if err != nil {
		r.logger.Error().Err(err).Int64("carton_id", id).Msg("failed to set carton open flag")
		return fmt.Errorf("failed to set carton open flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCartonNotFound
	}
	return nil
}

// Delete removes a carton.
func (r *cartonRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cartons WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("carton_id", id).Msg("failed to delete carton")
		return fmt.Errorf("failed to delete carton: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCartonNotFound
	}
	return nil
}

func scanCartons(rows pgx.Rows) ([]model.Carton, error) {
	var cartons []model.Carton
	for rows.Next() {
		var c model.Carton
		err := rows.Scan(
			&c.ID, &c.ProductID, &c.SupplierID, &c.UnitsRemaining,
			&c.UnitCost, &c.Status, &c.IsOpen, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan carton row: %w", err)
		}
		cartons = append(cartons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating carton rows: %w", err)
	}
	return cartons, nil
}
