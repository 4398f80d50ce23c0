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

// supplierRepository implements the SupplierRepository interface using PostgreSQL.
type supplierRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSupplierRepository creates a new PostgreSQL-backed supplier repository.
func NewSupplierRepository(pool *pgxpool.Pool, logger zerolog.Logger) SupplierRepository {
	return &supplierRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "supplier").Logger(),
	}
}

// List retrieves suppliers with pagination support.
func (r *supplierRepository) List(ctx context.Context, limit, offset int) ([]model.Supplier, error) {
	query := `
		SELECT id, name, contact, phone, created_at, updated_at
		FROM suppliers
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query suppliers")
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []model.Supplier
	for rows.Next() {
		var s model.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Contact, &s.Phone, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan supplier row: %w", err)
		}
		suppliers = append(suppliers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating supplier rows: %w", err)
	}
	return suppliers, nil
}

// GetByID retrieves a single supplier by its ID.
func (r *supplierRepository) GetByID(ctx context.Context, id int64) (*model.Supplier, error) {
	query := `SELECT id, name, contact, phone, created_at, updated_at FROM suppliers WHERE id = $1`

	var s model.Supplier
	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.Contact, &s.Phone, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("supplier_id", id).Msg("failed to query supplier")
		return nil, fmt.Errorf("failed to query supplier: %w", err)
	}
	return &s, nil
}

// Insert creates a supplier and assigns its ID.
func (r *supplierRepository) Insert(ctx context.Context, supplier *model.Supplier) error {
	query := `
		INSERT INTO suppliers (name, contact, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		supplier.Name, supplier.Contact, supplier.Phone,
		supplier.CreatedAt, supplier.UpdatedAt,
	).Scan(&supplier.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("name", supplier.Name).Msg("failed to insert supplier")
		return fmt.Errorf("failed to insert supplier: %w", err)
	}

	r.logger.Debug().Int64("supplier_id", supplier.ID).Msg("supplier inserted")
	return nil
}

// Update replaces a supplier's mutable fields.
func (r *supplierRepository) Update(ctx context.Context, supplier *model.Supplier) error {
	query := `
		UPDATE suppliers
		SET name = $2, contact = $3, phone = $4, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, supplier.ID, supplier.Name, supplier.Contact, supplier.Phone)
	if err != nil {
		r.logger.Error().Err(err).Int64("supplier_id", supplier.ID).Msg("failed to update supplier")
		return fmt.Errorf("failed to update supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSupplierNotFound
	}
	return nil
}

// Delete removes a supplier.
func (r *supplierRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("supplier_id", id).Msg("failed to delete supplier")
		return fmt.Errorf("failed to delete supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSupplierNotFound
	}
	return nil
}
