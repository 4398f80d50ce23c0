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

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Insert creates an order header within the transaction and assigns its ID.
func (r *orderRepository) Insert(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (reference, customer_name, customer_phone, delivery_address,
		                    subtotal, delivery_charge, total_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	err := tx.QueryRow(ctx, query,
		order.Reference, order.CustomerName, order.CustomerPhone, order.DeliveryAddress,
		order.Subtotal, order.DeliveryCharge, order.TotalAmount, order.Status,
		order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("reference", order.Reference.String()).
			Msg("failed to insert order")
		return fmt.Errorf("failed to insert order: %w", err)
	}

	r.logger.Debug().
		Int64("order_id", order.ID).
		Str("reference", order.Reference.String()).
		Msg("order inserted")

	return nil
}

// InsertItems inserts the order's line items within the transaction.
func (r *orderRepository) InsertItems(ctx context.Context, tx pgx.Tx, orderID int64, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (order_id, mode, carton_id, product_id, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, orderID, item.Mode, item.CartonID, item.ProductID,
			item.Quantity, item.UnitPrice, item.LineTotal)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Int64("order_id", orderID).
				Int64("carton_id", items[i].CartonID).
				Msg("failed to insert order item")
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	r.logger.Debug().
		Int64("order_id", orderID).
		Int("count", len(items)).
		Msg("order items inserted")

	return nil
}

// UpdateHeader updates customer fields, totals and status within the transaction.
func (r *orderRepository) UpdateHeader(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		UPDATE orders
		SET customer_name = $2, customer_phone = $3, delivery_address = $4,
		    subtotal = $5, delivery_charge = $6, total_amount = $7, status = $8,
		    updated_at = NOW()
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query,
		order.ID, order.CustomerName, order.CustomerPhone, order.DeliveryAddress,
		order.Subtotal, order.DeliveryCharge, order.TotalAmount, order.Status,
	)
	if err != nil {
		r.logger.Error().Err(err).Int64("order_id", order.ID).Msg("failed to update order")
		return fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

// DeleteItems removes all line items of an order within the transaction.
func (r *orderRepository) DeleteItems(ctx context.Context, tx pgx.Tx, orderID int64) error {
	_, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		r.logger.Error().Err(err).Int64("order_id", orderID).Msg("failed to delete order items")
		return fmt.Errorf("failed to delete order items: %w", err)
	}
	return nil
}

// Delete removes an order header within the transaction.
func (r *orderRepository) Delete(ctx context.Context, tx pgx.Tx, orderID int64) error {
	tag, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
	if err != nil {
		r.logger.Error().Err(err).Int64("order_id", orderID).Msg("failed to delete order")
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

const orderColumns = `id, reference, customer_name, customer_phone, delivery_address,
	subtotal, delivery_charge, total_amount, status, created_at, updated_at`

// GetByID retrieves an order by its ID along with its items. Returns nil
// when the order does not exist.
func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var o model.Order
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.Reference, &o.CustomerName, &o.CustomerPhone, &o.DeliveryAddress,
		&o.Subtotal, &o.DeliveryCharge, &o.TotalAmount, &o.Status,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("order_id", id).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	itemsQuery := `
		SELECT id, order_id, mode, carton_id, product_id, quantity, unit_price, line_total
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.Mode, &item.CartonID,
			&item.ProductID, &item.Quantity, &item.UnitPrice, &item.LineTotal)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return &o, nil
}

// List retrieves orders (without items) newest first.
func (r *orderRepository) List(ctx context.Context, limit, offset int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		err := rows.Scan(
			&o.ID, &o.Reference, &o.CustomerName, &o.CustomerPhone, &o.DeliveryAddress,
			&o.Subtotal, &o.DeliveryCharge, &o.TotalAmount, &o.Status,
			&o.CreatedAt, &o.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order rows: %w", err)
	}
	return orders, nil
}
