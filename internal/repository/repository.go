package repository

import (
	"context"
	"time"

	"stockroom/internal/model"

	"github.com/jackc/pgx/v5"
)

// CartonFilter narrows carton listings.
type CartonFilter struct {
	ProductID int64
	Status    model.CartonStatus
	OpenOnly  bool
	WithUnits bool // only cartons with units_remaining > 0
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// List retrieves all products with pagination support.
	List(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []int64) ([]model.Product, error)

	// Insert creates a product and assigns its ID.
	Insert(ctx context.Context, product *model.Product) error

	// Update replaces a product's mutable fields.
	Update(ctx context.Context, product *model.Product) error

	// Delete removes a product.
	Delete(ctx context.Context, id int64) error
}

// SupplierRepository defines the interface for supplier data access operations.
type SupplierRepository interface {
	List(ctx context.Context, limit, offset int) ([]model.Supplier, error)
	GetByID(ctx context.Context, id int64) (*model.Supplier, error)
	Insert(ctx context.Context, supplier *model.Supplier) error
	Update(ctx context.Context, supplier *model.Supplier) error
	Delete(ctx context.Context, id int64) error
}

// CartonRepository defines the interface for carton data access operations.
// Booking mutations run inside a caller-provided transaction so an order
// write and its carton adjustments commit or fail as one unit.
type CartonRepository interface {
	// List retrieves cartons matching the filter, oldest first.
	List(ctx context.Context, filter CartonFilter) ([]model.Carton, error)

	// GetByID retrieves a single carton.
	GetByID(ctx context.Context, id int64) (*model.Carton, error)

	// GetByIDs retrieves multiple cartons by their IDs.
	GetByIDs(ctx context.Context, ids []int64) ([]model.Carton, error)

	// Insert creates a carton and assigns its ID.
	Insert(ctx context.Context, carton *model.Carton) error

	// UpdateStatusBatch flips every carton in ids from one status to
	// another. It fails if any carton is missing or not in the from
	// status, so a carton already booked elsewhere cannot be booked
	// again.
	UpdateStatusBatch(ctx context.Context, tx pgx.Tx, ids []int64, from, to model.CartonStatus) error

	// AdjustUnits adds delta (possibly negative) to a carton's
	// units_remaining. The write is guarded so the count can never go
	// below zero; a violating adjustment fails with InsufficientStock
	// and leaves the row unchanged.
	AdjustUnits(ctx context.Context, tx pgx.Tx, id int64, delta int) error

	// SetStatus sets a carton's status outside the booking machine
	// (shipped / delivered workflows).
	SetStatus(ctx context.Context, id int64, status model.CartonStatus) error

	// SetOpen marks a carton opened (or closed) for loose-unit sales.
	SetOpen(ctx context.Context, id int64, open bool) error

	// Delete removes a carton.
	Delete(ctx context.Context, id int64) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Insert creates an order header within the transaction and
	// assigns its ID.
	Insert(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// InsertItems inserts the order's line items within the transaction.
	InsertItems(ctx context.Context, tx pgx.Tx, orderID int64, items []model.OrderItem) error

	// UpdateHeader updates customer fields, totals and status within
	// the transaction.
	UpdateHeader(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// DeleteItems removes all line items of an order within the
	// transaction.
	DeleteItems(ctx context.Context, tx pgx.Tx, orderID int64) error

	// Delete removes an order header within the transaction.
	Delete(ctx context.Context, tx pgx.Tx, orderID int64) error

	// GetByID retrieves an order with its items; nil when absent.
	GetByID(ctx context.Context, id int64) (*model.Order, error)

	// List retrieves orders (without items) newest first.
	List(ctx context.Context, limit, offset int) ([]model.Order, error)
}

// AnalyticsRepository derives sales figures from stored orders.
type AnalyticsRepository interface {
	// SalesSummary aggregates revenue, cost and profit for orders
	// created in [from, to).
	SalesSummary(ctx context.Context, from, to time.Time) (*model.SalesSummary, error)
}
