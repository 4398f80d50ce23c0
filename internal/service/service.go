package service

import (
	"context"
	"time"

	"stockroom/internal/model"
	"stockroom/internal/repository"
)

// ProductService defines operations for catalogue management.
type ProductService interface {
	List(ctx context.Context, limit, offset int) ([]model.Product, error)
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error)
	Update(ctx context.Context, id int64, req *model.ProductRequest) (*model.Product, error)
	Delete(ctx context.Context, id int64) error
}

// SupplierService defines operations for supplier management.
type SupplierService interface {
	List(ctx context.Context, limit, offset int) ([]model.Supplier, error)
	GetByID(ctx context.Context, id int64) (*model.Supplier, error)
	Create(ctx context.Context, req *model.SupplierRequest) (*model.Supplier, error)
	Update(ctx context.Context, id int64, req *model.SupplierRequest) (*model.Supplier, error)
	Delete(ctx context.Context, id int64) error
}

// CartonService defines operations for inventory intake and the carton
// workflows that sit outside the order booking machine.
type CartonService interface {
	// Intake records a newly received carton. When the request's unit
	// count is zero the product's units-per-carton default applies.
	Intake(ctx context.Context, req *model.CartonRequest) (*model.Carton, error)

	List(ctx context.Context, filter repository.CartonFilter) ([]model.Carton, error)
	GetByID(ctx context.Context, id int64) (*model.Carton, error)

	// Open marks a carton available for loose-unit sales.
	Open(ctx context.Context, id int64) (*model.Carton, error)

	// SetStatus moves a carton along shipped/delivered workflows. Only
	// booked->shipped and shipped->delivered are allowed here.
	SetStatus(ctx context.Context, id int64, status model.CartonStatus) (*model.Carton, error)

	Delete(ctx context.Context, id int64) error
}

// OrderService defines the order lifecycle: create, edit and delete, each
// keeping carton state consistent with the order's line items.
type OrderService interface {
	Create(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error)
	Update(ctx context.Context, id int64, req *model.OrderRequest) (*model.OrderResponse, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*model.OrderResponse, error)
	List(ctx context.Context, limit, offset int) ([]model.Order, error)
}

// AnalyticsService derives sales and profit figures.
type AnalyticsService interface {
	SalesSummary(ctx context.Context, from, to time.Time) (*model.SalesSummary, error)
}
