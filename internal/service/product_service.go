package service

import (
	"context"
	"strings"
	"time"

	"stockroom/internal/model"
	"stockroom/internal/repository"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves products with pagination.
func (s *productService) List(ctx context.Context, limit, offset int) ([]model.Product, error) {
	limit, offset = clampPage(limit, offset)
	return s.productRepo.List(ctx, limit, offset)
}

// GetByID retrieves a single product; nil when absent.
func (s *productService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

// Create validates and persists a new product.
func (s *productService) Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error) {
	if err := validateProductRequest(req); err != nil {
		s.logger.Warn().Err(err).Msg("product request validation failed")
		return nil, err
	}

	now := time.Now()
	product := &model.Product{
		SKU:              req.SKU,
		Name:             req.Name,
		UnitCostPrice:    req.UnitCostPrice,
		UnitSellingPrice: req.UnitSellingPrice,
		UnitsPerCarton:   req.UnitsPerCarton,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.productRepo.Insert(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("product_id", product.ID).Str("sku", product.SKU).Msg("product created")
	return product, nil
}

// Update validates and replaces a product's fields.
func (s *productService) Update(ctx context.Context, id int64, req *model.ProductRequest) (*model.Product, error) {
	if err := validateProductRequest(req); err != nil {
		s.logger.Warn().Err(err).Int64("product_id", id).Msg("product request validation failed")
		return nil, err
	}

	existing, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, model.ErrProductNotFound
	}

	existing.SKU = req.SKU
	existing.Name = req.Name
	existing.UnitCostPrice = req.UnitCostPrice
	existing.UnitSellingPrice = req.UnitSellingPrice
	existing.UnitsPerCarton = req.UnitsPerCarton
	existing.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete removes a product.
func (s *productService) Delete(ctx context.Context, id int64) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}

func validateProductRequest(req *model.ProductRequest) error {
	if req == nil {
		return model.NewValidationError("", "product request is nil")
	}
	if strings.TrimSpace(req.SKU) == "" {
		return model.NewValidationError("sku", "sku is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return model.NewValidationError("name", "name is required")
	}
	if req.UnitSellingPrice.IsNegative() || req.UnitCostPrice.IsNegative() {
		return model.NewValidationError("price", "prices cannot be negative")
	}
	if req.UnitsPerCarton <= 0 {
		return model.NewValidationError("unitsPerCarton", "units per carton must be greater than zero")
	}
	return nil
}
