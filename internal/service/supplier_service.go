package service

import (
	"context"
	"strings"
	"time"

	"stockroom/internal/model"
	"stockroom/internal/repository"

	"github.com/rs/zerolog"
)

// supplierService implements SupplierService.
type supplierService struct {
	supplierRepo repository.SupplierRepository
	logger       zerolog.Logger
}

// NewSupplierService creates a new supplier service.
func NewSupplierService(supplierRepo repository.SupplierRepository, logger zerolog.Logger) SupplierService {
	return &supplierService{
		supplierRepo: supplierRepo,
		logger:       logger.With().Str("service", "supplier").Logger(),
	}
}

func (s *supplierService) List(ctx context.Context, limit, offset int) ([]model.Supplier, error) {
	limit, offset = clampPage(limit, offset)
	return s.supplierRepo.List(ctx, limit, offset)
}

func (s *supplierService) GetByID(ctx context.Context, id int64) (*model.Supplier, error) {
	return s.supplierRepo.GetByID(ctx, id)
}

func (s *supplierService) Create(ctx context.Context, req *model.SupplierRequest) (*model.Supplier, error) {
	if err := validateSupplierRequest(req); err != nil {
		s.logger.Warn().Err(err).Msg("supplier request validation failed")
		return nil, err
	}

	now := time.Now()
	supplier := &model.Supplier{
		Name:      req.Name,
		Contact:   req.Contact,
		Phone:     req.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.supplierRepo.Insert(ctx, supplier); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("supplier_id", supplier.ID).Str("name", supplier.Name).Msg("supplier created")
	return supplier, nil
}

func (s *supplierService) Update(ctx context.Context, id int64, req *model.SupplierRequest) (*model.Supplier, error) {
	if err := validateSupplierRequest(req); err != nil {
		s.logger.Warn().Err(err).Int64("supplier_id", id).Msg("supplier request validation failed")
		return nil, err
	}

	existing, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, model.ErrSupplierNotFound
	}

	existing.Name = req.Name
	existing.Contact = req.Contact
	existing.Phone = req.Phone
	existing.UpdatedAt = time.Now()

	if err := s.supplierRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *supplierService) Delete(ctx context.Context, id int64) error {
	if err := s.supplierRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("supplier_id", id).Msg("supplier deleted")
	return nil
}

func validateSupplierRequest(req *model.SupplierRequest) error {
	if req == nil {
		return model.NewValidationError("", "supplier request is nil")
	}
	if strings.TrimSpace(req.Name) == "" {
		return model.NewValidationError("name", "name is required")
	}
	return nil
}
