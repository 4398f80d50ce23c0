package service

import (
	"context"
	"time"

	"stockroom/internal/model"
	"stockroom/internal/repository"

	"github.com/rs/zerolog"
)

// cartonService implements CartonService: inventory intake and the carton
// workflows outside the order booking machine. Booking transitions
// (received <-> booked) belong to the order service and are rejected
// here.
type cartonService struct {
	cartonRepo  repository.CartonRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartonService creates a new carton service.
func NewCartonService(
	cartonRepo repository.CartonRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) CartonService {
	return &cartonService{
		cartonRepo:  cartonRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "carton").Logger(),
	}
}

// Intake records a newly received carton. A zero unit count takes the
// product's units-per-carton default.
func (s *cartonService) Intake(ctx context.Context, req *model.CartonRequest) (*model.Carton, error) {
	if req == nil {
		return nil, model.NewValidationError("", "carton request is nil")
	}
	if req.ProductID == 0 {
		return nil, model.NewValidationError("productId", "product is required")
	}
	if req.SupplierID == 0 {
		return nil, model.NewValidationError("supplierId", "supplier is required")
	}
	if req.Units < 0 {
		return nil, model.NewValidationError("units", "units cannot be negative")
	}
	if req.UnitCost.IsNegative() {
		return nil, model.NewValidationError("unitCost", "unit cost cannot be negative")
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	units := req.Units
	if units == 0 {
		units = product.UnitsPerCarton
	}

	now := time.Now()
	carton := &model.Carton{
		ProductID:      req.ProductID,
		SupplierID:     req.SupplierID,
		UnitsRemaining: units,
		UnitCost:       req.UnitCost,
		Status:         model.CartonStatusReceived,
		IsOpen:         req.IsOpen,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.cartonRepo.Insert(ctx, carton); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("carton_id", carton.ID).
		Int64("product_id", carton.ProductID).
		Int("units", carton.UnitsRemaining).
		Msg("carton received")

	return carton, nil
}

// List retrieves cartons matching the filter.
func (s *cartonService) List(ctx context.Context, filter repository.CartonFilter) ([]model.Carton, error) {
	return s.cartonRepo.List(ctx, filter)
}

// GetByID retrieves a single carton; nil when absent.
func (s *cartonService) GetByID(ctx context.Context, id int64) (*model.Carton, error) {
	return s.cartonRepo.GetByID(ctx, id)
}

// Open marks a received carton available for loose-unit sales.
func (s *cartonService) Open(ctx context.Context, id int64) (*model.Carton, error) {
	carton, err := s.cartonRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if carton == nil {
		return nil, model.ErrCartonNotFound
	}
	if carton.Status != model.CartonStatusReceived {
		return nil, model.ErrInvalidTransition
	}

	if err := s.cartonRepo.SetOpen(ctx, id, true); err != nil {
		return nil, err
	}
	carton.IsOpen = true

	s.logger.Info().Int64("carton_id", id).Msg("carton opened for loose sales")
	return carton, nil
}

// SetStatus moves a carton along the shipped/delivered workflow. Only
// booked->shipped and shipped->delivered are legal here.
func (s *cartonService) SetStatus(ctx context.Context, id int64, status model.CartonStatus) (*model.Carton, error) {
	if !status.IsValid() {
		return nil, model.NewValidationError("status", "unknown carton status")
	}

	carton, err := s.cartonRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if carton == nil {
		return nil, model.ErrCartonNotFound
	}
	if !carton.Status.CanTransitionTo(status) {
		s.logger.Warn().
			Int64("carton_id", id).
			Str("from", carton.Status.String()).
			Str("to", status.String()).
			Msg("rejected carton status transition")
		return nil, model.ErrInvalidTransition
	}

	if err := s.cartonRepo.SetStatus(ctx, id, status); err != nil {
		return nil, err
	}
	carton.Status = status

	s.logger.Info().
		Int64("carton_id", id).
		Str("status", status.String()).
		Msg("carton status updated")

	return carton, nil
}

// Delete removes a carton. Booked cartons cannot be deleted; release them
// by editing or deleting the order that holds them.
func (s *cartonService) Delete(ctx context.Context, id int64) error {
	carton, err := s.cartonRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if carton == nil {
		return model.ErrCartonNotFound
	}
	if carton.Status == model.CartonStatusBooked {
		return model.ErrInvalidTransition
	}

	if err := s.cartonRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("carton_id", id).Msg("carton deleted")
	return nil
}
