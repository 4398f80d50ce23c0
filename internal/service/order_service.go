package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"stockroom/internal/allocation"
	"stockroom/internal/invoice"
	"stockroom/internal/model"
	"stockroom/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// orderService implements OrderService. Create, Update and Delete each run
// the order write and its carton mutations inside a single transaction, so
// a failed booking leaves no half-applied stock state behind. Invoice
// artifact handling happens after commit: a failed write or cleanup is
// logged, and the response goes out without an invoice key rather than
// hiding the committed order behind the artifact failure.
type orderService struct {
	orderRepo     repository.OrderRepository
	cartonRepo    repository.CartonRepository
	productRepo   repository.ProductRepository
	invoices      invoice.Store
	invoicePrefix string
	logger        zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartonRepo repository.CartonRepository,
	productRepo repository.ProductRepository,
	invoices invoice.Store,
	invoicePrefix string,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:     orderRepo,
		cartonRepo:    cartonRepo,
		productRepo:   productRepo,
		invoices:      invoices,
		invoicePrefix: invoicePrefix,
		logger:        logger.With().Str("service", "order").Logger(),
	}
}

// Create validates and expands the request, then persists the order and
// books its cartons in one transaction.
func (s *orderService) Create(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	if err := validateOrderRequest(req); err != nil {
		s.logger.Warn().Err(err).Msg("order request validation failed")
		return nil, err
	}

	snap, err := s.buildSnapshot(ctx, req.Items, nil)
	if err != nil {
		return nil, err
	}

	expanded, err := allocation.ExpandItems(req.Items, snap)
	if err != nil {
		s.logger.Warn().Err(err).Msg("line item expansion failed")
		return nil, err
	}

	subtotal := allocation.Subtotal(expanded)
	now := time.Now()
	order := &model.Order{
		Reference:       uuid.New(),
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		DeliveryAddress: req.DeliveryAddress,
		Subtotal:        subtotal,
		DeliveryCharge:  req.DeliveryCharge,
		TotalAmount:     subtotal.Add(req.DeliveryCharge),
		Status:          model.OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.Insert(ctx, tx, order); err != nil {
		return nil, err
	}
	if err = s.orderRepo.InsertItems(ctx, tx, order.ID, expanded); err != nil {
		return nil, err
	}
	if err = s.applyPlan(ctx, tx, allocation.PlanCreate(expanded)); err != nil {
		s.logger.Warn().Err(err).Int64("order_id", order.ID).Msg("carton booking failed, rolling back")
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	order.Items = expanded

	s.logger.Info().
		Int64("order_id", order.ID).
		Str("reference", order.Reference.String()).
		Int("item_count", len(expanded)).
		Str("total", order.TotalAmount.String()).
		Msg("order created")

	// The order is committed at this point. A failed artifact write is
	// logged inside writeInvoice and leaves the key empty.
	key, _ := s.writeInvoice(ctx, order, snap.Products)

	return &model.OrderResponse{
		Order:      *order,
		InvoiceKey: key,
		Products:   productsForItems(snap.Products, expanded),
	}, nil
}

// Update re-expands the order's line items and reconciles carton state
// against what the order previously held, all in one transaction.
func (s *orderService) Update(ctx context.Context, id int64, req *model.OrderRequest) (*model.OrderResponse, error) {
	if err := validateOrderRequest(req); err != nil {
		s.logger.Warn().Err(err).Int64("order_id", id).Msg("order request validation failed")
		return nil, err
	}

	prev, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		return nil, model.ErrOrderNotFound
	}

	snap, err := s.buildSnapshot(ctx, req.Items, prev.Items)
	if err != nil {
		return nil, err
	}

	expanded, err := allocation.ExpandItems(req.Items, snap)
	if err != nil {
		s.logger.Warn().Err(err).Int64("order_id", id).Msg("line item expansion failed")
		return nil, err
	}

	subtotal := allocation.Subtotal(expanded)
	order := &model.Order{
		ID:              prev.ID,
		Reference:       prev.Reference,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		DeliveryAddress: req.DeliveryAddress,
		Subtotal:        subtotal,
		DeliveryCharge:  req.DeliveryCharge,
		TotalAmount:     subtotal.Add(req.DeliveryCharge),
		Status:          prev.Status,
		CreatedAt:       prev.CreatedAt,
		UpdatedAt:       time.Now(),
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.UpdateHeader(ctx, tx, order); err != nil {
		return nil, err
	}
	if err = s.orderRepo.DeleteItems(ctx, tx, order.ID); err != nil {
		return nil, err
	}
	if err = s.orderRepo.InsertItems(ctx, tx, order.ID, expanded); err != nil {
		return nil, err
	}
	if err = s.applyPlan(ctx, tx, allocation.PlanEdit(prev.Items, expanded)); err != nil {
		s.logger.Warn().Err(err).Int64("order_id", id).Msg("carton reconciliation failed, rolling back")
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	order.Items = expanded

	s.logger.Info().
		Int64("order_id", order.ID).
		Int("item_count", len(expanded)).
		Msg("order updated")

	key, _ := s.writeInvoice(ctx, order, snap.Products)

	return &model.OrderResponse{
		Order:      *order,
		InvoiceKey: key,
		Products:   productsForItems(snap.Products, expanded),
	}, nil
}

// Delete returns the order's stock to its cartons, removes the order and
// then tries to clean up the invoice artifact. Artifact cleanup is best
// effort: a failure is logged and does not block the delete.
func (s *orderService) Delete(ctx context.Context, id int64) error {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order == nil {
		return model.ErrOrderNotFound
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.applyPlan(ctx, tx, allocation.PlanDelete(order.Items)); err != nil {
		return err
	}
	if err = s.orderRepo.DeleteItems(ctx, tx, id); err != nil {
		return err
	}
	if err = s.orderRepo.Delete(ctx, tx, id); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	s.logger.Info().
		Int64("order_id", id).
		Str("reference", order.Reference.String()).
		Msg("order deleted")

	if cleanupErr := s.invoices.Delete(ctx, invoice.Key(s.invoicePrefix, order)); cleanupErr != nil {
		s.logger.Warn().
			Err(cleanupErr).
			Int64("order_id", id).
			Msg("failed to remove invoice artifact")
	}

	return nil
}

// GetByID retrieves an order with its items and the products it touches.
func (s *orderService) GetByID(ctx context.Context, id int64) (*model.OrderResponse, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}

	productIDs := make(map[int64]bool)
	for _, item := range order.Items {
		productIDs[item.ProductID] = true
	}
	products, err := s.productRepo.GetByIDs(ctx, mapKeys(productIDs))
	if err != nil {
		return nil, err
	}

	return &model.OrderResponse{
		Order:      *order,
		InvoiceKey: invoice.Key(s.invoicePrefix, order),
		Products:   products,
	}, nil
}

// List retrieves orders, newest first.
func (s *orderService) List(ctx context.Context, limit, offset int) ([]model.Order, error) {
	limit, offset = clampPage(limit, offset)
	return s.orderRepo.List(ctx, limit, offset)
}

// applyPlan applies a reconciliation plan inside the transaction: loose
// unit deltas first in ascending carton order, then unbooking, then
// booking. The step order only affects which carton an error names; the
// transaction makes the outcome all-or-nothing either way.
func (s *orderService) applyPlan(ctx context.Context, tx pgx.Tx, plan allocation.Plan) error {
	ids := make([]int64, 0, len(plan.LooseDeltas))
	for id := range plan.LooseDeltas {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		if err := s.cartonRepo.AdjustUnits(ctx, tx, id, plan.LooseDeltas[id]); err != nil {
			return err
		}
	}

	if err := s.cartonRepo.UpdateStatusBatch(ctx, tx, plan.ToUnbook,
		model.CartonStatusBooked, model.CartonStatusReceived); err != nil {
		return err
	}
	if err := s.cartonRepo.UpdateStatusBatch(ctx, tx, plan.ToBook,
		model.CartonStatusReceived, model.CartonStatusBooked); err != nil {
		return err
	}
	return nil
}

// buildSnapshot loads the cartons and products the request touches. For an
// edit, prev holds the order's currently stored items; their consumption
// is folded back into the snapshot so the order can keep or re-allocate
// its own cartons.
func (s *orderService) buildSnapshot(ctx context.Context, items []model.OrderItemRequest, prev []model.OrderItem) (allocation.Snapshot, error) {
	snap := allocation.Snapshot{
		Cartons:  make(map[int64]model.Carton),
		Eligible: make(map[int64][]model.Carton),
		Products: make(map[int64]model.Product),
	}

	productIDs := make(map[int64]bool)
	autoProducts := make(map[int64]bool)
	cartonIDs := make(map[int64]bool)
	for _, item := range items {
		productIDs[item.ProductID] = true
		if item.Mode == model.ItemModeAuto {
			autoProducts[item.ProductID] = true
		} else if item.CartonID != 0 {
			cartonIDs[item.CartonID] = true
		}
	}
	for _, item := range prev {
		cartonIDs[item.CartonID] = true
	}

	products, err := s.productRepo.GetByIDs(ctx, mapKeys(productIDs))
	if err != nil {
		return snap, err
	}
	for _, p := range products {
		snap.Products[p.ID] = p
	}
	for id := range productIDs {
		if _, ok := snap.Products[id]; !ok {
			return snap, model.ErrProductNotFound
		}
	}

	cartons, err := s.cartonRepo.GetByIDs(ctx, mapKeys(cartonIDs))
	if err != nil {
		return snap, err
	}
	for _, c := range cartons {
		snap.Cartons[c.ID] = c
	}

	for productID := range autoProducts {
		eligible, err := s.cartonRepo.List(ctx, repository.CartonFilter{
			ProductID: productID,
			Status:    model.CartonStatusReceived,
			WithUnits: true,
		})
		if err != nil {
			return snap, err
		}
		for _, c := range eligible {
			snap.Cartons[c.ID] = c
		}
	}

	// Fold the order's previous consumption back in so the edit sees
	// the stock it would have if this order did not exist.
	for _, item := range prev {
		c, ok := snap.Cartons[item.CartonID]
		if !ok {
			continue
		}
		switch item.Mode {
		case model.ItemModeCarton:
			if c.Status == model.CartonStatusBooked {
				c.Status = model.CartonStatusReceived
			}
		case model.ItemModeLoose:
			c.UnitsRemaining += item.Quantity
		}
		snap.Cartons[item.CartonID] = c
	}

	for _, c := range snap.Cartons {
		if autoProducts[c.ProductID] && c.EligibleForAuto() {
			snap.Eligible[c.ProductID] = append(snap.Eligible[c.ProductID], c)
		}
	}

	return snap, nil
}

// writeInvoice renders and stores the order's invoice artifact, returning
// its key.
func (s *orderService) writeInvoice(ctx context.Context, order *model.Order, products map[int64]model.Product) (string, error) {
	key := invoice.Key(s.invoicePrefix, order)
	if err := s.invoices.Put(ctx, key, invoice.Render(order, products)); err != nil {
		s.logger.Error().
			Err(err).
			Int64("order_id", order.ID).
			Str("key", key).
			Msg("failed to store invoice artifact")
		return "", fmt.Errorf("failed to store invoice artifact: %w", err)
	}
	return key, nil
}

// validateOrderRequest checks request shape before anything is loaded or
// written.
func validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return model.NewValidationError("", "order request is nil")
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return model.NewValidationError("customerName", "customer name is required")
	}
	if len(req.Items) == 0 {
		return model.NewValidationError("items", "order must contain at least one item")
	}
	if req.DeliveryCharge.IsNegative() {
		return model.NewValidationError("deliveryCharge", "delivery charge cannot be negative")
	}

	for i, item := range req.Items {
		if !item.Mode.IsValid() {
			return model.NewValidationError(itemField(i, "mode"), "unknown line item mode")
		}
		if item.ProductID == 0 {
			return model.NewValidationError(itemField(i, "productId"), "product is required")
		}
		switch item.Mode {
		case model.ItemModeCarton, model.ItemModeLoose:
			if item.CartonID == 0 {
				return model.NewValidationError(itemField(i, "cartonId"), "carton is required")
			}
		}
		if item.Mode != model.ItemModeCarton && item.Quantity <= 0 {
			return model.NewValidationError(itemField(i, "quantity"), "quantity must be greater than zero")
		}
		if item.UnitPrice.IsNegative() {
			return model.NewValidationError(itemField(i, "unitPrice"), "unit price cannot be negative")
		}
	}

	return nil
}

func itemField(index int, field string) string {
	return fmt.Sprintf("items[%d].%s", index, field)
}

func productsForItems(products map[int64]model.Product, items []model.OrderItem) []model.Product {
	seen := make(map[int64]bool)
	var out []model.Product
	for _, item := range items {
		if seen[item.ProductID] {
			continue
		}
		seen[item.ProductID] = true
		if p, ok := products[item.ProductID]; ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func mapKeys(m map[int64]bool) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
