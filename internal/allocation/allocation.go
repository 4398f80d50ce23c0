// Package allocation holds the pure carton-allocation core: picking
// cartons to satisfy a requested unit quantity, expanding auto line items
// into concrete carton allocations, and planning booking deltas when an
// order's line items change. Nothing in this package touches the
// database; callers pass in a snapshot and apply the results themselves.
package allocation

import (
	"sort"

	"stockroom/internal/model"
)

// Selection is the outcome of picking cartons for a requested quantity.
// Cartons are in pick order; each one is consumed in full.
type Selection struct {
	Cartons    []model.Carton
	TotalUnits int
}

// SelectCartons picks the fewest cartons whose combined remaining units
// cover desiredUnits. Candidates must already be filtered to one product
// with status received and units remaining.
//
// Cartons are tried largest first, ties broken by ascending id, and
// accumulated greedily until the running total covers the request. The
// greedy largest-first order is the accepted policy: deterministic and it
// keeps the number of opened cartons small, though it is not a guaranteed
// minimum-cardinality cover.
func SelectCartons(candidates []model.Carton, desiredUnits int) (*Selection, error) {
	if desiredUnits <= 0 {
		return nil, model.NewValidationError("quantity", "desired units must be greater than zero")
	}
	if len(candidates) == 0 {
		return nil, model.ErrNoCandidates
	}

	available := 0
	for _, c := range candidates {
		available += c.UnitsRemaining
	}
	if available < desiredUnits {
		return nil, &model.InsufficientStockError{Desired: desiredUnits, Available: available}
	}

	sorted := make([]model.Carton, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].UnitsRemaining != sorted[j].UnitsRemaining {
			return sorted[i].UnitsRemaining > sorted[j].UnitsRemaining
		}
		return sorted[i].ID < sorted[j].ID
	})

	sel := &Selection{}
	for _, c := range sorted {
		sel.Cartons = append(sel.Cartons, c)
		sel.TotalUnits += c.UnitsRemaining
		if sel.TotalUnits >= desiredUnits {
			break
		}
	}
	return sel, nil
}

// Snapshot is the in-memory view of stock the expansion works against.
type Snapshot struct {
	// Cartons indexes every known carton by id.
	Cartons map[int64]model.Carton
	// Eligible lists each product's cartons open to automatic
	// allocation (received, units remaining), keyed by product id.
	Eligible map[int64][]model.Carton
	// Products indexes products by id.
	Products map[int64]model.Product
}

// ExpandItems resolves an order request's line items against a stock
// snapshot: auto items become one carton-mode item per selected carton,
// carton items take their carton's full remaining units, loose items pass
// through with their requested quantity. The result contains only carton
// and loose modes. Expansion is pure and idempotent over a fixed
// snapshot; it must run before totals are computed and before anything is
// written.
//
// Each carton is drawn from at most once across the whole request: a
// carton named by a carton line (or picked by an earlier auto line) is
// excluded from later auto selections and cannot appear in another line,
// and loose lines against the same carton are summed against its
// remaining units.
func ExpandItems(items []model.OrderItemRequest, snap Snapshot) ([]model.OrderItem, error) {
	var expanded []model.OrderItem
	consumed := make(map[int64]bool)
	looseTaken := make(map[int64]int)

	for i, item := range items {
		product, ok := snap.Products[item.ProductID]
		if !ok {
			return nil, model.ErrProductNotFound
		}

		unitPrice := item.UnitPrice
		if unitPrice.IsZero() {
			unitPrice = product.UnitSellingPrice
		}

		switch item.Mode {
		case model.ItemModeAuto:
			var candidates []model.Carton
			for _, c := range snap.Eligible[item.ProductID] {
				if consumed[c.ID] || looseTaken[c.ID] > 0 {
					continue
				}
				candidates = append(candidates, c)
			}
			sel, err := SelectCartons(candidates, item.Quantity)
			if err != nil {
				return nil, err
			}
			for _, c := range sel.Cartons {
				consumed[c.ID] = true
				expanded = append(expanded, model.OrderItem{
					Mode:      model.ItemModeCarton,
					CartonID:  c.ID,
					ProductID: item.ProductID,
					Quantity:  c.UnitsRemaining,
					UnitPrice: unitPrice,
					LineTotal: unitPrice.Mul(decimalFromInt(c.UnitsRemaining)),
				})
			}

		case model.ItemModeCarton:
			carton, ok := snap.Cartons[item.CartonID]
			if !ok {
				return nil, model.ErrCartonNotFound
			}
			if carton.ProductID != item.ProductID {
				return nil, model.NewValidationError(itemField(i, "cartonId"), "carton does not hold this product")
			}
			if !carton.EligibleForAuto() {
				return nil, model.ErrCartonNotEligible
			}
			if consumed[carton.ID] || looseTaken[carton.ID] > 0 {
				return nil, model.NewValidationError(itemField(i, "cartonId"), "carton already used by another line item")
			}
			consumed[carton.ID] = true
			expanded = append(expanded, model.OrderItem{
				Mode:      model.ItemModeCarton,
				CartonID:  carton.ID,
				ProductID: item.ProductID,
				Quantity:  carton.UnitsRemaining,
				UnitPrice: unitPrice,
				LineTotal: unitPrice.Mul(decimalFromInt(carton.UnitsRemaining)),
			})

		case model.ItemModeLoose:
			carton, ok := snap.Cartons[item.CartonID]
			if !ok {
				return nil, model.ErrCartonNotFound
			}
			if carton.ProductID != item.ProductID {
				return nil, model.NewValidationError(itemField(i, "cartonId"), "carton does not hold this product")
			}
			if !carton.EligibleForLoose() {
				return nil, model.ErrCartonNotEligible
			}
			if consumed[carton.ID] {
				return nil, model.NewValidationError(itemField(i, "cartonId"), "carton already used by another line item")
			}
			if looseTaken[carton.ID]+item.Quantity > carton.UnitsRemaining {
				return nil, &model.InsufficientStockError{
					Desired:   looseTaken[carton.ID] + item.Quantity,
					Available: carton.UnitsRemaining,
				}
			}
			looseTaken[carton.ID] += item.Quantity
			expanded = append(expanded, model.OrderItem{
				Mode:      model.ItemModeLoose,
				CartonID:  carton.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: unitPrice,
				LineTotal: unitPrice.Mul(decimalFromInt(item.Quantity)),
			})

		default:
			return nil, model.NewValidationError(itemField(i, "mode"), "unknown line item mode")
		}
	}

	return expanded, nil
}
