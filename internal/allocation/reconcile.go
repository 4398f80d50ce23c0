package allocation

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"stockroom/internal/model"
)

// Plan describes the carton mutations needed to move stock state from an
// order's previous line items to its new ones.
type Plan struct {
	// ToBook are carton ids newly referenced by carton-mode items,
	// to flip received -> booked.
	ToBook []int64
	// ToUnbook are carton ids no longer referenced by carton-mode
	// items, to flip booked -> received.
	ToUnbook []int64
	// LooseDeltas maps carton id to the net unit adjustment from
	// loose-mode items: positive returns units to the carton, negative
	// consumes more.
	LooseDeltas map[int64]int
}

// IsEmpty reports whether the plan requires no carton writes.
func (p Plan) IsEmpty() bool {
	return len(p.ToBook) == 0 && len(p.ToUnbook) == 0 && len(p.LooseDeltas) == 0
}

// PlanEdit computes the carton delta between an order's previous and new
// line item sets. Both inputs must already be expanded (no auto items).
func PlanEdit(prev, next []model.OrderItem) Plan {
	prevBooked := cartonSet(prev)
	nextBooked := cartonSet(next)

	plan := Plan{LooseDeltas: make(map[int64]int)}

	for id := range nextBooked {
		if !prevBooked[id] {
			plan.ToBook = append(plan.ToBook, id)
		}
	}
	for id := range prevBooked {
		if !nextBooked[id] {
			plan.ToUnbook = append(plan.ToUnbook, id)
		}
	}

	// delta = prev loose consumption - new loose consumption
	for _, item := range prev {
		if item.Mode == model.ItemModeLoose {
			plan.LooseDeltas[item.CartonID] += item.Quantity
		}
	}
	for _, item := range next {
		if item.Mode == model.ItemModeLoose {
			plan.LooseDeltas[item.CartonID] -= item.Quantity
		}
	}
	for id, delta := range plan.LooseDeltas {
		if delta == 0 {
			delete(plan.LooseDeltas, id)
		}
	}

	sort.Slice(plan.ToBook, func(i, j int) bool { return plan.ToBook[i] < plan.ToBook[j] })
	sort.Slice(plan.ToUnbook, func(i, j int) bool { return plan.ToUnbook[i] < plan.ToUnbook[j] })

	return plan
}

// PlanCreate books everything a fresh order's items reference.
func PlanCreate(items []model.OrderItem) Plan {
	return PlanEdit(nil, items)
}

// PlanDelete reverses everything a deleted order's items held: loose
// quantities go back to their cartons and every booked carton is
// released.
func PlanDelete(prev []model.OrderItem) Plan {
	return PlanEdit(prev, nil)
}

// Subtotal sums the line totals of expanded items.
func Subtotal(items []model.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal)
	}
	return total
}

func cartonSet(items []model.OrderItem) map[int64]bool {
	set := make(map[int64]bool)
	for _, item := range items {
		if item.Mode == model.ItemModeCarton {
			set[item.CartonID] = true
		}
	}
	return set
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

func itemField(index int, field string) string {
	return fmt.Sprintf("items[%d].%s", index, field)
}
