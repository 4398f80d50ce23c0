package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartonStatus is the lifecycle status of an inbound stock carton.
type CartonStatus string

const (
	// CartonStatusReceived means the carton is in the warehouse and
	// available for new allocation.
	CartonStatusReceived CartonStatus = "received"
	// CartonStatusBooked means the carton is committed to a live order.
	CartonStatusBooked CartonStatus = "booked"
	// CartonStatusShipped means the carton has left the warehouse.
	CartonStatusShipped CartonStatus = "shipped"
	// CartonStatusDelivered means the carton reached the customer.
	CartonStatusDelivered CartonStatus = "delivered"
)

// IsValid reports whether the status is one of the known values.
func (s CartonStatus) IsValid() bool {
	switch s {
	case CartonStatusReceived, CartonStatusBooked, CartonStatusShipped, CartonStatusDelivered:
		return true
	}
	return false
}

func (s CartonStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether a manual status change (outside the
// booking machine) is allowed. Booking transitions received<->booked are
// driven by the order lifecycle, not by this check.
func (s CartonStatus) CanTransitionTo(next CartonStatus) bool {
	switch s {
	case CartonStatusBooked:
		return next == CartonStatusShipped
	case CartonStatusShipped:
		return next == CartonStatusDelivered
	}
	return false
}

// Carton represents one physical unit of inbound stock.
type Carton struct {
	ID             int64           `json:"id" db:"id"`
	ProductID      int64           `json:"productId" db:"product_id"`
	SupplierID     int64           `json:"supplierId" db:"supplier_id"`
	UnitsRemaining int             `json:"unitsRemaining" db:"units_remaining"`
	UnitCost       decimal.Decimal `json:"unitCost" db:"unit_cost"`
	Status         CartonStatus    `json:"status" db:"status"`
	IsOpen         bool            `json:"isOpen" db:"is_open"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time       `json:"updatedAt" db:"updated_at"`
}

// EligibleForAuto reports whether the carton can be picked up by automatic
// allocation: in the warehouse with units left.
func (c *Carton) EligibleForAuto() bool {
	return c.Status == CartonStatusReceived && c.UnitsRemaining > 0
}

// EligibleForLoose reports whether a loose (partial-quantity) line item may
// draw from this carton. Only opened, received cartons qualify.
func (c *Carton) EligibleForLoose() bool {
	return c.Status == CartonStatusReceived && c.IsOpen && c.UnitsRemaining > 0
}

// CartonRequest represents the payload for carton intake.
type CartonRequest struct {
	ProductID  int64           `json:"productId"`
	SupplierID int64           `json:"supplierId"`
	// Units defaults to the product's units-per-carton when zero.
	Units    int             `json:"units"`
	UnitCost decimal.Decimal `json:"unitCost"`
	IsOpen   bool            `json:"isOpen"`
}
