package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a sellable catalogue entry.
type Product struct {
	ID               int64           `json:"id" db:"id"`
	SKU              string          `json:"sku" db:"sku"`
	Name             string          `json:"name" db:"name"`
	UnitCostPrice    decimal.Decimal `json:"unitCostPrice" db:"unit_cost_price"`
	UnitSellingPrice decimal.Decimal `json:"unitSellingPrice" db:"unit_selling_price"`
	UnitsPerCarton   int             `json:"unitsPerCarton" db:"units_per_carton"`
	CreatedAt        time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time       `json:"updatedAt" db:"updated_at"`
}

// ProductRequest represents the payload for creating or updating a product.
type ProductRequest struct {
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	UnitCostPrice    decimal.Decimal `json:"unitCostPrice"`
	UnitSellingPrice decimal.Decimal `json:"unitSellingPrice"`
	UnitsPerCarton   int             `json:"unitsPerCarton"`
}
