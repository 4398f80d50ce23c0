package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummary aggregates sales and profit figures over a date range.
// Cost is taken from the consumed cartons' unit cost, so profit reflects
// what the sold stock actually cost, not the catalogue cost price.
type SalesSummary struct {
	From       time.Time       `json:"from"`
	To         time.Time       `json:"to"`
	OrderCount int             `json:"orderCount"`
	UnitsSold  int             `json:"unitsSold"`
	Revenue    decimal.Decimal `json:"revenue"`
	Cost       decimal.Decimal `json:"cost"`
	Profit     decimal.Decimal `json:"profit"`
}
