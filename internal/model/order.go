package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemMode says how an order line item consumes stock.
type ItemMode string

const (
	// ItemModeCarton consumes one whole carton.
	ItemModeCarton ItemMode = "carton"
	// ItemModeLoose consumes a partial quantity from one open carton.
	ItemModeLoose ItemMode = "loose"
	// ItemModeAuto is a request for a total unit quantity, expanded into
	// carton-mode items before the order is written. It never reaches
	// storage.
	ItemModeAuto ItemMode = "auto"
)

// IsValid reports whether the mode is one of the known values.
func (m ItemMode) IsValid() bool {
	switch m {
	case ItemModeCarton, ItemModeLoose, ItemModeAuto:
		return true
	}
	return false
}

// OrderStatus is the outer fulfilment status of an order. It is
// independent of the carton booking machine.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderItem represents a line item in an order.
type OrderItem struct {
	ID        int64           `json:"-" db:"id"`
	OrderID   int64           `json:"-" db:"order_id"`
	Mode      ItemMode        `json:"mode" db:"mode"`
	CartonID  int64           `json:"cartonId" db:"carton_id"`
	ProductID int64           `json:"productId" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice" db:"unit_price"`
	LineTotal decimal.Decimal `json:"lineTotal" db:"line_total"`
}

// Order represents a customer order. Items hold only carton and loose
// modes once persisted.
type Order struct {
	ID              int64           `json:"id" db:"id"`
	Reference       uuid.UUID       `json:"reference" db:"reference"`
	CustomerName    string          `json:"customerName" db:"customer_name"`
	CustomerPhone   string          `json:"customerPhone" db:"customer_phone"`
	DeliveryAddress string          `json:"deliveryAddress" db:"delivery_address"`
	Items           []OrderItem     `json:"items" db:"-"`
	Subtotal        decimal.Decimal `json:"subtotal" db:"subtotal"`
	DeliveryCharge  decimal.Decimal `json:"deliveryCharge" db:"delivery_charge"`
	TotalAmount     decimal.Decimal `json:"totalAmount" db:"total_amount"`
	Status          OrderStatus     `json:"status" db:"status"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderItemRequest represents a single item in an order request. For auto
// mode, Quantity is the desired total units and CartonID is ignored;
// UnitPrice overrides the product's selling price when non-zero.
type OrderItemRequest struct {
	Mode      ItemMode        `json:"mode"`
	CartonID  int64           `json:"cartonId,omitempty"`
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice,omitempty"`
}

// OrderRequest represents the request payload for creating or editing an
// order.
type OrderRequest struct {
	CustomerName    string             `json:"customerName"`
	CustomerPhone   string             `json:"customerPhone"`
	DeliveryAddress string             `json:"deliveryAddress"`
	DeliveryCharge  decimal.Decimal    `json:"deliveryCharge"`
	Items           []OrderItemRequest `json:"items"`
}

// OrderResponse represents the response payload for an order.
type OrderResponse struct {
	Order      Order     `json:"order"`
	InvoiceKey string    `json:"invoiceKey,omitempty"`
	Products   []Product `json:"products,omitempty"`
}
