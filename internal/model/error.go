package model

import "fmt"

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeNoCandidates      = "NO_CANDIDATES"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeCartonNotFound    = "CARTON_NOT_FOUND"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeSupplierNotFound  = "SUPPLIER_NOT_FOUND"
	ErrCodeCartonNotEligible = "CARTON_NOT_ELIGIBLE"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is a business-rule violation that maps to a 4xx response.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInsufficientStock = NewDomainError(ErrCodeInsufficientStock, "Requested quantity exceeds available carton capacity")
	ErrNoCandidates      = NewDomainError(ErrCodeNoCandidates, "No cartons available for allocation")
	ErrProductNotFound   = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrCartonNotFound    = NewDomainError(ErrCodeCartonNotFound, "Carton not found")
	ErrOrderNotFound     = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrSupplierNotFound  = NewDomainError(ErrCodeSupplierNotFound, "Supplier not found")
	ErrCartonNotEligible = NewDomainError(ErrCodeCartonNotEligible, "Carton is not eligible for this line item")
	ErrInvalidTransition = NewDomainError(ErrCodeInvalidTransition, "Carton status transition not allowed")
)

// InsufficientStockError reports how far demand exceeded supply. It matches
// ErrInsufficientStock under errors.Is so callers can branch on the kind
// without losing the quantities.
type InsufficientStockError struct {
	Desired   int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: desired %d units, %d available", e.Desired, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// ValidationError marks request-shape problems caught before any write.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
