package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Domain error taxonomy. Handlers map these to HTTP status codes; anything
// else is treated as a persistence failure and surfaced as a 500 after the
// enclosing transaction has been rolled back.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// InsufficientStockError is returned when an issue or write-off asks for
// more than the warehouse currently holds.
type InsufficientStockError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: available %s, requested %s", e.Available, e.Requested)
}

// InsufficientAllocationError is returned when a return claims more than the
// named user currently holds.
type InsufficientAllocationError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientAllocationError) Error() string {
	return fmt.Sprintf("insufficient allocation: available %s, requested %s", e.Available, e.Requested)
}
