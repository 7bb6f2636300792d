package product

import (
	"errors"
	"fmt"
)

// ErrInsufficientStock is the unwrap target for InsufficientStockError.
// Callers classify shortage failures with errors.Is against this value.
var ErrInsufficientStock = errors.New("insufficient stock")

// InsufficientStockError is returned when a reservation asks for more units
// than the selected partition holds. It is an expected, frequent outcome that
// callers surface to the end user; no partial decrement is ever applied.
type InsufficientStockError struct {
	Available int
	Requested int
}

// NewInsufficientStockError creates an InsufficientStockError with the
// partition's available quantity and the requested quantity.
func NewInsufficientStockError(available int, requested int) *InsufficientStockError {
	return &InsufficientStockError{Available: available, Requested: requested}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: available %d, requested %d", ErrInsufficientStock, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}
