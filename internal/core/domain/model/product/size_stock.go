package product

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrSizeStockIsNotConstructed is returned when validating a zero-value SizeStock.
var ErrSizeStockIsNotConstructed = errs.NewValueIsRequiredError(
	"size stock must be created via NewSizeStock constructor")

// SizeStock is a quantity of stock keyed by a discrete size code, either under
// a version or flat on the product. Quantities are mutated only through the
// owning Product's Reserve and Release operations.
type SizeStock struct {
	sizeCode string
	quantity int

	guard guard.ConstructorGuard
}

// NewSizeStock creates a validated size partition. The size code is
// normalized to upper case; the quantity must not be negative.
func NewSizeStock(sizeCode string, quantity int) (SizeStock, error) {
	sizeCode = strings.ToUpper(strings.TrimSpace(sizeCode))
	if sizeCode == "" {
		return SizeStock{}, errs.NewValueIsRequiredError("sizeCode")
	}
	if quantity < 0 {
		return SizeStock{}, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is negative", quantity))
	}

	return SizeStock{
		sizeCode: sizeCode,
		quantity: quantity,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate checks that the SizeStock was created through NewSizeStock.
func (s SizeStock) Validate() error {
	return s.guard.Validate(ErrSizeStockIsNotConstructed)
}

// SizeCode returns the normalized size code.
func (s SizeStock) SizeCode() string {
	return s.sizeCode
}

// Quantity returns the units currently held by this partition.
func (s SizeStock) Quantity() int {
	return s.quantity
}

// withQuantity returns a copy of the partition holding quantity units.
// Only the owning Product may call it; quantity is never negative there.
func (s SizeStock) withQuantity(quantity int) SizeStock {
	s.quantity = quantity
	return s
}
