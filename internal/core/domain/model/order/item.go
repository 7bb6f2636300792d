package order

import (
	"fmt"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrItemIsNotConstructed is returned when validating a zero-value Item.
var ErrItemIsNotConstructed = errs.NewValueIsRequiredError(
	"item must be created via NewItem constructor")

// Item is one line of an order's reservation request: a product reference by
// value with the quantity and the optional version/size selectors that pick
// the stock partition. Items are immutable after order creation.
type Item struct {
	productID kernel.UUID
	quantity  int
	versionID string
	sizeCode  string

	guard guard.ConstructorGuard
}

// NewItem creates a validated order line. versionID and sizeCode may be empty
// for products without partitioned stock; whether they are required is decided
// by the product's layout at reservation time.
func NewItem(productID kernel.UUID, quantity int, versionID string, sizeCode string) (Item, error) {
	if err := productID.Validate(); err != nil {
		return Item{}, err
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}

	return Item{
		productID: productID,
		quantity:  quantity,
		versionID: strings.TrimSpace(versionID),
		sizeCode:  strings.ToUpper(strings.TrimSpace(sizeCode)),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate checks that the Item was created through NewItem.
func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

// ProductID returns the referenced product's identifier.
func (i Item) ProductID() kernel.UUID {
	return i.productID
}

// Quantity returns the requested number of units.
func (i Item) Quantity() int {
	return i.quantity
}

// VersionID returns the selected product version, or "" when not applicable.
func (i Item) VersionID() string {
	return i.versionID
}

// SizeCode returns the selected size partition, or "" when not applicable.
func (i Item) SizeCode() string {
	return i.sizeCode
}
