package commands

import (
	"errors"
	"math"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrReserveStockCommandIsNotConstructed = errors.New(
	"ReserveStockCommand must be created via NewReserveStockCommand constructor",
)

// ReserveStockCommand represents a request to reserve stock from one product
// partition. The version and size selectors are optional; the product's
// partition layout decides which are required.
type ReserveStockCommand struct { //nolint:recvcheck //using for validation
	productID kernel.UUID
	quantity  int
	versionID string
	sizeCode  string

	guard guard.ConstructorGuard
}

// NewReserveStockCommand creates a stock reservation command.
func NewReserveStockCommand(
	productID kernel.UUID,
	quantity int,
	versionID string,
	sizeCode string,
) (ReserveStockCommand, error) {
	cmd := ReserveStockCommand{
		versionID: strings.TrimSpace(versionID),
		sizeCode:  strings.ToUpper(strings.TrimSpace(sizeCode)),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setProductID(productID),
		cmd.setQuantity(quantity),
	); err != nil {
		return ReserveStockCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReserveStockCommand) Validate() error {
	return c.guard.Validate(ErrReserveStockCommandIsNotConstructed)
}

// ProductID returns the product whose stock is being reserved.
func (c ReserveStockCommand) ProductID() kernel.UUID {
	return c.productID
}

// Quantity returns the number of units to reserve.
func (c ReserveStockCommand) Quantity() int {
	return c.quantity
}

// VersionID returns the selected version, or "" for unversioned products.
func (c ReserveStockCommand) VersionID() string {
	return c.versionID
}

// SizeCode returns the selected size, or "" for unpartitioned products.
func (c ReserveStockCommand) SizeCode() string {
	return c.sizeCode
}

func (c *ReserveStockCommand) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}

	c.productID = productID
	return nil
}

func (c *ReserveStockCommand) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, math.MaxInt)
	}

	c.quantity = quantity
	return nil
}
