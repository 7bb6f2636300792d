// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetStockQueryIsNotConstructed = errors.New(
	"GetStockQuery must be created via NewGetStockQuery constructor",
)

// GetStockQuery retrieves the stock level of one product partition.
// Selectors are tolerant: no selectors yield the product's aggregate stock,
// and a version without a size yields that version's total.
//
// Example:
//
//	query, _ := NewGetStockQuery(productID, "floral", "M")
//	stock, err := handler.Handle(ctx, query)
type GetStockQuery struct { //nolint:recvcheck //using for validation
	productID kernel.UUID
	versionID string
	sizeCode  string

	guard guard.ConstructorGuard
}

// NewGetStockQuery creates a stock level query.
func NewGetStockQuery(productID kernel.UUID, versionID string, sizeCode string) (GetStockQuery, error) {
	q := GetStockQuery{
		versionID: strings.TrimSpace(versionID),
		sizeCode:  strings.ToUpper(strings.TrimSpace(sizeCode)),
		guard:     guard.NewConstructorGuard(),
	}

	if err := q.setProductID(productID); err != nil {
		return GetStockQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetStockQuery) Validate() error {
	return q.guard.Validate(ErrGetStockQueryIsNotConstructed)
}

// ProductID returns the queried product.
func (q GetStockQuery) ProductID() kernel.UUID {
	return q.productID
}

// VersionID returns the version selector, or "".
func (q GetStockQuery) VersionID() string {
	return q.versionID
}

// SizeCode returns the size selector, or "".
func (q GetStockQuery) SizeCode() string {
	return q.sizeCode
}

func (q *GetStockQuery) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}

	q.productID = productID
	return nil
}
