// Package purchasemirror propagates order progress back to the storefront's
// purchase records. The storefront owns the purchases table; this adapter
// only flips the shipping status column and never touches anything else.
package purchasemirror

import (
	"context"

	"gorm.io/gorm"

	"dispatch/internal/pkg/errs"
)

// Shipping statuses mirrored onto the purchase record.
const (
	statusInTransit = "in_transit"
	statusDelivered = "delivered"
)

// GormPurchaseMirror implements ports.PurchaseMirror against the storefront
// database.
type GormPurchaseMirror struct {
	db *gorm.DB
}

// NewGormPurchaseMirror creates a purchase mirror bound to the given database.
func NewGormPurchaseMirror(db *gorm.DB) *GormPurchaseMirror {
	return &GormPurchaseMirror{db: db}
}

// MarkInTransit mirrors the purchase as shipped.
func (m *GormPurchaseMirror) MarkInTransit(ctx context.Context, purchaseID string) error {
	return m.setStatus(ctx, purchaseID, statusInTransit)
}

// MarkDelivered mirrors the purchase as delivered.
func (m *GormPurchaseMirror) MarkDelivered(ctx context.Context, purchaseID string) error {
	return m.setStatus(ctx, purchaseID, statusDelivered)
}

func (m *GormPurchaseMirror) setStatus(ctx context.Context, purchaseID string, status string) error {
	result := m.db.WithContext(ctx).
		Table("purchases").
		Where("id = ?", purchaseID).
		Update("shipping_status", status)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("purchase", purchaseID)
	}

	return nil
}
