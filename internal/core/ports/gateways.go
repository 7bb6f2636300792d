package ports

import (
	"context"

	"dispatch/internal/core/domain/events"
	"dispatch/internal/core/domain/model/kernel"
)

// Notification is a message addressed to one courier about one order.
type Notification struct {
	Recipient kernel.Email
	OrderID   kernel.UUID
	Subject   string
	Body      string
}

// Notifier delivers notifications to couriers. Delivery is best-effort:
// callers treat failures as non-fatal and must never let a notification
// error roll back a committed state change.
type Notifier interface {
	// Notify sends a notification to a courier.
	Notify(ctx context.Context, notification Notification) error

	// Retire withdraws pending notifications tied to an order, used when
	// the order reaches a terminal status.
	Retire(ctx context.Context, orderID kernel.UUID) error
}

// EventPublisher publishes domain events after state changes commit.
// Publishing is best-effort and never fails the originating command.
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
}

// PurchaseMirror propagates order progress back to the originating purchase
// record kept by the storefront.
type PurchaseMirror interface {
	// MarkInTransit mirrors the purchase as shipped.
	MarkInTransit(ctx context.Context, purchaseID string) error

	// MarkDelivered mirrors the purchase as delivered.
	MarkDelivered(ctx context.Context, purchaseID string) error
}
