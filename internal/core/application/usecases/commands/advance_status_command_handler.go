package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/events"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// AdvanceStatusCommandHandler drives an order through its fulfillment states.
// Illegal edges are rejected by the aggregate's transition table and leave
// the order unchanged.
//
// Side effects after commit:
//   - in_transit mirrors the originating purchase as shipped
//   - delivered mirrors the purchase as delivered and retires any pending
//     notifications for the order
//
// Side effects are best-effort: a mirror or notification failure is logged,
// never surfaced, since the status change is already committed.
type AdvanceStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
	publisher  ports.EventPublisher
	mirror     ports.PurchaseMirror
	logger     *slog.Logger
}

// NewAdvanceStatusCommandHandler creates a handler for status advancement.
func NewAdvanceStatusCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.Notifier,
	publisher ports.EventPublisher,
	mirror ports.PurchaseMirror,
	logger *slog.Logger,
) AdvanceStatusCommandHandler {
	return AdvanceStatusCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		publisher:  publisher,
		mirror:     mirror,
		logger:     logger,
	}
}

// Handle advances the order to the requested status.
func (h *AdvanceStatusCommandHandler) Handle(ctx context.Context, cmd AdvanceStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderRef())
	if err != nil {
		return err
	}

	from := o.Status()
	if err = o.Advance(cmd.NewStatus(), cmd.Notes(), now); err != nil {
		if errors.Is(err, order.ErrIllegalTransition) {
			// Callers are expected to know the transition table; an illegal
			// edge points at a misbehaving client or operator.
			h.logger.Error("illegal status transition requested",
				"orderId", o.ID().String(), "from", from.String(), "to", cmd.NewStatus().String())
		}
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.fireSideEffects(ctx, o)

	if err = h.publisher.Publish(ctx, events.OrderStatusChanged{
		OrderID:   o.ID().String(),
		From:      from.String(),
		To:        o.Status().String(),
		Notes:     cmd.Notes(),
		ChangedAt: now,
	}); err != nil {
		h.logger.Warn("event publish failed", "orderId", o.ID().String(), "error", err)
	}

	return nil
}

func (h *AdvanceStatusCommandHandler) fireSideEffects(ctx context.Context, o *order.Order) {
	switch o.Status() {
	case order.InTransit:
		if err := h.mirror.MarkInTransit(ctx, o.PurchaseID()); err != nil {
			h.logger.Warn("purchase mirror failed",
				"purchaseId", o.PurchaseID(), "status", o.Status().String(), "error", err)
		}

	case order.Delivered:
		if err := h.mirror.MarkDelivered(ctx, o.PurchaseID()); err != nil {
			h.logger.Warn("purchase mirror failed",
				"purchaseId", o.PurchaseID(), "status", o.Status().String(), "error", err)
		}
		if err := h.notifier.Retire(ctx, o.ID()); err != nil {
			h.logger.Warn("notification retire failed", "orderId", o.ID().String(), "error", err)
		}
	}
}
