package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/events"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// AssignOrderCommandHandler handles manual order assignment by an operator.
// Legal from pending and competing; assigning a competing order closes its
// competition window. The target courier must exist and be available.
type AssignOrderCommandHandler struct {
	uowFactory DispatchUoWFactory
	notifier   ports.Notifier
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewAssignOrderCommandHandler creates a handler for manual assignment.
func NewAssignOrderCommandHandler(
	uowFactory DispatchUoWFactory,
	notifier ports.Notifier,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) AssignOrderCommandHandler {
	return AssignOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle assigns the order to the requested courier.
func (h *AssignOrderCommandHandler) Handle(ctx context.Context, cmd AssignOrderCommand) error {
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

	assignee, err := uow.CourierRepository().Get(ctx, cmd.Courier())
	if err != nil {
		return err
	}
	if !assignee.IsAvailable() {
		return order.ErrNotEligible
	}

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderRef())
	if err != nil {
		return err
	}

	if err = o.Assign(assignee.Email(), order.AssignReasonManual, now); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if err = h.notifier.Notify(ctx, ports.Notification{
		Recipient: assignee.Email(),
		OrderID:   o.ID(),
		Subject:   "delivery assigned",
		Body:      fmt.Sprintf("order %s in zone %s was assigned to you", o.ID(), o.Zone()),
	}); err != nil {
		h.logger.Warn("courier notification failed",
			"orderId", o.ID().String(), "recipient", assignee.Email().String(), "error", err)
	}

	if err = h.publisher.Publish(ctx, events.OrderAssigned{
		OrderID:    o.ID().String(),
		Courier:    assignee.Email().String(),
		Reason:     order.AssignReasonManual,
		AssignedAt: now,
	}); err != nil {
		h.logger.Warn("event publish failed", "orderId", o.ID().String(), "error", err)
	}

	return nil
}
