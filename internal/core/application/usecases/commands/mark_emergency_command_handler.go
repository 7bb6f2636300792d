package commands

import (
	"context"
	"fmt"
	"log/slog"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// MarkEmergencyCommandHandler flags an order as an emergency and re-notifies
// the couriers concerned: the assigned courier when one exists, otherwise
// every courier still eligible in an open competition.
type MarkEmergencyCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewMarkEmergencyCommandHandler creates a handler for emergency flagging.
func NewMarkEmergencyCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.Notifier,
	logger *slog.Logger,
) MarkEmergencyCommandHandler {
	return MarkEmergencyCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		logger:     logger,
	}
}

// Handle flags the order and re-triggers targeted notification.
func (h *MarkEmergencyCommandHandler) Handle(ctx context.Context, cmd MarkEmergencyCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

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

	if err = o.MarkEmergency(cmd.Reason()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.renotify(ctx, o)
	return nil
}

func (h *MarkEmergencyCommandHandler) renotify(ctx context.Context, o *order.Order) {
	var recipients []kernel.Email
	if assignee := o.AssignedTo(); assignee != nil {
		recipients = []kernel.Email{*assignee}
	} else {
		recipients = o.EligibleCouriers()
	}

	for _, recipient := range recipients {
		err := h.notifier.Notify(ctx, ports.Notification{
			Recipient: recipient,
			OrderID:   o.ID(),
			Subject:   "delivery marked as emergency",
			Body:      fmt.Sprintf("order %s is now an emergency: %s", o.ID(), o.EmergencyReason()),
		})
		if err != nil {
			h.logger.Warn("emergency notification failed",
				"orderId", o.ID().String(), "recipient", recipient.String(), "error", err)
		}
	}
}
