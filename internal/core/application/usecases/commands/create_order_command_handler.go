package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/events"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// CreateOrderCommandHandler handles order creation: it builds the order
// aggregate, resolves its delivery zone, runs dispatch, and persists the
// outcome in one transaction. Courier notifications and domain events go out
// after commit and are best-effort.
type CreateOrderCommandHandler struct {
	uowFactory DispatchUoWFactory
	dispatcher services.Dispatcher
	notifier   ports.Notifier
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(
	uowFactory DispatchUoWFactory,
	dispatcher services.Dispatcher,
	notifier ports.Notifier,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		notifier:   notifier,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle processes the order creation command and returns the new order's
// identifier. Dispatch happens inside the same transaction as the insert, so
// a creation either commits with its dispatch outcome or not at all.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	now := time.Now().UTC()

	newOrder, err := order.NewOrder(kernel.NewUUID(), cmd.PurchaseID(), cmd.Destination(), cmd.Items(), now)
	if err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	couriers, err := uow.CourierRepository().GetAllAvailable(ctx)
	if err != nil {
		return kernel.UUID{}, err
	}

	result, err := h.dispatcher.Dispatch(newOrder, couriers, now)
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	h.notifyAndPublish(ctx, newOrder, result, now)
	return newOrder.ID(), nil
}

func (h *CreateOrderCommandHandler) notifyAndPublish(
	ctx context.Context,
	o *order.Order,
	result services.DispatchResult,
	now time.Time,
) {
	switch result.Outcome {
	case services.OutcomeDirect:
		h.notify(ctx, result.Couriers[0], o.ID(), "delivery assigned",
			fmt.Sprintf("order %s in zone %s was assigned to you", o.ID(), o.Zone()))
		h.publish(ctx, events.OrderAssigned{
			OrderID:    o.ID().String(),
			Courier:    result.Couriers[0].String(),
			Reason:     order.AssignReasonSoleCourier,
			AssignedAt: now,
		})

	case services.OutcomeCompetition:
		for _, courier := range result.Couriers {
			h.notify(ctx, courier, o.ID(), "delivery available",
				fmt.Sprintf("order %s in zone %s is open, first to accept wins", o.ID(), o.Zone()))
		}
		h.publish(ctx, events.CompetitionOpened{
			OrderID:          o.ID().String(),
			Zone:             o.Zone(),
			EligibleCouriers: emailStrings(result.Couriers),
			OpenedAt:         now,
		})

	case services.OutcomeManual:
		h.logger.Info("order awaits manual assignment",
			"orderId", o.ID().String(), "zone", o.Zone())
	}
}

func (h *CreateOrderCommandHandler) notify(ctx context.Context, recipient kernel.Email, orderID kernel.UUID, subject, body string) {
	err := h.notifier.Notify(ctx, ports.Notification{
		Recipient: recipient,
		OrderID:   orderID,
		Subject:   subject,
		Body:      body,
	})
	if err != nil {
		h.logger.Warn("courier notification failed",
			"orderId", orderID.String(), "recipient", recipient.String(), "error", err)
	}
}

func (h *CreateOrderCommandHandler) publish(ctx context.Context, event events.DomainEvent) {
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("event publish failed", "event", event.Name(), "key", event.Key(), "error", err)
	}
}

func emailStrings(emails []kernel.Email) []string {
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		out = append(out, e.String())
	}
	return out
}
