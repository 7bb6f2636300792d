package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/events"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// AcceptOrderCommandHandler arbitrates the race among couriers accepting the
// same competing order. The read-check-write sequence commits through a
// compare-and-swap update, so when two couriers accept within milliseconds of
// each other exactly one write lands; the loser observes ErrCompetitionClosed
// and must refresh order state instead of retrying blindly.
//
// Losing couriers are notified asynchronously after the winner's transaction
// commits. That notification is best-effort and never blocks or fails the
// winner.
type AcceptOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewAcceptOrderCommandHandler creates a handler for competition acceptance.
func NewAcceptOrderCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.Notifier,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) AcceptOrderCommandHandler {
	return AcceptOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle processes one courier's acceptance attempt.
//
// Returns order.ErrCompetitionClosed when the order is no longer competing or
// another acceptor committed first, and order.ErrNotEligible when the caller
// was never in the candidate set.
func (h *AcceptOrderCommandHandler) Handle(ctx context.Context, cmd AcceptOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	o, losers, err := h.attempt(ctx, cmd, now)
	if errors.Is(err, errs.ErrConcurrencyConflict) {
		// The version moved between our read and write, but the writer is
		// not necessarily a rival acceptor: an emergency flag or priority
		// change bumps it too. Re-read once and let the fresh aggregate
		// decide whether the competition is actually over.
		o, losers, err = h.attempt(ctx, cmd, now)
		if errors.Is(err, errs.ErrConcurrencyConflict) {
			return order.ErrCompetitionClosed
		}
	}
	if err != nil {
		return err
	}

	h.notifyLosers(ctx, o, losers)
	h.publish(ctx, events.OrderAssigned{
		OrderID:    o.ID().String(),
		Courier:    cmd.Courier().String(),
		Reason:     order.AssignReasonCompetition,
		AssignedAt: now,
	})
	return nil
}

func (h *AcceptOrderCommandHandler) attempt(
	ctx context.Context, cmd AcceptOrderCommand, now time.Time,
) (*order.Order, []kernel.Email, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderRef())
	if err != nil {
		return nil, nil, err
	}

	losers, err := o.Accept(cmd.Courier(), now)
	if err != nil {
		return nil, nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, nil, err
	}

	return o, losers, nil
}

func (h *AcceptOrderCommandHandler) notifyLosers(ctx context.Context, o *order.Order, losers []kernel.Email) {
	for _, loser := range losers {
		err := h.notifier.Notify(ctx, ports.Notification{
			Recipient: loser,
			OrderID:   o.ID(),
			Subject:   "delivery taken",
			Body:      fmt.Sprintf("order %s was accepted by another courier", o.ID()),
		})
		if err != nil {
			h.logger.Warn("loser notification failed",
				"orderId", o.ID().String(), "recipient", loser.String(), "error", err)
		}
	}
}

func (h *AcceptOrderCommandHandler) publish(ctx context.Context, event events.DomainEvent) {
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("event publish failed", "event", event.Name(), "key", event.Key(), "error", err)
	}
}
