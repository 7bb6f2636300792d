package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/events"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// ExpireCompetitionsCommandHandler closes stale competition windows, moving
// the affected orders back to pending for manual assignment. Each order is
// expired in its own transaction; a compare-and-swap conflict means a courier
// accepted the order after the sweep's read, and that order is skipped.
type ExpireCompetitionsCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewExpireCompetitionsCommandHandler creates a handler for the expiry sweep.
func NewExpireCompetitionsCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.Notifier,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) ExpireCompetitionsCommandHandler {
	return ExpireCompetitionsCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle expires every competition window opened before now minus the TTL.
// Returns the number of orders actually expired.
func (h *ExpireCompetitionsCommandHandler) Handle(ctx context.Context, cmd ExpireCompetitionsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	cutoff := now.Add(-cmd.TTL())

	stale, err := h.findStale(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, ref := range stale {
		ok, err := h.expireOne(ctx, ref, now)
		if err != nil {
			h.logger.Warn("competition expiry failed", "orderId", ref, "error", err)
			continue
		}
		if ok {
			expired++
		}
	}

	return expired, nil
}

func (h *ExpireCompetitionsCommandHandler) findStale(ctx context.Context, cutoff time.Time) ([]string, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders, err := uow.OrderRepository().GetCompetingStartedBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	refs := make([]string, 0, len(orders))
	for _, o := range orders {
		refs = append(refs, o.ID().String())
	}
	return refs, nil
}

// expireOne closes one window. Returns false without error when the order was
// accepted or otherwise resolved between the sweep's read and this write.
func (h *ExpireCompetitionsCommandHandler) expireOne(ctx context.Context, ref string, now time.Time) (bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, ref)
	if err != nil {
		return false, err
	}

	former, err := o.ExpireCompetition(now)
	if err != nil {
		if errors.Is(err, order.ErrCompetitionClosed) {
			return false, nil
		}
		return false, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		if errors.Is(err, errs.ErrConcurrencyConflict) {
			return false, nil
		}
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	for _, courier := range former {
		notifyErr := h.notifier.Notify(ctx, ports.Notification{
			Recipient: courier,
			OrderID:   o.ID(),
			Subject:   "delivery window closed",
			Body:      fmt.Sprintf("the acceptance window for order %s has expired", o.ID()),
		})
		if notifyErr != nil {
			h.logger.Warn("expiry notification failed",
				"orderId", o.ID().String(), "recipient", courier.String(), "error", notifyErr)
		}
	}

	if err = h.publisher.Publish(ctx, events.CompetitionExpired{
		OrderID:        o.ID().String(),
		Zone:           o.Zone(),
		FormerCouriers: emailStrings(former),
		ExpiredAt:      now,
	}); err != nil {
		h.logger.Warn("event publish failed", "orderId", o.ID().String(), "error", err)
	}

	return true, nil
}
