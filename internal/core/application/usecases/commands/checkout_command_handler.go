package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/product"
	"dispatch/internal/core/ports"
)

// CheckoutCommandHandler reserves every line item of a purchase. The caller
// observes either "all items reserved" or "no net stock change": on any
// failure mid-sequence, every already-reserved item is released in reverse
// order before the triggering error propagates.
//
// Each individual reserve and release is atomic; the multi-item sequence is
// not globally locked. Concurrent checkouts against the same product may
// interleave, which is acceptable because each partition update is atomic
// and never goes negative.
type CheckoutCommandHandler struct {
	mutator stockMutator
	logger  *slog.Logger
}

// NewCheckoutCommandHandler creates a handler for multi-item reservation.
func NewCheckoutCommandHandler(
	uowFactory ProductUoWFactory,
	publisher ports.EventPublisher,
	cache StockCacheInvalidator,
	logger *slog.Logger,
) CheckoutCommandHandler {
	return CheckoutCommandHandler{
		mutator: stockMutator{
			uowFactory: uowFactory,
			publisher:  publisher,
			cache:      cache,
			logger:     logger,
		},
		logger: logger,
	}
}

// Handle reserves all items of the command.
//
// A pre-flight pass verifies availability for every item before anything is
// mutated. The pre-flight is advisory: stock can still change between it and
// the sequential reserves, so a mid-sequence shortage triggers the
// compensating rollback regardless.
func (h *CheckoutCommandHandler) Handle(ctx context.Context, cmd CheckoutCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	items := cmd.Items()
	if err := h.preflight(ctx, items); err != nil {
		return err
	}

	reserved := make([]order.Item, 0, len(items))
	for _, item := range items {
		err := h.mutator.apply(ctx, item.ProductID(), item.VersionID(), item.SizeCode(), -item.Quantity())
		if err != nil {
			h.compensate(ctx, reserved)
			return err
		}
		reserved = append(reserved, item)
	}

	return nil
}

// preflight verifies availability for every item without mutating anything.
func (h *CheckoutCommandHandler) preflight(ctx context.Context, items []order.Item) error {
	uow := h.mutator.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	productRepo := uow.ProductRepository()
	for _, item := range items {
		p, err := productRepo.Get(ctx, item.ProductID())
		if err != nil {
			return err
		}
		available, err := p.AvailableFor(item.VersionID(), item.SizeCode())
		if err != nil {
			return err
		}
		if available < item.Quantity() {
			return product.NewInsufficientStockError(available, item.Quantity())
		}
	}

	return nil
}

// compensate releases already-reserved items in reverse order. A failed
// release is logged at error level and skipped so the remaining items still
// roll back; the triggering error propagates to the caller either way.
func (h *CheckoutCommandHandler) compensate(ctx context.Context, reserved []order.Item) {
	for i := len(reserved) - 1; i >= 0; i-- {
		item := reserved[i]
		err := h.mutator.apply(ctx, item.ProductID(), item.VersionID(), item.SizeCode(), item.Quantity())
		if err != nil {
			h.logger.Error("compensating release failed, stock left reserved",
				"productId", item.ProductID().String(),
				"versionId", item.VersionID(),
				"sizeCode", item.SizeCode(),
				"quantity", item.Quantity(),
				"error", err)
		}
	}
}
