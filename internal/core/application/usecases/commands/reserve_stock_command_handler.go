package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/events"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// maxStockAttempts bounds the compare-and-swap retry loop for stock
// mutations. Each attempt re-reads the product, so a conflict means another
// writer landed between our read and write and a fresh attempt sees the
// updated state.
const maxStockAttempts = 3

// StockCacheInvalidator drops cached stock readings for a product after a
// committed mutation.
type StockCacheInvalidator interface {
	InvalidateProduct(productID string)
}

// stockMutator is the shared read-mutate-write machinery behind stock
// reservation and release. A negative delta reserves, a positive delta
// releases. The persist is a compare-and-swap, so concurrent mutations
// against the same product never double-spend and a partition never goes
// negative.
type stockMutator struct {
	uowFactory ProductUoWFactory
	publisher  ports.EventPublisher
	cache      StockCacheInvalidator
	logger     *slog.Logger
}

func (m stockMutator) apply(ctx context.Context, productID kernel.UUID, versionID, sizeCode string, delta int) error {
	var err error
	for attempt := 0; attempt < maxStockAttempts; attempt++ {
		if err = m.tryApply(ctx, productID, versionID, sizeCode, delta); !errors.Is(err, errs.ErrConcurrencyConflict) {
			return err
		}
	}
	return err
}

func (m stockMutator) tryApply(ctx context.Context, productID kernel.UUID, versionID, sizeCode string, delta int) error {
	uow := m.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	productRepo := uow.ProductRepository()
	p, err := productRepo.Get(ctx, productID)
	if err != nil {
		return err
	}

	if delta < 0 {
		err = p.Reserve(-delta, versionID, sizeCode)
	} else {
		err = p.Release(delta, versionID, sizeCode)
	}
	if err != nil {
		return err
	}

	if err = productRepo.Update(ctx, p); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	m.cache.InvalidateProduct(productID.String())

	remaining, _ := p.StockFor(versionID, sizeCode)
	if err = m.publisher.Publish(ctx, events.StockChanged{
		ProductID: productID.String(),
		VersionID: versionID,
		SizeCode:  sizeCode,
		Delta:     delta,
		Remaining: remaining,
		ChangedAt: time.Now().UTC(),
	}); err != nil {
		m.logger.Warn("event publish failed", "productId", productID.String(), "error", err)
	}

	return nil
}

// ReserveStockCommandHandler atomically reserves stock from one product
// partition. Shortage fails with product.InsufficientStockError before any
// mutation; a write conflict retries with fresh state.
type ReserveStockCommandHandler struct {
	mutator stockMutator
}

// NewReserveStockCommandHandler creates a handler for stock reservation.
func NewReserveStockCommandHandler(
	uowFactory ProductUoWFactory,
	publisher ports.EventPublisher,
	cache StockCacheInvalidator,
	logger *slog.Logger,
) ReserveStockCommandHandler {
	return ReserveStockCommandHandler{
		mutator: stockMutator{
			uowFactory: uowFactory,
			publisher:  publisher,
			cache:      cache,
			logger:     logger,
		},
	}
}

// Handle reserves the requested quantity from the selected partition.
// The verify-decrement-persist sequence is one atomic unit.
func (h *ReserveStockCommandHandler) Handle(ctx context.Context, cmd ReserveStockCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.mutator.apply(ctx, cmd.ProductID(), cmd.VersionID(), cmd.SizeCode(), -cmd.Quantity())
}
