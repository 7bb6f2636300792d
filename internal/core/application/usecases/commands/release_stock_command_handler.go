package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/ports"
)

// ReleaseStockCommandHandler atomically returns stock to one product
// partition, the exact inverse of reservation.
type ReleaseStockCommandHandler struct {
	mutator stockMutator
}

// NewReleaseStockCommandHandler creates a handler for stock release.
func NewReleaseStockCommandHandler(
	uowFactory ProductUoWFactory,
	publisher ports.EventPublisher,
	cache StockCacheInvalidator,
	logger *slog.Logger,
) ReleaseStockCommandHandler {
	return ReleaseStockCommandHandler{
		mutator: stockMutator{
			uowFactory: uowFactory,
			publisher:  publisher,
			cache:      cache,
			logger:     logger,
		},
	}
}

// Handle returns the requested quantity to the selected partition.
func (h *ReleaseStockCommandHandler) Handle(ctx context.Context, cmd ReleaseStockCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.mutator.apply(ctx, cmd.ProductID(), cmd.VersionID(), cmd.SizeCode(), cmd.Quantity())
}
