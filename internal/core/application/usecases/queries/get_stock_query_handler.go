package queries

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"dispatch/internal/pkg/errs"
)

// GetStockQueryHandler answers stock level queries. Readings go through the
// stock cache first; misses fall through to direct SQL against the partition
// tables for optimal read performance in the CQRS pattern.
type GetStockQueryHandler struct {
	db    *gorm.DB
	cache *StockCache
}

// NewGetStockQueryHandler creates a handler for stock queries.
func NewGetStockQueryHandler(db *gorm.DB, cache *StockCache) GetStockQueryHandler {
	return GetStockQueryHandler{db: db, cache: cache}
}

// Handle returns the stock level for the queried partition.
func (h GetStockQueryHandler) Handle(ctx context.Context, query GetStockQuery) (int, error) {
	if err := query.Validate(); err != nil {
		return 0, err
	}

	productID := query.ProductID().String()
	if stock, ok := h.cache.Get(productID, query.VersionID(), query.SizeCode()); ok {
		return stock, nil
	}

	stock, err := h.readStock(ctx, query)
	if err != nil {
		return 0, err
	}

	h.cache.Set(productID, query.VersionID(), query.SizeCode(), stock)
	return stock, nil
}

func (h GetStockQueryHandler) readStock(ctx context.Context, query GetStockQuery) (int, error) {
	productID := query.ProductID().String()

	if query.VersionID() == "" && query.SizeCode() == "" {
		var stock int
		err := h.db.WithContext(ctx).Raw(`
			SELECT stock FROM products WHERE id = ?
		`, productID).Row().Scan(&stock)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, errs.NewObjectNotFoundError("productId", productID)
		}
		if err != nil {
			return 0, err
		}
		return stock, nil
	}

	if query.SizeCode() == "" {
		var exists int
		err := h.db.WithContext(ctx).Raw(`
			SELECT COUNT(1) FROM product_versions WHERE product_id = ? AND version_id = ?
		`, productID, query.VersionID()).Row().Scan(&exists)
		if err != nil {
			return 0, err
		}
		if exists == 0 {
			return 0, errs.NewObjectNotFoundError("versionId", query.VersionID())
		}

		var total int
		err = h.db.WithContext(ctx).Raw(`
			SELECT COALESCE(SUM(quantity), 0)
			FROM size_stocks
			WHERE product_id = ? AND version_id = ?
		`, productID, query.VersionID()).Row().Scan(&total)
		if err != nil {
			return 0, err
		}
		return total, nil
	}

	var quantity int
	err := h.db.WithContext(ctx).Raw(`
		SELECT quantity
		FROM size_stocks
		WHERE product_id = ? AND version_id = ? AND size_code = ?
	`, productID, query.VersionID(), query.SizeCode()).Row().Scan(&quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, errs.NewObjectNotFoundError("sizeCode", query.SizeCode())
	}
	if err != nil {
		return 0, err
	}
	return quantity, nil
}
