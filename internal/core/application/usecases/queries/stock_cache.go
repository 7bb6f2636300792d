package queries

import (
	"fmt"
	"time"

	"dispatch/internal/pkg/cache"
)

// StockCache memoizes stock readings behind the stock query with a short
// time-to-live. Stock mutations invalidate every cached reading of the
// affected product, so a reading is stale for at most the TTL and only while
// the product is untouched.
type StockCache struct {
	readings *cache.Cache[int]
}

// NewStockCache creates a stock cache with the given TTL.
// A zero or negative TTL disables caching entirely.
func NewStockCache(ttl time.Duration) *StockCache {
	return &StockCache{readings: cache.New[int](ttl)}
}

// Get returns the cached reading for the partition selectors, if any.
func (c *StockCache) Get(productID, versionID, sizeCode string) (int, bool) {
	return c.readings.Get(stockKey(productID, versionID, sizeCode))
}

// Set stores a reading for the partition selectors.
func (c *StockCache) Set(productID, versionID, sizeCode string, stock int) {
	c.readings.Set(stockKey(productID, versionID, sizeCode), stock)
}

// InvalidateProduct drops every cached reading of the product.
func (c *StockCache) InvalidateProduct(productID string) {
	c.readings.InvalidatePrefix("stock:" + productID + ":")
}

func stockKey(productID, versionID, sizeCode string) string {
	return fmt.Sprintf("stock:%s:%s:%s", productID, versionID, sizeCode)
}
