package product_test

import (
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/product"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSizeStock(t *testing.T, sizeCode string, quantity int) product.SizeStock {
	t.Helper()
	ss, err := product.NewSizeStock(sizeCode, quantity)
	require.NoError(t, err)
	return ss
}

func mustVersion(t *testing.T, id string, name string, sizes ...product.SizeStock) *product.Version {
	t.Helper()
	v, err := product.NewVersion(id, name, sizes)
	require.NoError(t, err)
	return v
}

func newPlainProduct(t *testing.T, stock int) *product.Product {
	t.Helper()
	p, err := product.NewProduct(kernel.NewUUID(), "Plain Shirt", 4990, nil, nil, stock)
	require.NoError(t, err)
	return p
}

func newSizedProduct(t *testing.T) *product.Product {
	t.Helper()
	sizes := []product.SizeStock{
		mustSizeStock(t, "S", 3),
		mustSizeStock(t, "M", 5),
	}
	p, err := product.NewProduct(kernel.NewUUID(), "Sized Shirt", 5990, nil, sizes, 0)
	require.NoError(t, err)
	return p
}

func newVersionedProduct(t *testing.T) *product.Product {
	t.Helper()
	versions := []*product.Version{
		mustVersion(t, "a", "Design A", mustSizeStock(t, "M", 2)),
		mustVersion(t, "b", "Design B", mustSizeStock(t, "M", 0)),
	}
	p, err := product.NewProduct(kernel.NewUUID(), "Versioned Shirt", 6990, versions, nil, 0)
	require.NoError(t, err)
	return p
}

func TestNewProduct(t *testing.T) {
	t.Run("should create plain product with counter stock", func(t *testing.T) {
		p := newPlainProduct(t, 10)

		require.NoError(t, p.Validate())
		assert.Equal(t, 10, p.Stock())
		assert.True(t, p.IsActive())
	})

	t.Run("should derive aggregate stock from size table", func(t *testing.T) {
		p := newSizedProduct(t)

		assert.Equal(t, 8, p.Stock())
	})

	t.Run("should derive aggregate stock from versions", func(t *testing.T) {
		p := newVersionedProduct(t)

		assert.Equal(t, 2, p.Stock())
	})

	t.Run("should report zero stock product as inactive", func(t *testing.T) {
		p := newPlainProduct(t, 0)

		assert.False(t, p.IsActive())
	})

	t.Run("should fail without name", func(t *testing.T) {
		_, err := product.NewProduct(kernel.NewUUID(), "  ", 100, nil, nil, 0)

		require.Error(t, err)
		assert.ErrorIs(t, err, product.ErrProductNameIsRequired)
	})

	t.Run("should fail with negative price", func(t *testing.T) {
		_, err := product.NewProduct(kernel.NewUUID(), "Shirt", -1, nil, nil, 0)

		require.Error(t, err)
	})

	t.Run("should fail with negative counter stock", func(t *testing.T) {
		_, err := product.NewProduct(kernel.NewUUID(), "Shirt", 100, nil, nil, -5)

		require.Error(t, err)
	})

	t.Run("should fail with versions and flat size table together", func(t *testing.T) {
		versions := []*product.Version{mustVersion(t, "a", "A", mustSizeStock(t, "M", 1))}
		sizes := []product.SizeStock{mustSizeStock(t, "M", 1)}

		_, err := product.NewProduct(kernel.NewUUID(), "Shirt", 100, versions, sizes, 0)

		require.Error(t, err)
	})

	t.Run("should fail with duplicate version codes", func(t *testing.T) {
		versions := []*product.Version{
			mustVersion(t, "a", "A", mustSizeStock(t, "M", 1)),
			mustVersion(t, "a", "A again", mustSizeStock(t, "M", 1)),
		}

		_, err := product.NewProduct(kernel.NewUUID(), "Shirt", 100, versions, nil, 0)

		require.Error(t, err)
	})
}

func TestProduct_Reserve(t *testing.T) {
	t.Run("should reserve from plain counter", func(t *testing.T) {
		p := newPlainProduct(t, 10)

		require.NoError(t, p.Reserve(4, "", ""))

		assert.Equal(t, 6, p.Stock())
	})

	t.Run("should reserve from size partition", func(t *testing.T) {
		p := newSizedProduct(t)

		require.NoError(t, p.Reserve(2, "", "m"))

		available, err := p.AvailableFor("", "M")
		require.NoError(t, err)
		assert.Equal(t, 3, available)
		assert.Equal(t, 6, p.Stock())
	})

	t.Run("should reserve from version partition without touching siblings", func(t *testing.T) {
		p := newVersionedProduct(t)

		require.NoError(t, p.Reserve(1, "a", "M"))

		availableA, err := p.AvailableFor("a", "M")
		require.NoError(t, err)
		assert.Equal(t, 1, availableA)

		availableB, err := p.AvailableFor("b", "M")
		require.NoError(t, err)
		assert.Equal(t, 0, availableB)

		assert.Equal(t, 1, p.Stock())
	})

	t.Run("should fail on empty sibling partition despite stock elsewhere", func(t *testing.T) {
		p := newVersionedProduct(t)

		err := p.Reserve(1, "b", "M")

		require.Error(t, err)
		assert.ErrorIs(t, err, product.ErrInsufficientStock)

		var stockErr *product.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 0, stockErr.Available)
		assert.Equal(t, 1, stockErr.Requested)
		assert.Equal(t, 2, p.Stock())
	})

	t.Run("should fail and change nothing on shortage", func(t *testing.T) {
		p := newPlainProduct(t, 3)

		err := p.Reserve(5, "", "")

		require.Error(t, err)
		assert.ErrorIs(t, err, product.ErrInsufficientStock)
		assert.Equal(t, 3, p.Stock())
	})

	t.Run("should drain partition to zero and deactivate", func(t *testing.T) {
		p := newPlainProduct(t, 2)

		require.NoError(t, p.Reserve(2, "", ""))

		assert.Equal(t, 0, p.Stock())
		assert.False(t, p.IsActive())
	})

	t.Run("should require version selector on versioned product", func(t *testing.T) {
		p := newVersionedProduct(t)

		err := p.Reserve(1, "", "M")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "versionId")
	})

	t.Run("should require size selector on sized product", func(t *testing.T) {
		p := newSizedProduct(t)

		err := p.Reserve(1, "", "")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "sizeCode")
	})

	t.Run("should reject selectors on plain product", func(t *testing.T) {
		p := newPlainProduct(t, 5)

		require.Error(t, p.Reserve(1, "a", ""))
		require.Error(t, p.Reserve(1, "", "M"))
	})

	t.Run("should reject unknown version", func(t *testing.T) {
		p := newVersionedProduct(t)

		err := p.Reserve(1, "z", "M")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "versionId")
	})

	t.Run("should reject unknown size", func(t *testing.T) {
		p := newSizedProduct(t)

		err := p.Reserve(1, "", "XL")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "sizeCode")
	})

	t.Run("should reject non-positive quantity", func(t *testing.T) {
		p := newPlainProduct(t, 5)

		require.Error(t, p.Reserve(0, "", ""))
		require.Error(t, p.Reserve(-1, "", ""))
	})
}

func TestProduct_Release(t *testing.T) {
	t.Run("should be the exact inverse of reserve", func(t *testing.T) {
		p := newSizedProduct(t)
		before := p.Stock()

		require.NoError(t, p.Reserve(3, "", "S"))
		require.NoError(t, p.Release(3, "", "S"))

		assert.Equal(t, before, p.Stock())
		available, err := p.AvailableFor("", "S")
		require.NoError(t, err)
		assert.Equal(t, 3, available)
	})

	t.Run("should restock a drained partition", func(t *testing.T) {
		p := newPlainProduct(t, 0)

		require.NoError(t, p.Release(4, "", ""))

		assert.Equal(t, 4, p.Stock())
		assert.True(t, p.IsActive())
	})

	t.Run("should resolve selectors like reserve", func(t *testing.T) {
		p := newVersionedProduct(t)

		require.Error(t, p.Release(1, "", "M"))
		require.Error(t, p.Release(1, "z", "M"))
	})
}

func TestProduct_StockFor(t *testing.T) {
	t.Run("should return aggregate stock without selectors", func(t *testing.T) {
		p := newVersionedProduct(t)

		stock, err := p.StockFor("", "")

		require.NoError(t, err)
		assert.Equal(t, 2, stock)
	})

	t.Run("should return version total without size", func(t *testing.T) {
		p := newVersionedProduct(t)

		stock, err := p.StockFor("a", "")

		require.NoError(t, err)
		assert.Equal(t, 2, stock)
	})

	t.Run("should return single partition with both selectors", func(t *testing.T) {
		p := newVersionedProduct(t)

		stock, err := p.StockFor("b", "m")

		require.NoError(t, err)
		assert.Equal(t, 0, stock)
	})

	t.Run("should fail for unknown version", func(t *testing.T) {
		p := newVersionedProduct(t)

		_, err := p.StockFor("z", "")

		require.Error(t, err)
	})
}

func TestProduct_IsAvailable(t *testing.T) {
	t.Run("should report availability against the partition", func(t *testing.T) {
		p := newVersionedProduct(t)

		ok, err := p.IsAvailable(2, "a", "M")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = p.IsAvailable(3, "a", "M")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("should reject non-positive quantity", func(t *testing.T) {
		p := newPlainProduct(t, 5)

		_, err := p.IsAvailable(0, "", "")

		require.Error(t, err)
	})
}

func TestRestoreProduct(t *testing.T) {
	t.Run("should carry the record version", func(t *testing.T) {
		p, err := product.RestoreProduct(kernel.NewUUID(), "Shirt", 100, nil, nil, 7, 3)

		require.NoError(t, err)
		assert.Equal(t, 7, p.Stock())
		assert.Equal(t, 3, p.RecordVersion())
	})

	t.Run("should recompute aggregate stock from partitions", func(t *testing.T) {
		sizes := []product.SizeStock{mustSizeStock(t, "S", 2), mustSizeStock(t, "M", 3)}

		p, err := product.RestoreProduct(kernel.NewUUID(), "Shirt", 100, nil, sizes, 99, 1)

		require.NoError(t, err)
		assert.Equal(t, 5, p.Stock())
	})
}

func TestNewSizeStock(t *testing.T) {
	t.Run("should normalize the size code", func(t *testing.T) {
		ss, err := product.NewSizeStock(" m ", 3)

		require.NoError(t, err)
		assert.Equal(t, "M", ss.SizeCode())
		assert.Equal(t, 3, ss.Quantity())
	})

	t.Run("should reject empty code", func(t *testing.T) {
		_, err := product.NewSizeStock("  ", 3)

		require.Error(t, err)
	})

	t.Run("should reject negative quantity", func(t *testing.T) {
		_, err := product.NewSizeStock("M", -1)

		require.Error(t, err)
	})
}

func TestNewVersion(t *testing.T) {
	t.Run("should reject empty id", func(t *testing.T) {
		_, err := product.NewVersion("  ", "A", nil)

		require.Error(t, err)
	})

	t.Run("should reject duplicate size codes", func(t *testing.T) {
		_, err := product.NewVersion("a", "A", []product.SizeStock{
			mustSizeStock(t, "M", 1),
			mustSizeStock(t, "m", 2),
		})

		require.Error(t, err)
	})
}
