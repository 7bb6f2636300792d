package product

import (
	"strings"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrVersionIsNotConstructed is returned when validating a zero-value Version.
var ErrVersionIsNotConstructed = errs.NewValueIsRequiredError(
	"version must be created via NewVersion constructor")

// Version is a named product variant (e.g. a particular garment design) that
// owns its own size-partitioned stock. Version identity is a short code
// unique within the product, not a global identifier.
type Version struct {
	id         string
	name       string
	sizeStocks []SizeStock

	guard guard.ConstructorGuard
}

// NewVersion creates a validated version with its size table.
// The id is trimmed and required; size codes must be unique within the version.
func NewVersion(id string, name string, sizeStocks []SizeStock) (*Version, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errs.NewValueIsRequiredError("versionId")
	}

	seen := make(map[string]struct{}, len(sizeStocks))
	for _, ss := range sizeStocks {
		if err := ss.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seen[ss.SizeCode()]; ok {
			return nil, errs.NewObjectAlreadyExistsError("sizeCode", ss.SizeCode())
		}
		seen[ss.SizeCode()] = struct{}{}
	}

	return &Version{
		id:         id,
		name:       name,
		sizeStocks: append([]SizeStock(nil), sizeStocks...),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Version was created through NewVersion.
func (v *Version) Validate() error {
	if v == nil {
		return ErrVersionIsNotConstructed
	}
	return v.guard.Validate(ErrVersionIsNotConstructed)
}

// ID returns the version code.
func (v *Version) ID() string {
	return v.id
}

// Name returns the human-readable variant name.
func (v *Version) Name() string {
	return v.name
}

// SizeStocks returns a copy of the version's size table.
func (v *Version) SizeStocks() []SizeStock {
	stocks := make([]SizeStock, len(v.sizeStocks))
	copy(stocks, v.sizeStocks)
	return stocks
}

// totalQuantity sums all size partitions of the version.
func (v *Version) totalQuantity() int {
	total := 0
	for _, ss := range v.sizeStocks {
		total += ss.Quantity()
	}
	return total
}

// sizeIndex returns the position of sizeCode in the size table, or -1.
func (v *Version) sizeIndex(sizeCode string) int {
	sizeCode = strings.ToUpper(strings.TrimSpace(sizeCode))
	for i, ss := range v.sizeStocks {
		if ss.SizeCode() == sizeCode {
			return i
		}
	}
	return -1
}
