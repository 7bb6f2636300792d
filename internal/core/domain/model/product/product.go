package product

import (
	"errors"
	"fmt"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for product operations.
var (
	// ErrProductIsNotConstructed is returned when using an improperly initialized Product.
	ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct constructor")
	// ErrProductNameIsRequired is returned when attempting to create a product without a name.
	ErrProductNameIsRequired = errs.NewValueIsRequiredError("name")
)

// Product is the inventory aggregate for one sellable product.
//
// Stock layout, in order of precedence:
//   - versions present: every unit lives in some version's size table;
//     reservations must name a version and a size
//   - flat size table present: reservations must name a size
//   - neither: a plain counter holds the stock
//
// The aggregate field stock always equals the sum of all partitions (or the
// plain counter). It is recomputed after every mutation and is never
// authoritative while partitions exist. IsActive is derived: stock > 0.
type Product struct {
	id         kernel.UUID
	name       string
	priceCents int64
	versions   []*Version
	sizeStocks []SizeStock
	stock      int

	// recordVersion is the optimistic lock counter carried between load and
	// store. Zero for aggregates not yet persisted.
	recordVersion int

	guard guard.ConstructorGuard
}

// partitionRef locates one stock partition inside the aggregate.
type partitionRef struct {
	version *Version
	sizeIdx int
	flat    bool
}

// NewProduct creates a validated inventory aggregate.
//
// versions and sizeStocks are mutually exclusive: a product with versions
// keeps all size tables under them. flatStock seeds the plain counter and is
// ignored (recomputed) as soon as any partition exists.
func NewProduct(
	id kernel.UUID,
	name string,
	priceCents int64,
	versions []*Version,
	sizeStocks []SizeStock,
	flatStock int,
) (*Product, error) {
	p := &Product{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setPriceCents(priceCents),
		p.setPartitions(versions, sizeStocks, flatStock),
	); err != nil {
		return nil, err
	}

	p.recompute()
	return p, nil
}

// RestoreProduct reconstructs the aggregate from persistence. The aggregate
// stock is recomputed from the partitions rather than trusted from storage.
func RestoreProduct(
	id kernel.UUID,
	name string,
	priceCents int64,
	versions []*Version,
	sizeStocks []SizeStock,
	flatStock int,
	recordVersion int,
) (*Product, error) {
	p, err := NewProduct(id, name, priceCents, versions, sizeStocks, flatStock)
	if err != nil {
		return nil, err
	}
	p.recordVersion = recordVersion
	return p, nil
}

// Validate ensures the Product was created through a constructor.
func (p *Product) Validate() error {
	if p == nil {
		return ErrProductIsNotConstructed
	}
	return p.guard.Validate(ErrProductIsNotConstructed)
}

// ID returns the product's unique identifier.
func (p *Product) ID() kernel.UUID {
	return p.id
}

// Name returns the product's display name.
func (p *Product) Name() string {
	return p.name
}

// PriceCents returns the unit price in minor currency units.
func (p *Product) PriceCents() int64 {
	return p.priceCents
}

// Versions returns the product's variants. Empty for unversioned products.
func (p *Product) Versions() []*Version {
	versions := make([]*Version, len(p.versions))
	copy(versions, p.versions)
	return versions
}

// SizeStocks returns the flat size table. Empty for versioned products.
func (p *Product) SizeStocks() []SizeStock {
	stocks := make([]SizeStock, len(p.sizeStocks))
	copy(stocks, p.sizeStocks)
	return stocks
}

// Stock returns the aggregate stock across all partitions.
func (p *Product) Stock() int {
	return p.stock
}

// IsActive reports whether the product is sellable: aggregate stock > 0.
func (p *Product) IsActive() bool {
	return p.stock > 0
}

// RecordVersion returns the optimistic lock counter the aggregate was loaded
// with. Persistence compares it on write to detect concurrent mutations.
func (p *Product) RecordVersion() int {
	return p.recordVersion
}

// AvailableFor returns the units held by the partition a reservation with the
// given selectors would target. It applies the same resolution rules as
// Reserve, so a checkout pre-flight sees exactly what the reservation will.
func (p *Product) AvailableFor(versionID string, sizeCode string) (int, error) {
	ref, err := p.resolvePartition(versionID, sizeCode)
	if err != nil {
		return 0, err
	}
	return p.partitionQuantity(ref), nil
}

// IsAvailable reports whether the targeted partition holds at least quantity units.
func (p *Product) IsAvailable(quantity int, versionID string, sizeCode string) (bool, error) {
	if quantity <= 0 {
		return false, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	available, err := p.AvailableFor(versionID, sizeCode)
	if err != nil {
		return false, err
	}
	return available >= quantity, nil
}

// StockFor answers stock queries. Unlike AvailableFor it tolerates partial
// selectors: no selectors yield the aggregate stock, and a version without a
// size yields that version's total.
func (p *Product) StockFor(versionID string, sizeCode string) (int, error) {
	versionID = strings.TrimSpace(versionID)
	sizeCode = strings.ToUpper(strings.TrimSpace(sizeCode))

	if versionID == "" && sizeCode == "" {
		return p.stock, nil
	}

	if versionID != "" && sizeCode == "" {
		v := p.findVersion(versionID)
		if v == nil {
			return 0, errs.NewObjectNotFoundError("versionId", versionID)
		}
		return v.totalQuantity(), nil
	}

	ref, err := p.resolvePartition(versionID, sizeCode)
	if err != nil {
		return 0, err
	}
	return p.partitionQuantity(ref), nil
}

// Reserve atomically takes quantity units out of the selected partition.
//
// Partition resolution follows the aggregate's layout: versioned products
// require versionID (and sizeCode within the version), size-partitioned
// products require sizeCode, plain products use the counter. On shortage the
// reservation fails with InsufficientStockError and nothing changes.
func (p *Product) Reserve(quantity int, versionID string, sizeCode string) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}

	ref, err := p.resolvePartition(versionID, sizeCode)
	if err != nil {
		return err
	}

	available := p.partitionQuantity(ref)
	if available < quantity {
		return NewInsufficientStockError(available, quantity)
	}

	p.setPartitionQuantity(ref, available-quantity)
	p.recompute()
	return nil
}

// Release returns quantity units to the selected partition. It is the exact
// inverse of Reserve, used for restocking and for compensating rollback.
func (p *Product) Release(quantity int, versionID string, sizeCode string) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}

	ref, err := p.resolvePartition(versionID, sizeCode)
	if err != nil {
		return err
	}

	p.setPartitionQuantity(ref, p.partitionQuantity(ref)+quantity)
	p.recompute()
	return nil
}

// resolvePartition maps reservation selectors onto one stock partition,
// enforcing which selectors the aggregate's layout requires.
func (p *Product) resolvePartition(versionID string, sizeCode string) (partitionRef, error) {
	versionID = strings.TrimSpace(versionID)
	sizeCode = strings.ToUpper(strings.TrimSpace(sizeCode))

	if len(p.versions) > 0 {
		if versionID == "" {
			return partitionRef{}, errs.NewValueIsRequiredError("versionId")
		}
		v := p.findVersion(versionID)
		if v == nil {
			return partitionRef{}, errs.NewObjectNotFoundError("versionId", versionID)
		}
		if sizeCode == "" {
			return partitionRef{}, errs.NewValueIsRequiredError("sizeCode")
		}
		idx := v.sizeIndex(sizeCode)
		if idx < 0 {
			return partitionRef{}, errs.NewObjectNotFoundError("sizeCode", sizeCode)
		}
		return partitionRef{version: v, sizeIdx: idx}, nil
	}

	if versionID != "" {
		return partitionRef{}, errs.NewObjectNotFoundError("versionId", versionID)
	}

	if len(p.sizeStocks) > 0 {
		if sizeCode == "" {
			return partitionRef{}, errs.NewValueIsRequiredError("sizeCode")
		}
		for i, ss := range p.sizeStocks {
			if ss.SizeCode() == sizeCode {
				return partitionRef{sizeIdx: i}, nil
			}
		}
		return partitionRef{}, errs.NewObjectNotFoundError("sizeCode", sizeCode)
	}

	if sizeCode != "" {
		return partitionRef{}, errs.NewObjectNotFoundError("sizeCode", sizeCode)
	}
	return partitionRef{flat: true}, nil
}

func (p *Product) partitionQuantity(ref partitionRef) int {
	switch {
	case ref.flat:
		return p.stock
	case ref.version != nil:
		return ref.version.sizeStocks[ref.sizeIdx].Quantity()
	default:
		return p.sizeStocks[ref.sizeIdx].Quantity()
	}
}

func (p *Product) setPartitionQuantity(ref partitionRef, quantity int) {
	switch {
	case ref.flat:
		p.stock = quantity
	case ref.version != nil:
		ref.version.sizeStocks[ref.sizeIdx] = ref.version.sizeStocks[ref.sizeIdx].withQuantity(quantity)
	default:
		p.sizeStocks[ref.sizeIdx] = p.sizeStocks[ref.sizeIdx].withQuantity(quantity)
	}
}

// recompute refreshes the derived aggregate stock from the partitions.
// Products with a plain counter keep it as-is: the counter is the stock.
func (p *Product) recompute() {
	if len(p.versions) > 0 {
		total := 0
		for _, v := range p.versions {
			total += v.totalQuantity()
		}
		p.stock = total
		return
	}

	if len(p.sizeStocks) > 0 {
		total := 0
		for _, ss := range p.sizeStocks {
			total += ss.Quantity()
		}
		p.stock = total
	}
}

func (p *Product) findVersion(versionID string) *Version {
	for _, v := range p.versions {
		if v.id == versionID {
			return v
		}
	}
	return nil
}

func (p *Product) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Product) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrProductNameIsRequired
	}
	p.name = name
	return nil
}

func (p *Product) setPriceCents(priceCents int64) error {
	if priceCents < 0 {
		return errs.NewValueIsInvalidErrorWithCause("price",
			fmt.Errorf("%d is negative", priceCents))
	}
	p.priceCents = priceCents
	return nil
}

func (p *Product) setPartitions(versions []*Version, sizeStocks []SizeStock, flatStock int) error {
	if len(versions) > 0 && len(sizeStocks) > 0 {
		return errs.NewValueIsInvalidErrorWithCause("sizeStocks",
			errors.New("a product with versions keeps its size tables under them"))
	}
	if flatStock < 0 {
		return errs.NewValueIsInvalidErrorWithCause("stock",
			fmt.Errorf("%d is negative", flatStock))
	}

	seen := make(map[string]struct{}, len(versions))
	for _, v := range versions {
		if err := v.Validate(); err != nil {
			return err
		}
		if _, ok := seen[v.ID()]; ok {
			return errs.NewObjectAlreadyExistsError("versionId", v.ID())
		}
		seen[v.ID()] = struct{}{}
	}

	seenSizes := make(map[string]struct{}, len(sizeStocks))
	for _, ss := range sizeStocks {
		if err := ss.Validate(); err != nil {
			return err
		}
		if _, ok := seenSizes[ss.SizeCode()]; ok {
			return errs.NewObjectAlreadyExistsError("sizeCode", ss.SizeCode())
		}
		seenSizes[ss.SizeCode()] = struct{}{}
	}

	p.versions = append([]*Version(nil), versions...)
	p.sizeStocks = append([]SizeStock(nil), sizeStocks...)
	p.stock = flatStock
	return nil
}
