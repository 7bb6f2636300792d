package productrepo

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/product"
	"dispatch/internal/pkg/errs"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// GormProductRepository implements ports.ProductRepository using GORM.
//
// Updates are compare-and-swap: the product row's version column guards the
// whole aggregate, including its partition rows, which are rewritten only
// after the guarded update lands. Run inside a transaction so a lost race
// leaves the partitions untouched.
type GormProductRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormProductRepository creates a new GORM product repository.
func NewGormProductRepository(db *gorm.DB, tracker aggregateTracker) *GormProductRepository {
	return &GormProductRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new product with its versions and partitions.
func (r *GormProductRepository) Add(ctx context.Context, aggregate *product.Product) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return errs.NewObjectAlreadyExistsError("product", aggregate.ID().String())
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update persists the aggregate with a compare-and-swap on the version
// column, then rewrites the partition rows. Returns
// errs.ErrConcurrencyConflict when the stored row changed since the
// aggregate was read.
func (r *GormProductRepository) Update(ctx context.Context, aggregate *product.Product) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	expected := dto.Version
	dto.Version = expected + 1

	result := r.db.WithContext(ctx).
		Model(&ProductDTO{}).
		Where("id = ? AND version = ?", dto.ID, expected).
		Select("*").
		Omit("id", "Versions", "SizeStocks").
		Updates(dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&ProductDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("product", aggregate.ID().String())
		}
		return errs.NewConcurrencyConflictError("product", aggregate.ID().String())
	}

	if err := r.db.WithContext(ctx).Where("product_id = ?", dto.ID).Delete(&SizeStockDTO{}).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Where("product_id = ?", dto.ID).Delete(&ProductVersionDTO{}).Error; err != nil {
		return err
	}
	if len(dto.Versions) > 0 {
		if err := r.db.WithContext(ctx).Create(&dto.Versions).Error; err != nil {
			return err
		}
	}
	if len(dto.SizeStocks) > 0 {
		if err := r.db.WithContext(ctx).Create(&dto.SizeStocks).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a product with all versions and partitions by ID.
func (r *GormProductRepository) Get(ctx context.Context, id kernel.UUID) (*product.Product, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ProductDTO
	err := r.db.WithContext(ctx).
		Preload("Versions", func(db *gorm.DB) *gorm.DB { return db.Order("version_id") }).
		Preload("SizeStocks", func(db *gorm.DB) *gorm.DB { return db.Order("version_id, size_code") }).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("product", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
