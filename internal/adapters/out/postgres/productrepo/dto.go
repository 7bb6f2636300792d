// Package productrepo provides data transfer objects and mapping functions
// for product inventory persistence. A product spreads over three tables:
// the product row, its named versions, and the size partitions holding the
// authoritative quantities. Flat (unversioned) partitions use an empty
// version identifier.
package productrepo

import (
	"github.com/google/uuid"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/product"
)

// ProductDTO represents the product row. The stored stock column is derived
// and kept for read models; the domain recomputes it from the partitions on
// load. The version column is the optimistic lock for the whole aggregate.
type ProductDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string
	PriceCents int64
	Stock      int
	IsActive   bool
	Version    int

	Versions   []ProductVersionDTO `gorm:"foreignKey:ProductID;references:ID"`
	SizeStocks []SizeStockDTO      `gorm:"foreignKey:ProductID;references:ID"`
}

// TableName specifies the database table name for product entities.
func (ProductDTO) TableName() string {
	return "products"
}

// ProductVersionDTO represents one named variant of a product.
type ProductVersionDTO struct {
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	VersionID string    `gorm:"primaryKey"`
	Name      string
}

// TableName specifies the database table name for product versions.
func (ProductVersionDTO) TableName() string {
	return "product_versions"
}

// SizeStockDTO represents one stock partition. VersionID is empty for the
// flat size table of an unversioned product.
type SizeStockDTO struct {
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	VersionID string    `gorm:"primaryKey"`
	SizeCode  string    `gorm:"primaryKey"`
	Quantity  int
}

// TableName specifies the database table name for stock partitions.
func (SizeStockDTO) TableName() string {
	return "size_stocks"
}

func fromDomain(aggregate *product.Product) ProductDTO {
	id := aggregate.ID().Bytes()

	versions := make([]ProductVersionDTO, 0, len(aggregate.Versions()))
	sizeStocks := make([]SizeStockDTO, 0)

	for _, v := range aggregate.Versions() {
		versions = append(versions, ProductVersionDTO{
			ProductID: id,
			VersionID: v.ID(),
			Name:      v.Name(),
		})
		for _, s := range v.SizeStocks() {
			sizeStocks = append(sizeStocks, SizeStockDTO{
				ProductID: id,
				VersionID: v.ID(),
				SizeCode:  s.SizeCode(),
				Quantity:  s.Quantity(),
			})
		}
	}

	for _, s := range aggregate.SizeStocks() {
		sizeStocks = append(sizeStocks, SizeStockDTO{
			ProductID: id,
			VersionID: "",
			SizeCode:  s.SizeCode(),
			Quantity:  s.Quantity(),
		})
	}

	return ProductDTO{
		ID:         id,
		Name:       aggregate.Name(),
		PriceCents: aggregate.PriceCents(),
		Stock:      aggregate.Stock(),
		IsActive:   aggregate.IsActive(),
		Version:    aggregate.RecordVersion(),
		Versions:   versions,
		SizeStocks: sizeStocks,
	}
}

func toDomain(dto ProductDTO) (*product.Product, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	sizesByVersion := make(map[string][]product.SizeStock)
	for _, s := range dto.SizeStocks {
		stock, stockErr := product.NewSizeStock(s.SizeCode, s.Quantity)
		if stockErr != nil {
			return nil, stockErr
		}
		sizesByVersion[s.VersionID] = append(sizesByVersion[s.VersionID], stock)
	}

	versions := make([]*product.Version, 0, len(dto.Versions))
	for _, v := range dto.Versions {
		version, versionErr := product.NewVersion(v.VersionID, v.Name, sizesByVersion[v.VersionID])
		if versionErr != nil {
			return nil, versionErr
		}
		versions = append(versions, version)
	}

	return product.RestoreProduct(
		id,
		dto.Name,
		dto.PriceCents,
		versions,
		sizesByVersion[""],
		dto.Stock,
		dto.Version,
	)
}
