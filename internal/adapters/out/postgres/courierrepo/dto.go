// Package courierrepo provides data transfer objects and mapping functions
// for courier persistence.
package courierrepo

import (
	"github.com/lib/pq"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// CourierDTO represents the database structure for persisting courier
// aggregates. The email is the natural primary key; zones live in a
// PostgreSQL text array.
type CourierDTO struct {
	Email     string         `gorm:"primaryKey"`
	Name      string         `gorm:"index"`
	Zones     pq.StringArray `gorm:"type:text[]"`
	Status    string
	IsBlocked bool
}

// TableName specifies the database table name for courier entities.
func (CourierDTO) TableName() string {
	return "couriers"
}

func fromDomain(aggregate *courier.Courier) CourierDTO {
	return CourierDTO{
		Email:     aggregate.Email().String(),
		Name:      aggregate.Name(),
		Zones:     aggregate.Zones(),
		Status:    aggregate.Status().String(),
		IsBlocked: aggregate.IsBlocked(),
	}
}

func toDomain(dto CourierDTO) (*courier.Courier, error) {
	email, err := kernel.NewEmail(dto.Email)
	if err != nil {
		return nil, err
	}

	status, err := courier.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return courier.RestoreCourier(email, dto.Name, dto.Zones, status, dto.IsBlocked)
}
