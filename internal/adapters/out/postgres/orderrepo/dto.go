// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, handling conversion between domain entities and database rows.
package orderrepo

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The version column is the optimistic lock: every update increments it and
// conditions on the value read, so racing writers cannot both land.
type OrderDTO struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	PurchaseID         string    `gorm:"uniqueIndex"`
	Address            string
	City               string
	Zone               string `gorm:"index"`
	Lat                *float64
	Lon                *float64
	EstimatedDistance  int
	Status             string  `gorm:"index"`
	AssignedTo         *string `gorm:"index"`
	AssignedReason     string
	EligibleCouriers   pq.StringArray `gorm:"type:text[]"`
	IsEmergency        bool
	EmergencyReason    string
	Priority           int
	CreatedAt          time.Time
	CompetitionStarted *time.Time `gorm:"index"`
	CompetitionEnded   *time.Time
	Version            int

	Items   []ItemDTO         `gorm:"foreignKey:OrderID;references:ID"`
	History []StatusChangeDTO `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO represents one reservation line item of an order. Items are
// immutable after creation and written only on insert.
type ItemDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Idx       int       `gorm:"primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid"`
	Quantity  int
	VersionID string
	SizeCode  string
}

// TableName specifies the database table name for order items.
func (ItemDTO) TableName() string {
	return "order_items"
}

// StatusChangeDTO represents one entry of an order's transition history.
type StatusChangeDTO struct {
	OrderID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Idx     int       `gorm:"primaryKey"`
	Status  string
	At      time.Time
	Notes   string
}

// TableName specifies the database table name for order status history.
func (StatusChangeDTO) TableName() string {
	return "order_status_changes"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	destination := aggregate.Destination()

	var lat, lon *float64
	if coords := destination.Coordinates(); coords != nil {
		la, lo := coords.Lat(), coords.Lon()
		lat, lon = &la, &lo
	}

	var assignedTo *string
	if courier := aggregate.AssignedTo(); courier != nil {
		s := courier.String()
		assignedTo = &s
	}

	eligible := make(pq.StringArray, 0)
	for _, e := range aggregate.EligibleCouriers() {
		eligible = append(eligible, e.String())
	}

	items := make([]ItemDTO, 0, len(aggregate.Items()))
	for i, item := range aggregate.Items() {
		items = append(items, ItemDTO{
			OrderID:   aggregate.ID().Bytes(),
			Idx:       i,
			ProductID: item.ProductID().Bytes(),
			Quantity:  item.Quantity(),
			VersionID: item.VersionID(),
			SizeCode:  item.SizeCode(),
		})
	}

	history := make([]StatusChangeDTO, 0, len(aggregate.History()))
	for i, change := range aggregate.History() {
		history = append(history, StatusChangeDTO{
			OrderID: aggregate.ID().Bytes(),
			Idx:     i,
			Status:  change.Status().String(),
			At:      change.At(),
			Notes:   change.Notes(),
		})
	}

	return OrderDTO{
		ID:                 aggregate.ID().Bytes(),
		PurchaseID:         aggregate.PurchaseID(),
		Address:            destination.Address(),
		City:               destination.City(),
		Zone:               aggregate.Zone(),
		Lat:                lat,
		Lon:                lon,
		EstimatedDistance:  aggregate.EstimatedDistance(),
		Status:             aggregate.Status().String(),
		AssignedTo:         assignedTo,
		AssignedReason:     aggregate.AssignedReason(),
		EligibleCouriers:   eligible,
		IsEmergency:        aggregate.IsEmergency(),
		EmergencyReason:    aggregate.EmergencyReason(),
		Priority:           aggregate.Priority(),
		CreatedAt:          aggregate.CreatedAt(),
		CompetitionStarted: aggregate.CompetitionStarted(),
		CompetitionEnded:   aggregate.CompetitionEnded(),
		Version:            aggregate.RecordVersion(),
		Items:              items,
		History:            history,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var coords *kernel.Coordinates
	if dto.Lat != nil && dto.Lon != nil {
		c, coordsErr := kernel.NewCoordinates(*dto.Lat, *dto.Lon)
		if coordsErr != nil {
			return nil, coordsErr
		}
		coords = &c
	}

	destination, err := kernel.NewDestination(dto.Address, dto.City, dto.Zone, coords)
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var assignedTo *kernel.Email
	if dto.AssignedTo != nil {
		email, emailErr := kernel.NewEmail(*dto.AssignedTo)
		if emailErr != nil {
			return nil, emailErr
		}
		assignedTo = &email
	}

	eligible := make([]kernel.Email, 0, len(dto.EligibleCouriers))
	for _, raw := range dto.EligibleCouriers {
		email, emailErr := kernel.NewEmail(raw)
		if emailErr != nil {
			return nil, emailErr
		}
		eligible = append(eligible, email)
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		productID, idErr := kernel.UUIDFromBytes(itemDTO.ProductID[:])
		if idErr != nil {
			return nil, idErr
		}
		item, itemErr := order.NewItem(productID, itemDTO.Quantity, itemDTO.VersionID, itemDTO.SizeCode)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	history := make([]order.StatusChange, 0, len(dto.History))
	for _, changeDTO := range dto.History {
		changeStatus, statusErr := order.StatusFromString(changeDTO.Status)
		if statusErr != nil {
			return nil, statusErr
		}
		change, changeErr := order.NewStatusChange(changeStatus, changeDTO.At, changeDTO.Notes)
		if changeErr != nil {
			return nil, changeErr
		}
		history = append(history, change)
	}

	return order.RestoreOrder(order.RestoreOrderParams{
		ID:                 id,
		PurchaseID:         dto.PurchaseID,
		Destination:        destination,
		Zone:               dto.Zone,
		EstimatedDistance:  dto.EstimatedDistance,
		Status:             status,
		AssignedTo:         assignedTo,
		AssignedReason:     dto.AssignedReason,
		EligibleCouriers:   eligible,
		IsEmergency:        dto.IsEmergency,
		EmergencyReason:    dto.EmergencyReason,
		Priority:           dto.Priority,
		Items:              items,
		CreatedAt:          dto.CreatedAt,
		CompetitionStarted: dto.CompetitionStarted,
		CompetitionEnded:   dto.CompetitionEnded,
		History:            history,
		RecordVersion:      dto.Version,
	})
}
