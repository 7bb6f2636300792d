// Package events defines the domain events published to the message broker
// after state changes commit. Each event names itself for topic routing and
// exposes a partition key so events of one aggregate stay ordered.
package events

import "time"

// DomainEvent is implemented by every event the engine publishes.
type DomainEvent interface {
	// Name identifies the event type on the wire.
	Name() string
	// Key returns the partition key, usually the aggregate identifier.
	Key() string
}

// CompetitionOpened is published when an order enters its competition window.
type CompetitionOpened struct {
	OrderID          string    `json:"order_id"`
	Zone             string    `json:"zone"`
	EligibleCouriers []string  `json:"eligible_couriers"`
	OpenedAt         time.Time `json:"opened_at"`
}

func (e CompetitionOpened) Name() string { return "dispatch.competition.opened" }
func (e CompetitionOpened) Key() string  { return e.OrderID }

// CompetitionExpired is published when a competition window closes with no
// acceptance and the order returns to pending.
type CompetitionExpired struct {
	OrderID        string    `json:"order_id"`
	Zone           string    `json:"zone"`
	FormerCouriers []string  `json:"former_couriers"`
	ExpiredAt      time.Time `json:"expired_at"`
}

func (e CompetitionExpired) Name() string { return "dispatch.competition.expired" }
func (e CompetitionExpired) Key() string  { return e.OrderID }

// OrderAssigned is published when an order gains its courier, whether by
// direct dispatch, competition win or manual assignment.
type OrderAssigned struct {
	OrderID    string    `json:"order_id"`
	Courier    string    `json:"courier"`
	Reason     string    `json:"reason"`
	AssignedAt time.Time `json:"assigned_at"`
}

func (e OrderAssigned) Name() string { return "dispatch.order.assigned" }
func (e OrderAssigned) Key() string  { return e.OrderID }

// OrderStatusChanged is published on every committed status transition.
type OrderStatusChanged struct {
	OrderID   string    `json:"order_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Notes     string    `json:"notes,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
}

func (e OrderStatusChanged) Name() string { return "dispatch.order.status_changed" }
func (e OrderStatusChanged) Key() string  { return e.OrderID }

// StockChanged is published after a committed reservation or release.
type StockChanged struct {
	ProductID string    `json:"product_id"`
	VersionID string    `json:"version_id,omitempty"`
	SizeCode  string    `json:"size_code,omitempty"`
	Delta     int       `json:"delta"`
	Remaining int       `json:"remaining"`
	ChangedAt time.Time `json:"changed_at"`
}

func (e StockChanged) Name() string { return "dispatch.stock.changed" }
func (e StockChanged) Key() string  { return e.ProductID }
