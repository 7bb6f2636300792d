package queries

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// GetActiveOrdersQueryHandler retrieves undelivered orders with direct SQL.
type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveOrdersQueryHandler creates a handler for active order queries.
func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

// Handle returns every non-terminal order, emergencies and higher priorities
// first, oldest first within the same priority.
func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]GetActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetActiveOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			purchase_id,
			status,
			zone,
			city,
			assigned_to,
			is_emergency,
			priority,
			created_at
		FROM orders
		WHERE status NOT IN ('delivered', 'cancelled')
		ORDER BY is_emergency DESC, priority DESC, created_at
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var o GetActiveOrdersQueryResponse
		var assignedTo sql.NullString

		err = rows.Scan(
			&o.ID,
			&o.PurchaseID,
			&o.Status,
			&o.Zone,
			&o.City,
			&assignedTo,
			&o.IsEmergency,
			&o.Priority,
			&o.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if assignedTo.Valid && assignedTo.String != "" {
			o.AssignedTo = &assignedTo.String
		}
		orders = append(orders, o)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
