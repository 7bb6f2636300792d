package queries

import (
	"context"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GetCouriersQueryHandler retrieves courier information with direct SQL.
type GetCouriersQueryHandler struct {
	db *gorm.DB
}

// NewGetCouriersQueryHandler creates a handler for courier retrieval queries.
func NewGetCouriersQueryHandler(db *gorm.DB) GetCouriersQueryHandler {
	return GetCouriersQueryHandler{db: db}
}

// Handle returns every registered courier sorted by name.
func (h GetCouriersQueryHandler) Handle(
	ctx context.Context,
	query GetCouriersQuery,
) ([]GetCouriersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	couriers := make([]GetCouriersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			email,
			name,
			zones,
			status,
			is_blocked
		FROM couriers
		ORDER BY name
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var courier GetCouriersQueryResponse
		var zones pq.StringArray

		err = rows.Scan(
			&courier.Email,
			&courier.Name,
			&zones,
			&courier.Status,
			&courier.IsBlocked,
		)
		if err != nil {
			return nil, err
		}

		courier.Zones = zones
		couriers = append(couriers, courier)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return couriers, nil
}
