package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetActiveRequestsQueryHandler reads a customer's non-terminal requests
// from the database.
type GetActiveRequestsQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveRequestsQueryHandler creates a handler for active-request
// reads. Requires a GORM database connection for query execution.
func NewGetActiveRequestsQueryHandler(db *gorm.DB) GetActiveRequestsQueryHandler {
	return GetActiveRequestsQueryHandler{db: db}
}

// Handle executes the query. Returns the customer's pending, accepted, and
// in-progress requests, newest first. An empty result is a valid outcome.
func (h GetActiveRequestsQueryHandler) Handle(
	ctx context.Context,
	query GetActiveRequestsQuery,
) ([]RequestView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_id,
			customer_name,
			customer_phone,
			address_line,
			city,
			state,
			pincode,
			latitude,
			longitude,
			service_type,
			problem,
			urgency,
			scheduled_time,
			status,
			provider_id,
			provider_name,
			provider_phone,
			created_at,
			updated_at
		FROM service_requests
		WHERE customer_id = ?
		  AND status IN ('pending', 'accepted', 'in_progress')
		ORDER BY created_at DESC
	`, query.CustomerID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]RequestView, 0)
	for rows.Next() {
		view, scanErr := scanRequestView(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		views = append(views, view)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return views, nil
}
