package queries

import (
	"context"
	"database/sql"

	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetRequestByIDQueryHandler reads a single service request row.
type GetRequestByIDQueryHandler struct {
	db *gorm.DB
}

// NewGetRequestByIDQueryHandler creates a handler for single-request reads.
// Requires a GORM database connection for query execution.
func NewGetRequestByIDQueryHandler(db *gorm.DB) GetRequestByIDQueryHandler {
	return GetRequestByIDQueryHandler{db: db}
}

// Handle executes the query. Returns errs.ErrObjectNotFound when no row
// matches.
func (h GetRequestByIDQueryHandler) Handle(
	ctx context.Context,
	query GetRequestByIDQuery,
) (RequestView, error) {
	if err := query.Validate(); err != nil {
		return RequestView{}, err
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
		WHERE id = ?
	`, query.RequestID().Bytes()).Rows()
	if err != nil {
		return RequestView{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return RequestView{}, err
		}
		return RequestView{}, errs.NewObjectNotFoundError("requestId", query.RequestID())
	}

	view, err := scanRequestView(rows)
	if err != nil {
		return RequestView{}, err
	}

	return view, rows.Err()
}

func scanRequestView(rows *sql.Rows) (RequestView, error) {
	var (
		view          RequestView
		id            uuid.UUID
		customerID    uuid.UUID
		providerID    *uuid.UUID
		scheduledTime sql.NullTime
		providerName  sql.NullString
		providerPhone sql.NullString
	)

	if err := rows.Scan(
		&id,
		&customerID,
		&view.CustomerName,
		&view.CustomerPhone,
		&view.AddressLine,
		&view.City,
		&view.State,
		&view.Pincode,
		&view.Latitude,
		&view.Longitude,
		&view.ServiceType,
		&view.Problem,
		&view.Urgency,
		&scheduledTime,
		&view.Status,
		&providerID,
		&providerName,
		&providerPhone,
		&view.CreatedAt,
		&view.UpdatedAt,
	); err != nil {
		return RequestView{}, err
	}

	requestID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return RequestView{}, err
	}
	view.ID = requestID

	custID, err := kernel.UUIDFromBytes(customerID[:])
	if err != nil {
		return RequestView{}, err
	}
	view.CustomerID = custID

	if providerID != nil {
		provID, provErr := kernel.UUIDFromBytes(providerID[:])
		if provErr != nil {
			return RequestView{}, provErr
		}
		view.ProviderID = &provID
	}

	if scheduledTime.Valid {
		t := scheduledTime.Time
		view.ScheduledTime = &t
	}
	view.ProviderName = providerName.String
	view.ProviderPhone = providerPhone.String

	return view, nil
}
