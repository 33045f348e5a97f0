// Package queries contains read-only operations over the dispatch store.
// Implements the Query side of the CQRS architecture: handlers read
// denormalized rows directly with raw SQL, bypassing the aggregates.
package queries

import (
	"errors"
	"time"

	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/pkg/guard"
)

var ErrGetRequestByIDQueryIsNotConstructed = errors.New(
	"GetRequestByIDQuery must be created via NewGetRequestByIDQuery constructor",
)

// GetRequestByIDQuery retrieves one service request by its identifier.
//
// Example:
//
//	query, err := NewGetRequestByIDQuery(requestID)
//	if err != nil {
//	    return err
//	}
//
//	handler := NewGetRequestByIDQueryHandler(db)
//	view, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // no such request
//	}
type GetRequestByIDQuery struct { //nolint:recvcheck //using for validation
	requestID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetRequestByIDQuery creates a query for a single service request.
func NewGetRequestByIDQuery(requestID kernel.UUID) (GetRequestByIDQuery, error) {
	query := GetRequestByIDQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setRequestID(requestID); err != nil {
		return GetRequestByIDQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetRequestByIDQuery) Validate() error {
	return q.guard.Validate(ErrGetRequestByIDQueryIsNotConstructed)
}

// RequestID returns the identifier of the request to fetch.
func (q GetRequestByIDQuery) RequestID() kernel.UUID {
	return q.requestID
}

func (q *GetRequestByIDQuery) setRequestID(requestID kernel.UUID) error {
	if err := requestID.Validate(); err != nil {
		return err
	}

	q.requestID = requestID
	return nil
}

// RequestView is the read model of a service request as presented to the
// customer UI.
type RequestView struct {
	ID            kernel.UUID
	CustomerID    kernel.UUID
	CustomerName  string
	CustomerPhone string
	AddressLine   string
	City          string
	State         string
	Pincode       string
	Latitude      *float64
	Longitude     *float64
	ServiceType   string
	Problem       string
	Urgency       string
	ScheduledTime *time.Time
	Status        string
	ProviderID    *kernel.UUID
	ProviderName  string
	ProviderPhone string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
