package queries

import (
	"errors"

	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/pkg/guard"
)

var ErrGetActiveRequestsQueryIsNotConstructed = errors.New(
	"GetActiveRequestsQuery must be created via NewGetActiveRequestsQuery constructor",
)

// GetActiveRequestsQuery retrieves a customer's non-terminal service
// requests, newest first. Backs the customer's "my requests" screen.
type GetActiveRequestsQuery struct { //nolint:recvcheck //using for validation
	customerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetActiveRequestsQuery creates a query for a customer's active
// requests.
func NewGetActiveRequestsQuery(customerID kernel.UUID) (GetActiveRequestsQuery, error) {
	query := GetActiveRequestsQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setCustomerID(customerID); err != nil {
		return GetActiveRequestsQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetActiveRequestsQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveRequestsQueryIsNotConstructed)
}

// CustomerID returns the identifier of the customer whose requests to
// fetch.
func (q GetActiveRequestsQuery) CustomerID() kernel.UUID {
	return q.customerID
}

func (q *GetActiveRequestsQuery) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	q.customerID = customerID
	return nil
}
