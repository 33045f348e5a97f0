// Package ports defines the contracts between the dispatch domain and
// infrastructure: repositories, the provider directory, live feeds, the
// push-channel publisher, and the unit of work. These interfaces enable
// dependency inversion and testability.
package ports

import (
	"context"

	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/core/domain/model/request"
)

// RequestRepository defines the persistence contract for ServiceRequest
// aggregates.
type RequestRepository interface {
	// Add persists a new service request aggregate to storage.
	// The request must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *request.ServiceRequest) error

	// Update persists changes to an existing service request aggregate.
	// The request must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *request.ServiceRequest) error

	// Get retrieves a service request aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*request.ServiceRequest, error)

	// GetAllInPendingStatus retrieves requests still waiting for a provider.
	// Used by the rebroadcast job to re-dispatch requests whose original
	// broadcast reached no one.
	GetAllInPendingStatus(ctx context.Context) ([]*request.ServiceRequest, error)

	// GetAllActiveByCustomer retrieves the customer's non-terminal requests,
	// newest first.
	GetAllActiveByCustomer(ctx context.Context, customerID kernel.UUID) ([]*request.ServiceRequest, error)
}
