package ports

import (
	"context"

	"homeservice/internal/core/domain/model/jobcard"
	"homeservice/internal/core/domain/model/kernel"
)

// JobCardRepository defines the persistence contract for JobCard
// aggregates.
//
// The storage layer enforces the at-most-one-active-job-card-per-request
// invariant; Add fails when an active card already exists for the same
// request.
type JobCardRepository interface {
	// Add persists a new job card aggregate to storage.
	Add(ctx context.Context, aggregate *jobcard.JobCard) error

	// Update persists changes to an existing job card aggregate.
	Update(ctx context.Context, aggregate *jobcard.JobCard) error

	// Get retrieves a job card aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*jobcard.JobCard, error)

	// GetActiveByRequest retrieves the single active (non-terminal) job card
	// for a request, if one exists.
	GetActiveByRequest(ctx context.Context, requestID kernel.UUID) (*jobcard.JobCard, error)

	// GetByRequestAndCustomer retrieves the most recent job card for a
	// (request, customer) pair regardless of status. Used by review
	// eligibility when the job card id is not yet known locally.
	GetByRequestAndCustomer(ctx context.Context, requestID, customerID kernel.UUID) (*jobcard.JobCard, error)
}
