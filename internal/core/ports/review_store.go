package ports

import (
	"context"

	"homeservice/internal/core/domain/model/kernel"
)

// Review is a customer's rating of a completed job.
type Review struct {
	JobCardID  kernel.UUID
	CustomerID kernel.UUID
	Rating     int
	Comment    string
}

// ReviewStore defines the persistence contract for job reviews.
//
// At most one review exists per job card; Create fails on a duplicate.
type ReviewStore interface {
	// Exists reports whether a review has already been submitted for the
	// job card.
	Exists(ctx context.Context, jobCardID kernel.UUID) (bool, error)

	// Create persists a new review for a job card.
	Create(ctx context.Context, review Review) error
}
