package commands

import (
	"errors"

	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/pkg/errs"
	"homeservice/internal/pkg/guard"
)

var ErrSubmitReviewCommandIsNotConstructed = errors.New(
	"SubmitReviewCommand must be created via NewSubmitReviewCommand constructor",
)

const (
	RatingMin = 1
	RatingMax = 5
)

// SubmitReviewCommand represents a customer's review of a completed job.
type SubmitReviewCommand struct { //nolint:recvcheck //using for validation
	jobCardID  kernel.UUID
	customerID kernel.UUID
	rating     int
	comment    string

	guard guard.ConstructorGuard
}

// NewSubmitReviewCommand creates a command to submit a review for a job
// card. Rating must be within [RatingMin, RatingMax]; the comment is
// optional.
func NewSubmitReviewCommand(
	jobCardID kernel.UUID,
	customerID kernel.UUID,
	rating int,
	comment string,
) (SubmitReviewCommand, error) {
	cmd := SubmitReviewCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setIDs(jobCardID, customerID),
		cmd.setRating(rating),
	); err != nil {
		return SubmitReviewCommand{}, err
	}

	cmd.comment = comment
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SubmitReviewCommand) Validate() error {
	return c.guard.Validate(ErrSubmitReviewCommandIsNotConstructed)
}

// JobCardID returns the reviewed job card's identifier.
func (c SubmitReviewCommand) JobCardID() kernel.UUID {
	return c.jobCardID
}

// CustomerID returns the reviewing customer's identifier.
func (c SubmitReviewCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// Rating returns the star rating.
func (c SubmitReviewCommand) Rating() int {
	return c.rating
}

// Comment returns the free-text comment, may be empty.
func (c SubmitReviewCommand) Comment() string {
	return c.comment
}

func (c *SubmitReviewCommand) setIDs(jobCardID, customerID kernel.UUID) error {
	if err := jobCardID.Validate(); err != nil {
		return err
	}
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.jobCardID = jobCardID
	c.customerID = customerID
	return nil
}

func (c *SubmitReviewCommand) setRating(rating int) error {
	if rating < RatingMin || rating > RatingMax {
		return errs.NewValueIsOutOfRangeError("rating", rating, RatingMin, RatingMax)
	}

	c.rating = rating
	return nil
}
