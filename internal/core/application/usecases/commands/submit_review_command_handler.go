package commands

import (
	"context"
	"fmt"

	"homeservice/internal/core/domain/model/jobcard"
	"homeservice/internal/core/ports"
	"homeservice/internal/pkg/errs"
)

// SubmitReviewCommandHandler handles review submission for completed jobs.
//
// A review is accepted only when the job card is completed, belongs to the
// submitting customer, and has no prior review. The review store holds at
// most one review per job card, so a concurrent duplicate loses on the
// store's uniqueness constraint rather than here.
type SubmitReviewCommandHandler struct {
	uowFactory  UoWFactory
	reviewStore ports.ReviewStore
}

// NewSubmitReviewCommandHandler creates a handler for review submission.
func NewSubmitReviewCommandHandler(
	uowFactory UoWFactory,
	reviewStore ports.ReviewStore,
) SubmitReviewCommandHandler {
	return SubmitReviewCommandHandler{
		uowFactory:  uowFactory,
		reviewStore: reviewStore,
	}
}

// Handle processes the review submission command.
func (h *SubmitReviewCommandHandler) Handle(ctx context.Context, cmd SubmitReviewCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	card, err := h.loadCompletedJobCard(ctx, cmd)
	if err != nil {
		return err
	}

	exists, err := h.reviewStore.Exists(ctx, card.ID())
	if err != nil {
		return err
	}
	if exists {
		return errs.NewValueIsInvalidErrorWithCause("jobCardId",
			fmt.Errorf("job card %s already has a review", card.ID()))
	}

	return h.reviewStore.Create(ctx, ports.Review{
		JobCardID:  card.ID(),
		CustomerID: cmd.CustomerID(),
		Rating:     cmd.Rating(),
		Comment:    cmd.Comment(),
	})
}

func (h *SubmitReviewCommandHandler) loadCompletedJobCard(
	ctx context.Context, cmd SubmitReviewCommand,
) (*jobcard.JobCard, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	card, err := uow.JobCardRepository().Get(ctx, cmd.JobCardID())
	if err != nil {
		return nil, err
	}

	if !card.CustomerID().IsEqual(cmd.CustomerID()) {
		return nil, errs.NewPermissionError("job card review")
	}

	if card.Status() != jobcard.Completed {
		return nil, errs.NewValueIsInvalidErrorWithCause("jobCardId",
			fmt.Errorf("job card %s is %s, only completed jobs can be reviewed",
				card.ID(), card.Status()))
	}

	return card, nil
}
