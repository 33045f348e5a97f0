package commands

import (
	"context"
	"errors"

	"homeservice/internal/pkg/errs"
)

// CancelRequestCommandHandler handles request cancellation.
//
// Cancellation crosses both aggregates: the request moves to Cancelled with
// its provider assignment cleared, and an active job card for the request,
// if one exists, is cancelled in the same transaction so the two records
// never disagree about a dead job.
type CancelRequestCommandHandler struct {
	uowFactory UoWFactory
}

// NewCancelRequestCommandHandler creates a handler for cancellation
// operations.
func NewCancelRequestCommandHandler(uowFactory UoWFactory) CancelRequestCommandHandler {
	return CancelRequestCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the cancellation command. Fails when the request does
// not exist or is already terminal.
func (h *CancelRequestCommandHandler) Handle(ctx context.Context, cmd CancelRequestCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	requestRepo := uow.RequestRepository()
	aggregate, err := requestRepo.Get(ctx, cmd.RequestID())
	if err != nil {
		return err
	}

	if err = aggregate.Cancel(); err != nil {
		return err
	}

	if err = requestRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = h.cancelActiveJobCard(ctx, uow, cmd); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h *CancelRequestCommandHandler) cancelActiveJobCard(ctx context.Context, uow UoW, cmd CancelRequestCommand) error {
	jobCardRepo := uow.JobCardRepository()

	card, err := jobCardRepo.GetActiveByRequest(ctx, cmd.RequestID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil
		}
		return err
	}

	if err = card.Cancel(); err != nil {
		return err
	}

	return jobCardRepo.Update(ctx, card)
}
