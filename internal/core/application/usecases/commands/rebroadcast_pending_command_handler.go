package commands

import (
	"context"
	"log/slog"

	"homeservice/internal/core/domain/model/request"
	"homeservice/internal/core/domain/services"
	"homeservice/internal/core/ports"
)

// RebroadcastPendingCommandHandler re-sends the new-booking notification for
// requests still sitting in Pending status. Providers come and go; a request
// nobody accepted on the first broadcast gets another chance whenever the
// sweep runs.
//
// The sweep reads only: no request is mutated, so a provider who accepts
// between two sweeps wins the race through the normal accept path.
type RebroadcastPendingCommandHandler struct {
	uowFactory RequestUoWFactory
	directory  ports.ProviderDirectory
	publisher  ports.Publisher
	matcher    services.ProviderMatcher
	logger     *slog.Logger
}

// NewRebroadcastPendingCommandHandler creates a handler for the pending
// re-broadcast sweep.
func NewRebroadcastPendingCommandHandler(
	uowFactory RequestUoWFactory,
	directory ports.ProviderDirectory,
	publisher ports.Publisher,
	matcher services.ProviderMatcher,
	logger *slog.Logger,
) RebroadcastPendingCommandHandler {
	return RebroadcastPendingCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
		publisher:  publisher,
		matcher:    matcher,
		logger:     logger,
	}
}

// Handle re-broadcasts every pending request to its currently matching
// providers. Per-request failures are logged and do not stop the sweep.
func (h *RebroadcastPendingCommandHandler) Handle(
	ctx context.Context, cmd RebroadcastPendingCommand,
) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	pending, err := uow.RequestRepository().GetAllInPendingStatus(ctx)
	if err != nil {
		return err
	}

	for _, aggregate := range pending {
		h.rebroadcast(ctx, aggregate)
	}
	return nil
}

func (h *RebroadcastPendingCommandHandler) rebroadcast(
	ctx context.Context, aggregate *request.ServiceRequest,
) {
	candidates, err := h.directory.FindAvailableByCategory(ctx, aggregate.ServiceType())
	if err != nil {
		h.logger.Warn("provider lookup failed during pending sweep",
			"requestId", aggregate.ID().String(),
			"error", err)
		return
	}

	matched, err := h.matcher.Match(aggregate, candidates)
	if err != nil {
		h.logger.Warn("provider matching failed during pending sweep",
			"requestId", aggregate.ID().String(),
			"error", err)
		return
	}

	if len(matched) == 0 {
		return
	}

	notification := notificationFromRequest(aggregate)
	for _, p := range matched {
		room := ports.ProviderRoom(p.ID())
		if emitErr := h.publisher.Emit(ctx, room, ports.EventNewBooking, notification); emitErr != nil {
			h.logger.Warn("re-broadcast to provider failed",
				"requestId", aggregate.ID().String(),
				"providerId", p.ID().String(),
				"error", emitErr)
		}
	}
}
