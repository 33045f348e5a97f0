package commands

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/core/domain/model/provider"
	"homeservice/internal/core/domain/model/request"
	"homeservice/internal/core/domain/services"
	"homeservice/internal/core/ports"
	"homeservice/internal/pkg/errs"
)

// BookingNotification is the denormalized request snapshot sent to each
// matched provider's room. It carries everything the provider needs to
// decide whether to accept, without a further round trip.
type BookingNotification struct {
	RequestID     string     `json:"requestId"`
	CustomerName  string     `json:"customerName"`
	CustomerPhone string     `json:"customerPhone"`
	Address       string     `json:"address"`
	ServiceType   string     `json:"serviceType"`
	Problem       string     `json:"problem"`
	Urgency       string     `json:"urgency"`
	ScheduledTime *time.Time `json:"scheduledTime,omitempty"`
}

// CreateRequestCommandHandler handles request creation and the dispatch
// broadcast.
//
// The durable write is the commit point: the handler persists the request
// in Pending status, commits, and only then fans the notification out to
// matched providers. Broadcast is advisory — each send is awaited but
// failures are absorbed per provider and logged, so one provider's dead
// channel never blocks delivery to the others and never fails the call.
// The caller receives the request id regardless of how many broadcasts
// succeeded, even zero; pending requests are picked up later from the
// durable record.
type CreateRequestCommandHandler struct {
	uowFactory RequestUoWFactory
	directory  ports.ProviderDirectory
	publisher  ports.Publisher
	matcher    services.ProviderMatcher
	logger     *slog.Logger
}

// NewCreateRequestCommandHandler creates a handler for request creation
// operations.
func NewCreateRequestCommandHandler(
	uowFactory RequestUoWFactory,
	directory ports.ProviderDirectory,
	publisher ports.Publisher,
	matcher services.ProviderMatcher,
	logger *slog.Logger,
) CreateRequestCommandHandler {
	return CreateRequestCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
		publisher:  publisher,
		matcher:    matcher,
		logger:     logger,
	}
}

// Handle processes the request creation command.
//
// Steps: validate, persist the Pending request transactionally, look up
// matching providers, broadcast concurrently. Returns the new request id
// as soon as the durable write committed; broadcast failures are logged,
// never returned.
func (h *CreateRequestCommandHandler) Handle(
	ctx context.Context, cmd CreateRequestCommand,
) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	aggregate, err := request.NewServiceRequest(
		cmd.RequestID(), cmd.CustomerID(),
		cmd.CustomerName(), cmd.CustomerPhone(),
		cmd.Address(), cmd.ServiceType(), cmd.Problem(),
		cmd.Urgency(), cmd.ScheduledTime(),
	)
	if err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.RequestRepository().Add(ctx, aggregate); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	h.broadcast(ctx, aggregate)

	return aggregate.ID(), nil
}

// broadcast fans the new-booking notification out to every matched
// provider, one goroutine per provider. All sends are awaited; every
// failure is absorbed and logged.
func (h *CreateRequestCommandHandler) broadcast(ctx context.Context, aggregate *request.ServiceRequest) {
	matched, err := h.matchProviders(ctx, aggregate)
	if err != nil {
		h.logger.Warn("provider lookup failed, request stays pending for later pickup",
			"requestId", aggregate.ID().String(),
			"serviceType", aggregate.ServiceType(),
			"error", err)
		return
	}

	if len(matched) == 0 {
		h.logger.Info("no providers matched, request stays pending",
			"requestId", aggregate.ID().String(),
			"serviceType", aggregate.ServiceType())
		return
	}

	notification := notificationFromRequest(aggregate)

	var wg sync.WaitGroup
	failures := make([]error, len(matched))

	for i, p := range matched {
		wg.Add(1)
		go func(i int, p *provider.Provider) {
			defer wg.Done()

			room := ports.ProviderRoom(p.ID())
			if emitErr := h.publisher.Emit(ctx, room, ports.EventNewBooking, notification); emitErr != nil {
				failures[i] = emitErr
				h.logger.Warn("broadcast to provider failed",
					"requestId", aggregate.ID().String(),
					"providerId", p.ID().String(),
					"error", emitErr)
			}
		}(i, p)
	}
	wg.Wait()

	var causes []error
	for _, failure := range failures {
		if failure != nil {
			causes = append(causes, failure)
		}
	}

	if len(causes) > 0 {
		h.logger.Warn("dispatch broadcast partially failed",
			"requestId", aggregate.ID().String(),
			"error", errs.NewPartialBroadcastError(len(matched), causes))
	}
}

func (h *CreateRequestCommandHandler) matchProviders(
	ctx context.Context, aggregate *request.ServiceRequest,
) ([]*provider.Provider, error) {
	candidates, err := h.directory.FindAvailableByCategory(ctx, aggregate.ServiceType())
	if err != nil {
		return nil, err
	}

	return h.matcher.Match(aggregate, candidates)
}

func notificationFromRequest(aggregate *request.ServiceRequest) BookingNotification {
	return BookingNotification{
		RequestID:     aggregate.ID().String(),
		CustomerName:  aggregate.CustomerName(),
		CustomerPhone: aggregate.CustomerPhone(),
		Address:       aggregate.Address().String(),
		ServiceType:   aggregate.ServiceType(),
		Problem:       aggregate.Problem(),
		Urgency:       aggregate.Urgency().String(),
		ScheduledTime: aggregate.ScheduledTime(),
	}
}
