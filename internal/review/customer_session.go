package review

import (
	"context"
	"log/slog"

	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/core/ports"
	"homeservice/internal/push"
)

// OpenCustomerSession connects a managed push session for one customer,
// joined to the customer's room, and routes service-completed events into
// the gate. This is the push half of the gate's dual completion channel;
// the durable half runs through the tracking stream, and the gate
// deduplicates when both fire for the same request.
func OpenCustomerSession(
	ctx context.Context,
	transport push.Transport,
	policy push.RetryPolicy,
	customerID kernel.UUID,
	gate *Gate,
	logger *slog.Logger,
) (*push.ConnectionManager, error) {
	if err := customerID.Validate(); err != nil {
		return nil, err
	}

	manager, err := push.NewConnectionManager(transport, policy, logger)
	if err != nil {
		return nil, err
	}

	if err = manager.JoinRoom(ports.CustomerRoom(customerID)); err != nil {
		return nil, err
	}
	manager.On(ports.EventServiceCompleted, func(payload any) {
		wire, ok := payload.(ports.ServiceCompletedPayload)
		if !ok {
			logger.Warn("unexpected service-completed payload",
				slog.String("customerId", customerID.String()))
			return
		}

		requestID, idErr := kernel.UUIDFromString(wire.ConsultationID)
		if idErr != nil {
			logger.Warn("service-completed event with invalid consultation id",
				slog.String("customerId", customerID.String()), slog.Any("error", idErr))
			return
		}
		signal := CompletionSignal{RequestID: requestID, CustomerID: customerID}
		if wire.JobCardID != "" {
			if jobCardID, jcErr := kernel.UUIDFromString(wire.JobCardID); jcErr == nil {
				signal.JobCardID = &jobCardID
			}
		}
		gate.Notify(context.Background(), signal)
	})

	if err = manager.Connect(ctx); err != nil {
		return nil, err
	}

	// Once per connection, announce the customer to the room. Best effort:
	// the join above is what grants delivery.
	if emitErr := manager.Emit(ctx,
		ports.CustomerRoom(customerID), ports.EventJoinCustomerRoom, customerID.String()); emitErr != nil {
		logger.Warn("join announcement failed",
			slog.String("customerId", customerID.String()), slog.Any("error", emitErr))
	}
	return manager, nil
}
