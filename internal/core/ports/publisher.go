package ports

import (
	"context"
	"fmt"

	"homeservice/internal/core/domain/model/kernel"
)

// Push-channel event names.
const (
	// EventNewBooking is sent to a provider room when a matching request is
	// created.
	EventNewBooking = "new-booking"

	// EventServiceCompleted is sent to a customer room when the provider
	// marks the job completed.
	EventServiceCompleted = "service-completed"

	// EventJoinCustomerRoom is sent once per connection to join the
	// customer's own room.
	EventJoinCustomerRoom = "join-customer-room"
)

// ServiceCompletedPayload is the wire shape of EventServiceCompleted.
// ConsultationID is the external name of the request id; JobCardID may be
// absent when the sender did not know it yet.
type ServiceCompletedPayload struct {
	ConsultationID string `json:"consultationId"`
	JobCardID      string `json:"jobCardId,omitempty"`
}

// ProviderRoom returns the push-channel room name scoped to one provider.
func ProviderRoom(providerID kernel.UUID) string {
	return fmt.Sprintf("provider:%s", providerID)
}

// CustomerRoom returns the push-channel room name scoped to one customer.
func CustomerRoom(customerID kernel.UUID) string {
	return fmt.Sprintf("customer:%s", customerID)
}

// Publisher delivers push-channel events to room subscribers.
//
// Delivery is best-effort and advisory: the durable record is always the
// source of truth, so a failed emit is reported to the caller but never
// retried by the transport.
type Publisher interface {
	// Emit sends one event to every subscriber of the room.
	Emit(ctx context.Context, room, event string, payload any) error
}
