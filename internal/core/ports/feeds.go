package ports

import (
	"context"

	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/core/domain/model/provider"
	"homeservice/internal/core/domain/model/request"
)

// UnsubscribeFunc tears down a live subscription. Safe to call more than
// once.
type UnsubscribeFunc func()

// RequestFeed is the durable feed: a live subscription to the authoritative
// persisted service request record. The full record is delivered on every
// external write, in arrival order.
//
// onError receives feed-level failures. Implementations distinguish
// permission errors (errs.ErrPermissionDenied), which are final for the
// subscription, from transient errors (errs.ErrTransient), after which the
// feed keeps trying and delivery resumes.
type RequestFeed interface {
	// Subscribe starts delivering record snapshots for the request. The
	// returned function cancels the subscription.
	Subscribe(
		ctx context.Context,
		requestID kernel.UUID,
		onNext func(*request.ServiceRequest),
		onError func(error),
	) (UnsubscribeFunc, error)
}

// LocationFeed is the ephemeral feed: a high-frequency, non-persisted
// stream of location samples for one provider. It never carries status.
type LocationFeed interface {
	// Subscribe starts delivering location samples for the provider. The
	// returned function cancels the subscription.
	Subscribe(
		ctx context.Context,
		providerID kernel.UUID,
		onNext func(provider.Location),
	) (UnsubscribeFunc, error)

	// Publish stores and fans out a new location sample for a provider.
	Publish(ctx context.Context, location provider.Location) error
}
