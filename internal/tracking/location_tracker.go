// Package tracking reconciles the two live feeds a customer watches after
// raising a request: the durable request feed carries status and provider
// assignment, the ephemeral location feed carries the provider's position.
// The request feed is authoritative; positions only decorate it.
package tracking

import (
	"time"

	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/core/domain/model/provider"
	"homeservice/internal/core/domain/model/request"
)

// DefaultLocationTTL is how old a provider position may be before it is
// ignored for distance estimates.
const DefaultLocationTTL = 2 * time.Minute

// LocationTracker turns provider positions into customer-facing distance and
// ETA estimates. Positions older than the TTL produce no estimate.
type LocationTracker struct {
	ttl time.Duration
}

// NewLocationTracker creates a tracker with the given staleness TTL. A
// non-positive TTL falls back to the default.
func NewLocationTracker(ttl time.Duration) LocationTracker {
	if ttl <= 0 {
		ttl = DefaultLocationTTL
	}
	return LocationTracker{ttl: ttl}
}

// TTL returns the staleness cutoff for provider positions.
func (t LocationTracker) TTL() time.Duration {
	return t.ttl
}

// Estimate computes distance and ETA between the provider's position and the
// request's address. It returns false when no estimate can be made: the
// position is stale, or the address carries no coordinates.
func (t LocationTracker) Estimate(
	req *request.ServiceRequest,
	location provider.Location,
	now time.Time,
) (kernel.DistanceEta, bool) {
	if req == nil || location.IsStale(now, t.ttl) {
		return kernel.DistanceEta{}, false
	}

	return kernel.ComputeDistanceEta(&location.Point, req.Address().Coordinates())
}
