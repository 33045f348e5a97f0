package tracking

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/core/domain/model/provider"
	"homeservice/internal/core/domain/model/request"
	"homeservice/internal/core/ports"
	"homeservice/internal/pkg/errs"
)

// Snapshot is the customer-facing tracking state at a point in time. Request
// is always present once the first durable update arrived; the provider
// profile, position and estimate appear only while a provider is assigned.
type Snapshot struct {
	Request          *request.ServiceRequest
	Provider         *provider.Provider
	ProviderLocation *provider.Location
	Estimate         *kernel.DistanceEta
}

// StatusSynchronizer drives one tracking session. It subscribes to the
// durable request feed, follows provider assignment changes by loading the
// provider profile and re-pointing the location subscription, and folds
// position updates into distance estimates.
//
// The request feed is authoritative: a position update never changes status,
// and positions from a provider no longer assigned are dropped. Transient
// feed errors keep the last snapshot; a permission error ends the session.
type StatusSynchronizer struct {
	requestFeed  ports.RequestFeed
	locationFeed ports.LocationFeed
	directory    ports.ProviderDirectory
	tracker      LocationTracker
	logger       *slog.Logger

	mu              sync.Mutex
	ctx             context.Context
	snapshot        Snapshot
	currentProvider *kernel.UUID
	unsubRequest    ports.UnsubscribeFunc
	unsubLocation   ports.UnsubscribeFunc
	onUpdate        func(Snapshot)
	onError         func(error)
	started         bool
	closed          bool
}

// NewStatusSynchronizer creates a synchronizer for a single tracking session.
func NewStatusSynchronizer(
	requestFeed ports.RequestFeed,
	locationFeed ports.LocationFeed,
	directory ports.ProviderDirectory,
	tracker LocationTracker,
	logger *slog.Logger,
) *StatusSynchronizer {
	return &StatusSynchronizer{
		requestFeed:  requestFeed,
		locationFeed: locationFeed,
		directory:    directory,
		tracker:      tracker,
		logger:       logger,
	}
}

// Start subscribes to the request's durable feed and begins delivering
// snapshots. onUpdate fires on every state change; onError reports feed
// errors, after which the session has ended only when the error is a
// permission failure.
func (s *StatusSynchronizer) Start(
	ctx context.Context,
	requestID kernel.UUID,
	onUpdate func(Snapshot),
	onError func(error),
) error {
	if onUpdate == nil {
		return errs.NewValueIsRequiredError("onUpdate")
	}

	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errs.NewValueIsInvalidError("synchronizer is already started")
	}
	s.started = true
	s.ctx = ctx
	s.onUpdate = onUpdate
	s.onError = onError
	s.mu.Unlock()

	unsubscribe, err := s.requestFeed.Subscribe(ctx, requestID, s.handleRequest, s.handleFeedError)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		unsubscribe()
		return nil
	}
	s.unsubRequest = unsubscribe
	s.mu.Unlock()
	return nil
}

// Close ends the session and cancels both feed subscriptions. Safe to call
// more than once.
func (s *StatusSynchronizer) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	unsubRequest := s.unsubRequest
	unsubLocation := s.unsubLocation
	s.unsubRequest = nil
	s.unsubLocation = nil
	s.mu.Unlock()

	if unsubRequest != nil {
		unsubRequest()
	}
	if unsubLocation != nil {
		unsubLocation()
	}
}

// handleRequest applies a durable update, reconciling the provider profile
// and the location subscription when the assignment changed.
func (s *StatusSynchronizer) handleRequest(req *request.ServiceRequest) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	s.snapshot.Request = req

	var staleLocationSub ports.UnsubscribeFunc
	switch providerID := req.Provider(); {
	case providerID == nil:
		if s.currentProvider != nil {
			staleLocationSub = s.dropProviderLocked()
		}
	case s.currentProvider == nil || !s.currentProvider.IsEqual(*providerID):
		staleLocationSub = s.switchProviderLocked(*providerID)
	}

	snapshot := s.snapshot
	s.mu.Unlock()

	if staleLocationSub != nil {
		staleLocationSub()
	}
	s.onUpdate(snapshot)
}

// dropProviderLocked clears provider state after an assignment was removed,
// returning the location unsubscribe to run outside the lock.
func (s *StatusSynchronizer) dropProviderLocked() ports.UnsubscribeFunc {
	unsubscribe := s.unsubLocation
	s.unsubLocation = nil
	s.currentProvider = nil
	s.snapshot.Provider = nil
	s.snapshot.ProviderLocation = nil
	s.snapshot.Estimate = nil
	return unsubscribe
}

// switchProviderLocked points the session at a newly assigned provider:
// profile reload, position reset, fresh location subscription. Returns the
// previous location unsubscribe to run outside the lock.
func (s *StatusSynchronizer) switchProviderLocked(providerID kernel.UUID) ports.UnsubscribeFunc {
	previous := s.unsubLocation
	s.unsubLocation = nil

	assigned := providerID
	s.currentProvider = &assigned
	s.snapshot.ProviderLocation = nil
	s.snapshot.Estimate = nil

	profile, err := s.directory.Get(s.ctx, providerID)
	if err != nil {
		// Status still advances; the profile fills in on the next update.
		s.logger.Warn("failed to load assigned provider profile",
			slog.String("providerId", providerID.String()), slog.Any("error", err))
		s.snapshot.Provider = nil
	} else {
		s.snapshot.Provider = profile
	}

	unsubscribe, err := s.locationFeed.Subscribe(s.ctx, providerID, s.handleLocation)
	if err != nil {
		s.logger.Warn("failed to subscribe to provider locations",
			slog.String("providerId", providerID.String()), slog.Any("error", err))
	} else {
		s.unsubLocation = unsubscribe
	}

	return previous
}

// handleLocation folds a position update into the snapshot. Positions from a
// provider that is no longer assigned, and stale positions, are dropped.
func (s *StatusSynchronizer) handleLocation(location provider.Location) {
	now := time.Now().UTC()

	s.mu.Lock()
	if s.closed || s.currentProvider == nil || !s.currentProvider.IsEqual(location.ProviderID) {
		s.mu.Unlock()
		return
	}

	if location.IsStale(now, s.tracker.TTL()) {
		s.mu.Unlock()
		s.logger.Debug("ignored stale provider location",
			slog.String("providerId", location.ProviderID.String()))
		return
	}

	s.snapshot.ProviderLocation = &location
	if estimate, ok := s.tracker.Estimate(s.snapshot.Request, location, now); ok {
		s.snapshot.Estimate = &estimate
	} else {
		s.snapshot.Estimate = nil
	}

	snapshot := s.snapshot
	s.mu.Unlock()

	s.onUpdate(snapshot)
}

// handleFeedError reports a durable feed error. Permission failures end the
// session; anything else keeps the last snapshot while the feed recovers.
func (s *StatusSynchronizer) handleFeedError(err error) {
	if errors.Is(err, errs.ErrPermissionDenied) {
		s.logger.Warn("tracking session denied", slog.Any("error", err))
		s.Close()
	} else {
		s.logger.Warn("tracking feed error, keeping last known state", slog.Any("error", err))
	}

	s.mu.Lock()
	onError := s.onError
	s.mu.Unlock()

	if onError != nil {
		onError(err)
	}
}
