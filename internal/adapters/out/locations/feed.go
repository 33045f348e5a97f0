// Package locations provides an in-memory location feed. Provider apps push
// position updates at a high rate; the feed fans each update out to active
// subscribers and keeps only the latest position per provider. Nothing here
// is durable: a missed update is superseded by the next one within seconds.
package locations

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/core/domain/model/provider"
	"homeservice/internal/core/ports"
)

// subscriberBuffer bounds the per-subscriber channel. A slow consumer drops
// the oldest buffered update rather than blocking publishers.
const subscriberBuffer = 8

type subscriber struct {
	providerID kernel.UUID
	updates    chan provider.Location
	done       chan struct{}
}

// InMemoryLocationFeed implements LocationFeed with per-provider fanout and
// a last-known-position cache.
type InMemoryLocationFeed struct {
	logger *slog.Logger

	mu          sync.RWMutex
	latest      map[kernel.UUID]provider.Location
	subscribers map[*subscriber]struct{}
	closed      bool
}

// NewInMemoryLocationFeed creates an empty location feed.
func NewInMemoryLocationFeed(logger *slog.Logger) *InMemoryLocationFeed {
	return &InMemoryLocationFeed{
		logger:      logger,
		latest:      make(map[kernel.UUID]provider.Location),
		subscribers: make(map[*subscriber]struct{}),
	}
}

// Publish records the provider's latest position and fans it out to that
// provider's subscribers. Older buffered updates are dropped for slow
// consumers; the newest position always wins.
func (f *InMemoryLocationFeed) Publish(_ context.Context, location provider.Location) error {
	if err := location.ProviderID.Validate(); err != nil {
		return err
	}
	if err := location.Point.Validate(); err != nil {
		return err
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}

	f.latest[location.ProviderID] = location

	var targets []*subscriber
	for sub := range f.subscribers {
		if sub.providerID.IsEqual(location.ProviderID) {
			targets = append(targets, sub)
		}
	}
	f.mu.Unlock()

	for _, sub := range targets {
		sub.push(location)
	}

	return nil
}

// Subscribe registers for a provider's position updates. The last known
// position, when one exists, is delivered first. Updates stop when the
// context is cancelled or the returned function is called.
func (f *InMemoryLocationFeed) Subscribe(
	ctx context.Context,
	providerID kernel.UUID,
	onNext func(provider.Location),
) (ports.UnsubscribeFunc, error) {
	if err := providerID.Validate(); err != nil {
		return nil, err
	}

	sub := &subscriber{
		providerID: providerID,
		updates:    make(chan provider.Location, subscriberBuffer),
		done:       make(chan struct{}),
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return func() {}, nil
	}
	f.subscribers[sub] = struct{}{}
	lastKnown, hasLastKnown := f.latest[providerID]
	f.mu.Unlock()

	if hasLastKnown {
		sub.push(lastKnown)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				f.remove(sub)
				return
			case <-sub.done:
				return
			case location := <-sub.updates:
				onNext(location)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.remove(sub)
			close(sub.done)
		})
	}, nil
}

// LastKnown returns the provider's most recent position, if any was published.
func (f *InMemoryLocationFeed) LastKnown(providerID kernel.UUID) (provider.Location, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	location, ok := f.latest[providerID]
	return location, ok
}

// SweepStale drops cached positions older than ttl and returns how many were
// removed. Subscriptions are untouched; a provider that resumes publishing
// reappears on the next update.
func (f *InMemoryLocationFeed) SweepStale(now time.Time, ttl time.Duration) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	removed := 0
	for providerID, location := range f.latest {
		if location.IsStale(now, ttl) {
			delete(f.latest, providerID)
			removed++
		}
	}

	if removed > 0 {
		f.logger.Info("swept stale provider locations", slog.Int("removed", removed))
	}
	return removed
}

// Close drops all subscribers and cached positions.
func (f *InMemoryLocationFeed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	f.subscribers = make(map[*subscriber]struct{})
	f.latest = make(map[kernel.UUID]provider.Location)
}

func (f *InMemoryLocationFeed) remove(sub *subscriber) {
	f.mu.Lock()
	delete(f.subscribers, sub)
	f.mu.Unlock()
}

// push delivers without blocking: when the buffer is full the oldest update
// is discarded in favour of the new one.
func (s *subscriber) push(location provider.Location) {
	for {
		select {
		case s.updates <- location:
			return
		default:
			select {
			case <-s.updates:
			default:
			}
		}
	}
}
