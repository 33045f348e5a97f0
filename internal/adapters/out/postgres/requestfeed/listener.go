// Package requestfeed delivers durable service request updates over
// PostgreSQL LISTEN/NOTIFY. A row trigger on the service_requests table
// notifies the request id on every insert and update; the feed reloads the
// row and pushes the fresh aggregate to every subscriber of that request.
//
// The underlying pq.Listener reconnects on its own after connection loss.
// After a reconnect the feed reloads every subscribed request once, so
// updates that fired while the connection was down are not lost.
package requestfeed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"homeservice/internal/adapters/out/postgres/requestrepo"
	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/core/domain/model/request"
	"homeservice/internal/core/ports"
	"homeservice/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	// NotifyChannel is the PostgreSQL channel the row trigger notifies on.
	NotifyChannel = "service_request_events"

	minReconnectInterval = 1 * time.Second
	maxReconnectInterval = 30 * time.Second
)

// triggerDDL installs the row trigger that notifies the request id on every
// insert and update of a service request.
const triggerDDL = `
CREATE OR REPLACE FUNCTION notify_service_request_event() RETURNS trigger AS $$
BEGIN
    PERFORM pg_notify('service_request_events', NEW.id::text);
    RETURN NEW;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS service_request_events ON service_requests;
CREATE TRIGGER service_request_events
    AFTER INSERT OR UPDATE ON service_requests
    FOR EACH ROW EXECUTE FUNCTION notify_service_request_event();
`

type subscription struct {
	requestID kernel.UUID
	onNext    func(*request.ServiceRequest)
	onError   func(error)
}

// noopTracker satisfies the repository's aggregate tracker; the feed only
// reads, so there is nothing to track.
type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}

// PgRequestFeed implements RequestFeed on top of PostgreSQL LISTEN/NOTIFY.
type PgRequestFeed struct {
	repo     *requestrepo.GormRequestRepository
	listener *pq.Listener
	logger   *slog.Logger

	mu     sync.Mutex
	subs   map[*subscription]struct{}
	closed bool
	done   chan struct{}
}

// NewPgRequestFeed creates a request feed listening on the given connection
// string. The feed installs the notify trigger, starts listening and keeps
// running until Close is called.
func NewPgRequestFeed(db *gorm.DB, connStr string, logger *slog.Logger) (*PgRequestFeed, error) {
	if err := db.Exec(triggerDDL).Error; err != nil {
		return nil, err
	}

	feed := &PgRequestFeed{
		repo:   requestrepo.NewGormRequestRepository(db, noopTracker{}),
		logger: logger,
		subs:   make(map[*subscription]struct{}),
		done:   make(chan struct{}),
	}

	feed.listener = pq.NewListener(connStr, minReconnectInterval, maxReconnectInterval,
		feed.onListenerEvent)
	if err := feed.listener.Listen(NotifyChannel); err != nil {
		_ = feed.listener.Close()
		return nil, err
	}

	go feed.run()
	return feed, nil
}

// Subscribe registers callbacks for a request and immediately delivers the
// current state as the first update. The returned function cancels the
// subscription.
func (f *PgRequestFeed) Subscribe(
	ctx context.Context,
	requestID kernel.UUID,
	onNext func(*request.ServiceRequest),
	onError func(error),
) (ports.UnsubscribeFunc, error) {
	if err := requestID.Validate(); err != nil {
		return nil, err
	}

	aggregate, err := f.repo.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}

	sub := &subscription{requestID: requestID, onNext: onNext, onError: onError}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, errs.NewTransientError("subscribe", errs.ErrObjectNotFound)
	}
	f.subs[sub] = struct{}{}
	f.mu.Unlock()

	onNext(aggregate)

	return func() {
		f.mu.Lock()
		delete(f.subs, sub)
		f.mu.Unlock()
	}, nil
}

// Close stops the feed and releases the listener connection. Active
// subscriptions stop receiving updates.
func (f *PgRequestFeed) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	f.subs = make(map[*subscription]struct{})
	f.mu.Unlock()

	close(f.done)
	return f.listener.Close()
}

func (f *PgRequestFeed) run() {
	for {
		select {
		case <-f.done:
			return
		case notification := <-f.listener.Notify:
			if notification == nil {
				// The listener reconnected; updates may have been missed.
				f.reloadAll()
				continue
			}
			f.dispatch(notification.Extra)
		}
	}
}

func (f *PgRequestFeed) onListenerEvent(event pq.ListenerEventType, err error) {
	if err != nil {
		f.logger.Warn("request feed listener event",
			slog.Int("event", int(event)), slog.Any("error", err))
	}
}

// dispatch reloads the notified request and pushes it to its subscribers.
func (f *PgRequestFeed) dispatch(rawID string) {
	requestID, err := kernel.UUIDFromString(rawID)
	if err != nil {
		f.logger.Warn("request feed received malformed notification",
			slog.String("payload", rawID), slog.Any("error", err))
		return
	}

	subs := f.subscribersOf(requestID)
	if len(subs) == 0 {
		return
	}

	f.deliver(requestID, subs)
}

// reloadAll re-delivers the current state of every subscribed request. Used
// after a listener reconnect, when notifications may have been dropped.
func (f *PgRequestFeed) reloadAll() {
	f.mu.Lock()
	byRequest := make(map[kernel.UUID][]*subscription)
	for sub := range f.subs {
		byRequest[sub.requestID] = append(byRequest[sub.requestID], sub)
	}
	f.mu.Unlock()

	for requestID, subs := range byRequest {
		f.deliver(requestID, subs)
	}
}

func (f *PgRequestFeed) subscribersOf(requestID kernel.UUID) []*subscription {
	f.mu.Lock()
	defer f.mu.Unlock()

	var subs []*subscription
	for sub := range f.subs {
		if sub.requestID.IsEqual(requestID) {
			subs = append(subs, sub)
		}
	}
	return subs
}

func (f *PgRequestFeed) deliver(requestID kernel.UUID, subs []*subscription) {
	aggregate, err := f.repo.Get(context.Background(), requestID)
	if err != nil {
		feedErr := errs.NewTransientError("reload request", err)
		for _, sub := range subs {
			sub.onError(feedErr)
		}
		return
	}

	for _, sub := range subs {
		sub.onNext(aggregate)
	}
}
