// Package push delivers real-time events to customer and provider apps.
// Rooms group connections by audience; events carry JSON-serializable
// payloads. The broker is the in-process hub behind the Publisher port, and
// ConnectionManager is the client-side state machine apps use to stay
// attached to it.
package push

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrRetryPolicyIsNotConstructed is returned when a zero-value RetryPolicy
// bypassed its constructor.
var ErrRetryPolicyIsNotConstructed = errors.New(
	"retry policy is not constructed, use NewRetryPolicy")

// handlerFunc receives the payload emitted to a room event.
type handlerFunc func(payload any)

type roomHandler struct {
	room    string
	event   string
	handler handlerFunc
}

// RoomBroker is an in-process event hub. Emitting to a room delivers the
// payload to every handler subscribed to that room and event. It implements
// the Publisher port used by the dispatch handlers.
type RoomBroker struct {
	logger *slog.Logger

	mu       sync.RWMutex
	handlers map[*roomHandler]struct{}
}

// NewRoomBroker creates an empty broker.
func NewRoomBroker(logger *slog.Logger) *RoomBroker {
	return &RoomBroker{
		logger:   logger,
		handlers: make(map[*roomHandler]struct{}),
	}
}

// Emit delivers the event payload to every subscriber of the room. Emitting
// to a room with no subscribers is not an error; the event is simply dropped.
func (b *RoomBroker) Emit(_ context.Context, room, event string, payload any) error {
	if room == "" || event == "" {
		return errors.New("room and event are required")
	}

	b.mu.RLock()
	var targets []handlerFunc
	for h := range b.handlers {
		if h.room == room && h.event == event {
			targets = append(targets, h.handler)
		}
	}
	b.mu.RUnlock()

	for _, handler := range targets {
		handler(payload)
	}

	b.logger.Debug("emitted push event",
		slog.String("room", room),
		slog.String("event", event),
		slog.Int("subscribers", len(targets)))
	return nil
}

// subscribe registers a handler for a room event and returns a cancel
// function. Used by broker sessions.
func (b *RoomBroker) subscribe(room, event string, handler handlerFunc) func() {
	h := &roomHandler{room: room, event: event, handler: handler}

	b.mu.Lock()
	b.handlers[h] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers, h)
			b.mu.Unlock()
		})
	}
}

// Dial opens a session on the broker, satisfying the Transport interface
// used by ConnectionManager.
func (b *RoomBroker) Dial(_ context.Context) (Session, error) {
	return &brokerSession{broker: b}, nil
}

// brokerSession is a live attachment to the broker. Joined rooms scope which
// events the session's handlers receive.
type brokerSession struct {
	broker *RoomBroker

	mu      sync.Mutex
	rooms   map[string]struct{}
	cancels []func()
	closed  bool
}

func (s *brokerSession) Join(room string) error {
	if room == "" {
		return errors.New("room is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("session is closed")
	}
	if s.rooms == nil {
		s.rooms = make(map[string]struct{})
	}
	s.rooms[room] = struct{}{}
	return nil
}

func (s *brokerSession) Emit(ctx context.Context, room, event string, payload any) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()

	if closed {
		return errors.New("session is closed")
	}
	return s.broker.Emit(ctx, room, event, payload)
}

// On registers a handler for an event in every room the session has joined
// so far. Join rooms before registering handlers.
func (s *brokerSession) On(event string, handler func(payload any)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return func() {}
	}

	var cancels []func()
	for room := range s.rooms {
		cancels = append(cancels, s.broker.subscribe(room, event, handler))
	}

	wrapped := func() {
		for _, cancel := range cancels {
			cancel()
		}
	}
	s.cancels = append(s.cancels, wrapped)
	return wrapped
}

func (s *brokerSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	for _, cancel := range s.cancels {
		cancel()
	}
	s.cancels = nil
	s.rooms = nil
	return nil
}
