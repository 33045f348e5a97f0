package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// State describes the connection lifecycle of a ConnectionManager.
type State int

const (
	// StateDisconnected means no session is open and none is being opened.
	StateDisconnected State = iota
	// StateConnecting means a dial attempt is in progress.
	StateConnecting
	// StateConnected means a live session is open.
	StateConnected
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return fmt.Sprintf("unknown (%d)", int(s))
	}
}

// Session is a live attachment to an event hub.
type Session interface {
	Join(room string) error
	Emit(ctx context.Context, room, event string, payload any) error
	On(event string, handler func(payload any)) func()
	Close() error
}

// Transport opens sessions. RoomBroker implements it in-process; a
// socket-based hub would implement it over the network.
type Transport interface {
	Dial(ctx context.Context) (Session, error)
}

// ErrConnectionExhausted is returned when every attempt of the retry policy
// failed.
var ErrConnectionExhausted = errors.New("connection attempts exhausted")

// ConnectionManager keeps an app attached to the push hub. It moves between
// disconnected, connecting and connected; Connect retries dialing per the
// retry policy, and all operations degrade gracefully while disconnected:
// joins are remembered and replayed, emits are dropped with a warning.
type ConnectionManager struct {
	transport Transport
	policy    RetryPolicy
	logger    *slog.Logger

	mu       sync.Mutex
	state    State
	session  Session
	rooms    map[string]struct{}
	handlers map[*pendingHandler]struct{}
}

type pendingHandler struct {
	event   string
	handler func(payload any)
	cancel  func()
}

// NewConnectionManager creates a disconnected manager.
func NewConnectionManager(transport Transport, policy RetryPolicy, logger *slog.Logger) (*ConnectionManager, error) {
	if transport == nil {
		return nil, errors.New("transport is required")
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	return &ConnectionManager{
		transport: transport,
		policy:    policy,
		logger:    logger,
		state:     StateDisconnected,
		rooms:     make(map[string]struct{}),
		handlers:  make(map[*pendingHandler]struct{}),
	}, nil
}

// Status returns the current connection state.
func (m *ConnectionManager) Status() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Connect dials the hub, retrying per the retry policy. Calling Connect when
// already connected or while another Connect is in flight is a no-op. Joined
// rooms and registered handlers are replayed onto the new session.
func (m *ConnectionManager) Connect(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateDisconnected {
		m.mu.Unlock()
		return nil
	}
	m.state = StateConnecting
	m.mu.Unlock()

	session, err := m.dial(ctx)
	if err != nil {
		m.mu.Lock()
		m.state = StateDisconnected
		m.mu.Unlock()
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = session
	m.state = StateConnected

	for room := range m.rooms {
		if joinErr := session.Join(room); joinErr != nil {
			m.logger.Warn("failed to rejoin room",
				slog.String("room", room), slog.Any("error", joinErr))
		}
	}
	for h := range m.handlers {
		h.cancel = session.On(h.event, h.handler)
	}

	m.logger.Info("push connection established")
	return nil
}

func (m *ConnectionManager) dial(ctx context.Context) (Session, error) {
	var lastErr error
	for attempt := 1; attempt <= m.policy.MaxAttempts(); attempt++ {
		session, err := m.transport.Dial(ctx)
		if err == nil {
			return session, nil
		}
		lastErr = err
		m.logger.Warn("push connection attempt failed",
			slog.Int("attempt", attempt),
			slog.Int("maxAttempts", m.policy.MaxAttempts()),
			slog.Any("error", err))

		if attempt == m.policy.MaxAttempts() {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.policy.Interval()):
		}
	}

	return nil, fmt.Errorf("%w: %w", ErrConnectionExhausted, lastErr)
}

// JoinRoom subscribes the connection to a room. While disconnected the room
// is remembered and joined once Connect succeeds.
func (m *ConnectionManager) JoinRoom(room string) error {
	if room == "" {
		return errors.New("room is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.rooms[room] = struct{}{}

	if m.state != StateConnected {
		m.logger.Warn("join requested while disconnected, deferred until connect",
			slog.String("room", room))
		return nil
	}

	return m.session.Join(room)
}

// On registers an event handler. The returned function removes it. While
// disconnected the handler is remembered and attached once Connect succeeds.
func (m *ConnectionManager) On(event string, handler func(payload any)) func() {
	h := &pendingHandler{event: event, handler: handler}

	m.mu.Lock()
	m.handlers[h] = struct{}{}
	if m.state == StateConnected {
		h.cancel = m.session.On(event, handler)
	}
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.handlers, h)
			cancel := h.cancel
			m.mu.Unlock()
			if cancel != nil {
				cancel()
			}
		})
	}
}

// Emit sends an event to a room, best effort. While disconnected the event
// is dropped with a warning rather than failing the caller.
func (m *ConnectionManager) Emit(ctx context.Context, room, event string, payload any) error {
	m.mu.Lock()
	session := m.session
	connected := m.state == StateConnected
	m.mu.Unlock()

	if !connected {
		m.logger.Warn("emit dropped while disconnected",
			slog.String("room", room), slog.String("event", event))
		return nil
	}

	return session.Emit(ctx, room, event, payload)
}

// Disconnect closes the session and drops every event subscription. Rooms
// are kept and re-joined on the next Connect; handlers must be registered
// again.
func (m *ConnectionManager) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.handlers = make(map[*pendingHandler]struct{})

	if m.state != StateConnected {
		m.state = StateDisconnected
		return nil
	}

	err := m.session.Close()
	m.session = nil
	m.state = StateDisconnected

	m.logger.Info("push connection closed")
	return err
}
