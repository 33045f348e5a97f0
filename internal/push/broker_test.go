package push_test

import (
	"log/slog"
	"testing"

	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/core/ports"
	"homeservice/internal/push"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestRoomBroker_Emit(t *testing.T) {
	t.Run("should deliver payload to subscriber of room and event", func(t *testing.T) {
		broker := push.NewRoomBroker(testLogger())

		session, err := broker.Dial(t.Context())
		require.NoError(t, err)

		room := ports.ProviderRoom(kernel.NewUUID())
		require.NoError(t, session.Join(room))

		received := make(chan any, 1)
		cancel := session.On(ports.EventNewBooking, func(payload any) {
			received <- payload
		})
		defer cancel()

		require.NoError(t, broker.Emit(t.Context(), room, ports.EventNewBooking, "payload"))

		select {
		case got := <-received:
			assert.Equal(t, "payload", got)
		default:
			t.Fatal("expected payload delivery")
		}
	})

	t.Run("should not deliver to other rooms", func(t *testing.T) {
		broker := push.NewRoomBroker(testLogger())

		session, err := broker.Dial(t.Context())
		require.NoError(t, err)
		require.NoError(t, session.Join(ports.ProviderRoom(kernel.NewUUID())))

		received := make(chan any, 1)
		cancel := session.On(ports.EventNewBooking, func(payload any) {
			received <- payload
		})
		defer cancel()

		otherRoom := ports.ProviderRoom(kernel.NewUUID())
		require.NoError(t, broker.Emit(t.Context(), otherRoom, ports.EventNewBooking, "payload"))

		assert.Empty(t, received)
	})

	t.Run("should not deliver other events in same room", func(t *testing.T) {
		broker := push.NewRoomBroker(testLogger())

		session, err := broker.Dial(t.Context())
		require.NoError(t, err)

		room := ports.CustomerRoom(kernel.NewUUID())
		require.NoError(t, session.Join(room))

		received := make(chan any, 1)
		cancel := session.On(ports.EventServiceCompleted, func(payload any) {
			received <- payload
		})
		defer cancel()

		require.NoError(t, broker.Emit(t.Context(), room, ports.EventNewBooking, "payload"))

		assert.Empty(t, received)
	})

	t.Run("should succeed with no subscribers", func(t *testing.T) {
		broker := push.NewRoomBroker(testLogger())

		err := broker.Emit(t.Context(), ports.ProviderRoom(kernel.NewUUID()), ports.EventNewBooking, "payload")
		require.NoError(t, err)
	})

	t.Run("should reject empty room or event", func(t *testing.T) {
		broker := push.NewRoomBroker(testLogger())

		require.Error(t, broker.Emit(t.Context(), "", ports.EventNewBooking, nil))
		require.Error(t, broker.Emit(t.Context(), "provider:x", "", nil))
	})
}

func TestBrokerSession(t *testing.T) {
	t.Run("should stop receiving after handler cancel", func(t *testing.T) {
		broker := push.NewRoomBroker(testLogger())

		session, err := broker.Dial(t.Context())
		require.NoError(t, err)

		room := ports.ProviderRoom(kernel.NewUUID())
		require.NoError(t, session.Join(room))

		received := make(chan any, 1)
		cancel := session.On(ports.EventNewBooking, func(payload any) {
			received <- payload
		})

		cancel()
		require.NoError(t, broker.Emit(t.Context(), room, ports.EventNewBooking, "payload"))

		assert.Empty(t, received)
	})

	t.Run("should stop receiving after close", func(t *testing.T) {
		broker := push.NewRoomBroker(testLogger())

		session, err := broker.Dial(t.Context())
		require.NoError(t, err)

		room := ports.ProviderRoom(kernel.NewUUID())
		require.NoError(t, session.Join(room))

		received := make(chan any, 1)
		session.On(ports.EventNewBooking, func(payload any) {
			received <- payload
		})

		require.NoError(t, session.Close())
		require.NoError(t, broker.Emit(t.Context(), room, ports.EventNewBooking, "payload"))

		assert.Empty(t, received)
	})

	t.Run("should reject join after close", func(t *testing.T) {
		broker := push.NewRoomBroker(testLogger())

		session, err := broker.Dial(t.Context())
		require.NoError(t, err)
		require.NoError(t, session.Close())

		require.Error(t, session.Join("provider:x"))
	})
}
