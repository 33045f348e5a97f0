package commands_test

import (
	"testing"

	"homeservice/internal/core/application/usecases/commands"
	"homeservice/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCancelRequestCommand(t *testing.T) {
	t.Run("should create valid command", func(t *testing.T) {
		requestID := kernel.NewUUID()

		cmd, err := commands.NewCancelRequestCommand(requestID)

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.True(t, cmd.RequestID().IsEqual(requestID))
	})

	t.Run("should fail with invalid UUID", func(t *testing.T) {
		var invalidID kernel.UUID

		_, err := commands.NewCancelRequestCommand(invalidID)

		require.Error(t, err)
	})

	t.Run("should fail validation for zero value command", func(t *testing.T) {
		var cmd commands.CancelRequestCommand

		err := cmd.Validate()

		require.Error(t, err)
		assert.Equal(t, commands.ErrCancelRequestCommandIsNotConstructed, err)
	})
}
