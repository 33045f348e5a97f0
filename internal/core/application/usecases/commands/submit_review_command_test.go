package commands_test

import (
	"testing"

	"homeservice/internal/core/application/usecases/commands"
	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubmitReviewCommand(t *testing.T) {
	jobCardID := kernel.NewUUID()
	customerID := kernel.NewUUID()

	t.Run("should create valid command", func(t *testing.T) {
		cmd, err := commands.NewSubmitReviewCommand(jobCardID, customerID, 5, "great work")

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.True(t, cmd.JobCardID().IsEqual(jobCardID))
		assert.True(t, cmd.CustomerID().IsEqual(customerID))
		assert.Equal(t, 5, cmd.Rating())
		assert.Equal(t, "great work", cmd.Comment())
	})

	t.Run("should allow empty comment", func(t *testing.T) {
		cmd, err := commands.NewSubmitReviewCommand(jobCardID, customerID, 3, "")

		require.NoError(t, err)
		assert.Empty(t, cmd.Comment())
	})

	t.Run("should reject out-of-range ratings", func(t *testing.T) {
		for _, rating := range []int{0, -1, 6, 100} {
			_, err := commands.NewSubmitReviewCommand(jobCardID, customerID, rating, "")

			require.Error(t, err)
			require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		}
	})

	t.Run("should fail with invalid UUIDs", func(t *testing.T) {
		var invalidID kernel.UUID

		_, err := commands.NewSubmitReviewCommand(invalidID, customerID, 4, "")
		require.Error(t, err)

		_, err = commands.NewSubmitReviewCommand(jobCardID, invalidID, 4, "")
		require.Error(t, err)
	})

	t.Run("should fail validation for zero value command", func(t *testing.T) {
		var cmd commands.SubmitReviewCommand

		err := cmd.Validate()

		require.Error(t, err)
		assert.Equal(t, commands.ErrSubmitReviewCommandIsNotConstructed, err)
	})
}
