package guard_test

import (
	"errors"
	"testing"

	"homeservice/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConstructorGuard(t *testing.T) {
	t.Run("creates_properly_constructed_guard", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("test object not constructed")))
		require.NoError(t, g.Validate(nil))
	})
}

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("properly_constructed_guard_returns_nil", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("not constructed")))
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		var g guard.ConstructorGuard // zero value
		expectedError := errors.New("entity not constructed")

		err := g.Validate(expectedError)

		require.Error(t, err)
		assert.Equal(t, expectedError, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		var g guard.ConstructorGuard // zero value

		err := g.Validate(nil)

		require.Error(t, err)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

// TestConstructorGuardUsageExample demonstrates how ConstructorGuard is used
// inside a domain object to enforce constructor usage.
func TestConstructorGuardUsageExample(t *testing.T) {
	type retryPolicy struct {
		maxAttempts int
		guard       guard.ConstructorGuard
	}

	var errPolicyNotConstructed = errors.New("retryPolicy must be created via newRetryPolicy")

	newRetryPolicy := func(maxAttempts int) (retryPolicy, error) {
		if maxAttempts <= 0 {
			return retryPolicy{}, errors.New("maxAttempts must be positive")
		}
		return retryPolicy{maxAttempts: maxAttempts, guard: guard.NewConstructorGuard()}, nil
	}

	validate := func(p retryPolicy) error {
		return p.guard.Validate(errPolicyNotConstructed)
	}

	t.Run("valid_construction_through_constructor", func(t *testing.T) {
		policy, err := newRetryPolicy(10)

		require.NoError(t, err)
		require.NoError(t, validate(policy))
		assert.Equal(t, 10, policy.maxAttempts)
	})

	t.Run("zero_value_construction_fails_validation", func(t *testing.T) {
		var policy retryPolicy

		err := validate(policy)

		require.Error(t, err)
		assert.Equal(t, errPolicyNotConstructed, err)
	})

	t.Run("constructor_validates_business_rules", func(t *testing.T) {
		_, err := newRetryPolicy(0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "maxAttempts must be positive")
	})
}

func TestConstructorGuardDefaultError(t *testing.T) {
	t.Run("default_error_constant_has_meaningful_message", func(t *testing.T) {
		require.Error(t, guard.ErrDefaultConstructorGuard)
		assert.Equal(t, "object must be created via its constructor", guard.ErrDefaultConstructorGuard.Error())
	})
}

// TestConstructorGuardConcurrency verifies that ConstructorGuard is safe for
// concurrent use by value.
func TestConstructorGuardConcurrency(t *testing.T) {
	g := guard.NewConstructorGuard()
	validationError := errors.New("not constructed")

	done := make(chan bool)
	for range 50 {
		go func() {
			for range 1000 {
				err := g.Validate(validationError)
				assert.NoError(t, err)
			}
			done <- true
		}()
	}

	for range 50 {
		<-done
	}
}
