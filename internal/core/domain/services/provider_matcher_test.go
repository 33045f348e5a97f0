package services_test

import (
	"testing"

	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/core/domain/model/provider"
	"homeservice/internal/core/domain/model/request"
	"homeservice/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequest(t *testing.T, serviceType string) *request.ServiceRequest {
	t.Helper()
	address, err := request.NewAddress("12 MG Road", "Bengaluru", "Karnataka", "560001", nil)
	require.NoError(t, err)
	r, err := request.NewServiceRequest(
		kernel.NewUUID(), kernel.NewUUID(),
		"Asha Rao", "+919800000001",
		address, serviceType, "kitchen sink is leaking",
		request.Immediate, nil,
	)
	require.NoError(t, err)
	return r
}

func restoreProvider(t *testing.T, category, legacyCategory string, online, approved bool) *provider.Provider {
	t.Helper()
	p, err := provider.RestoreProvider(
		kernel.NewUUID(), "Ravi Kumar", "+919800000099", "",
		category, legacyCategory, online, approved)
	require.NoError(t, err)
	return p
}

func TestProviderMatcher_Match(t *testing.T) {
	matcher := services.NewProviderMatcher()

	t.Run("should match available providers by current category", func(t *testing.T) {
		plumber := restoreProvider(t, "plumbing", "", true, true)
		electrician := restoreProvider(t, "electrical", "", true, true)

		matched, err := matcher.Match(newRequest(t, "plumbing"),
			[]*provider.Provider{plumber, electrician})

		require.NoError(t, err)
		require.Len(t, matched, 1)
		assert.True(t, matched[0].IsEqual(plumber))
	})

	t.Run("should match providers via legacy category field", func(t *testing.T) {
		current := restoreProvider(t, "plumbing", "", true, true)
		legacy := restoreProvider(t, "general", "Plumber", true, true)

		matched, err := matcher.Match(newRequest(t, "plumber"),
			[]*provider.Provider{current, legacy})

		require.NoError(t, err)
		require.Len(t, matched, 1)
		assert.True(t, matched[0].IsEqual(legacy))
	})

	t.Run("should include both current and legacy matches", func(t *testing.T) {
		current := restoreProvider(t, "plumbing", "", true, true)
		legacy := restoreProvider(t, "general", "plumbing", true, true)

		matched, err := matcher.Match(newRequest(t, "plumbing"),
			[]*provider.Provider{current, legacy})

		require.NoError(t, err)
		assert.Len(t, matched, 2)
	})

	t.Run("should exclude offline and unapproved providers", func(t *testing.T) {
		offline := restoreProvider(t, "plumbing", "", false, true)
		unapproved := restoreProvider(t, "plumbing", "", true, false)
		available := restoreProvider(t, "plumbing", "", true, true)

		matched, err := matcher.Match(newRequest(t, "plumbing"),
			[]*provider.Provider{offline, unapproved, available})

		require.NoError(t, err)
		require.Len(t, matched, 1)
		assert.True(t, matched[0].IsEqual(available))
	})

	t.Run("should return each provider at most once", func(t *testing.T) {
		// Both category fields match the requested type.
		both := restoreProvider(t, "plumbing", "plumbing", true, true)

		matched, err := matcher.Match(newRequest(t, "plumbing"),
			[]*provider.Provider{both, both})

		require.NoError(t, err)
		assert.Len(t, matched, 1)
	})

	t.Run("should return empty slice when nothing matches", func(t *testing.T) {
		electrician := restoreProvider(t, "electrical", "", true, true)

		matched, err := matcher.Match(newRequest(t, "plumbing"),
			[]*provider.Provider{electrician})

		require.NoError(t, err)
		assert.Empty(t, matched)
	})

	t.Run("should return empty slice for no candidates", func(t *testing.T) {
		matched, err := matcher.Match(newRequest(t, "plumbing"), nil)

		require.NoError(t, err)
		assert.Empty(t, matched)
	})

	t.Run("should fail with unconstructed request", func(t *testing.T) {
		var invalid *request.ServiceRequest

		matched, err := matcher.Match(invalid, nil)

		require.Error(t, err)
		assert.Nil(t, matched)
		assert.Equal(t, request.ErrRequestIsNotConstructed, err)
	})

	t.Run("should fail with unconstructed candidate", func(t *testing.T) {
		var invalid provider.Provider

		matched, err := matcher.Match(newRequest(t, "plumbing"),
			[]*provider.Provider{&invalid})

		require.Error(t, err)
		assert.Nil(t, matched)
	})
}
