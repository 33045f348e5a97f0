package provider_test

import (
	"testing"
	"time"

	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/core/domain/model/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	t.Run("should create provider offline and unapproved", func(t *testing.T) {
		id := kernel.NewUUID()

		p, err := provider.NewProvider(id, "Ravi Kumar", "+919800000099", "plumbing")

		require.NoError(t, err)
		require.NoError(t, p.Validate())
		assert.True(t, p.ID().IsEqual(id))
		assert.Equal(t, "Ravi Kumar", p.Name())
		assert.Equal(t, "plumbing", p.Category())
		assert.Empty(t, p.LegacyCategory())
		assert.False(t, p.IsOnline())
		assert.False(t, p.IsApproved())
		assert.False(t, p.IsAvailable())
	})

	t.Run("should fail with missing fields", func(t *testing.T) {
		p, err := provider.NewProvider(kernel.NewUUID(), "", "", "")

		require.Error(t, err)
		assert.Nil(t, p)
		assert.Contains(t, err.Error(), "name")
		assert.Contains(t, err.Error(), "phone")
		assert.Contains(t, err.Error(), "category")
	})
}

func TestProvider_IsAvailable(t *testing.T) {
	newProvider := func(t *testing.T) *provider.Provider {
		t.Helper()
		p, err := provider.NewProvider(kernel.NewUUID(), "Ravi Kumar", "+919800000099", "plumbing")
		require.NoError(t, err)
		return p
	}

	t.Run("should require both online and approved", func(t *testing.T) {
		p := newProvider(t)
		assert.False(t, p.IsAvailable())

		p.SetOnline(true)
		assert.False(t, p.IsAvailable())

		p.Approve()
		assert.True(t, p.IsAvailable())

		p.SetOnline(false)
		assert.False(t, p.IsAvailable())
	})
}

func TestProvider_MatchesCategory(t *testing.T) {
	p, err := provider.RestoreProvider(
		kernel.NewUUID(), "Ravi Kumar", "+919800000099", "",
		"plumbing", "Plumber", true, true)
	require.NoError(t, err)

	t.Run("should match current category", func(t *testing.T) {
		assert.True(t, p.MatchesCategory("plumbing"))
	})

	t.Run("should match legacy category", func(t *testing.T) {
		assert.True(t, p.MatchesCategory("Plumber"))
	})

	t.Run("should match case-insensitively", func(t *testing.T) {
		assert.True(t, p.MatchesCategory("Plumbing"))
		assert.True(t, p.MatchesCategory("plumber"))
	})

	t.Run("should not match other categories", func(t *testing.T) {
		assert.False(t, p.MatchesCategory("electrical"))
		assert.False(t, p.MatchesCategory(""))
	})

	t.Run("should ignore empty legacy category", func(t *testing.T) {
		noLegacy, err := provider.RestoreProvider(
			kernel.NewUUID(), "Suresh N", "+919800000098", "",
			"electrical", "", true, true)
		require.NoError(t, err)

		assert.True(t, noLegacy.MatchesCategory("electrical"))
		assert.False(t, noLegacy.MatchesCategory(""))
	})
}

func TestRestoreProvider(t *testing.T) {
	t.Run("should restore availability flags and photo", func(t *testing.T) {
		p, err := provider.RestoreProvider(
			kernel.NewUUID(), "Ravi Kumar", "+919800000099",
			"https://cdn.example.com/p/ravi.jpg",
			"plumbing", "Plumber", true, true)

		require.NoError(t, err)
		assert.True(t, p.IsOnline())
		assert.True(t, p.IsApproved())
		assert.True(t, p.IsAvailable())
		assert.Equal(t, "https://cdn.example.com/p/ravi.jpg", p.PhotoURL())
		assert.Equal(t, "Plumber", p.LegacyCategory())
	})
}

func TestNewLocation(t *testing.T) {
	point, err := kernel.NewGeoPoint(12.9716, 77.5946)
	require.NoError(t, err)

	t.Run("should create validated location sample", func(t *testing.T) {
		providerID := kernel.NewUUID()
		at := time.Now().UTC()

		l, err := provider.NewLocation(providerID, point, at)

		require.NoError(t, err)
		assert.True(t, l.ProviderID.IsEqual(providerID))
		assert.Equal(t, at, l.UpdatedAt)
	})

	t.Run("should fail with unconstructed point", func(t *testing.T) {
		var zeroPoint kernel.GeoPoint

		_, err := provider.NewLocation(kernel.NewUUID(), zeroPoint, time.Now())

		require.Error(t, err)
	})

	t.Run("should report staleness against a TTL", func(t *testing.T) {
		now := time.Now().UTC()
		l, err := provider.NewLocation(kernel.NewUUID(), point, now.Add(-2*time.Minute))
		require.NoError(t, err)

		assert.True(t, l.IsStale(now, time.Minute))
		assert.False(t, l.IsStale(now, 5*time.Minute))
	})
}
