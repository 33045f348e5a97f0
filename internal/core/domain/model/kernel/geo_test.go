package kernel_test

import (
	"testing"

	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	t.Run("creates point with valid coordinates", func(t *testing.T) {
		point, err := kernel.NewGeoPoint(12.9716, 77.5946)

		require.NoError(t, err)
		assert.NoError(t, point.Validate())
		assert.InDelta(t, 12.9716, point.Latitude(), 1e-9)
		assert.InDelta(t, 77.5946, point.Longitude(), 1e-9)
	})

	t.Run("accepts boundary coordinates", func(t *testing.T) {
		for _, coords := range [][2]float64{
			{kernel.LatitudeMin, kernel.LongitudeMin},
			{kernel.LatitudeMax, kernel.LongitudeMax},
			{0, 0},
		} {
			_, err := kernel.NewGeoPoint(coords[0], coords[1])
			require.NoError(t, err)
		}
	})

	t.Run("rejects latitude out of range", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(91, 0)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("rejects longitude out of range", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(0, -181)

		require.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var point kernel.GeoPoint

		err := point.Validate()

		require.Error(t, err)
		assert.Equal(t, kernel.ErrGeoPointIsNotConstructed, err)
	})
}

func TestGeoPoint_DistanceKm(t *testing.T) {
	t.Run("distance to itself is zero", func(t *testing.T) {
		point, err := kernel.NewGeoPoint(12.9716, 77.5946)
		require.NoError(t, err)

		distance, err := point.DistanceKm(point)

		require.NoError(t, err)
		assert.Zero(t, distance)
	})

	t.Run("distance is symmetric and positive", func(t *testing.T) {
		a, err := kernel.NewGeoPoint(12.9716, 77.5946) // Bengaluru
		require.NoError(t, err)
		b, err := kernel.NewGeoPoint(13.0827, 80.2707) // Chennai
		require.NoError(t, err)

		ab, err := a.DistanceKm(b)
		require.NoError(t, err)
		ba, err := b.DistanceKm(a)
		require.NoError(t, err)

		assert.InDelta(t, ab, ba, 1e-9)
		assert.Greater(t, ab, 0.0)
		// Bengaluru-Chennai is roughly 290 km as the crow flies.
		assert.InDelta(t, 290, ab, 15)
	})

	t.Run("unconstructed point fails", func(t *testing.T) {
		point, err := kernel.NewGeoPoint(12.9716, 77.5946)
		require.NoError(t, err)
		var zero kernel.GeoPoint

		_, err = point.DistanceKm(zero)

		require.Error(t, err)
	})
}

func TestComputeDistanceEta(t *testing.T) {
	customer, err := kernel.NewGeoPoint(12.9716, 77.5946)
	require.NoError(t, err)
	provider, err := kernel.NewGeoPoint(12.9916, 77.5946) // ~2.2 km north
	require.NoError(t, err)

	t.Run("returns nothing when provider location missing", func(t *testing.T) {
		_, ok := kernel.ComputeDistanceEta(nil, &customer)

		assert.False(t, ok)
	})

	t.Run("returns nothing when customer location missing", func(t *testing.T) {
		_, ok := kernel.ComputeDistanceEta(&provider, nil)

		assert.False(t, ok)
	})

	t.Run("returns nothing for unconstructed point", func(t *testing.T) {
		var zero kernel.GeoPoint

		_, ok := kernel.ComputeDistanceEta(&zero, &customer)

		assert.False(t, ok)
	})

	t.Run("valid pair yields non-negative distance and ETA", func(t *testing.T) {
		result, ok := kernel.ComputeDistanceEta(&provider, &customer)

		require.True(t, ok)
		assert.NotEmpty(t, result.Distance)
		assert.GreaterOrEqual(t, result.EtaMinutes, 0)
		assert.Contains(t, result.Distance, "km")
	})

	t.Run("identical points yield zero distance and zero ETA", func(t *testing.T) {
		result, ok := kernel.ComputeDistanceEta(&customer, &customer)

		require.True(t, ok)
		assert.Equal(t, "0 m", result.Distance)
		assert.Zero(t, result.EtaMinutes)
	})

	t.Run("sub-kilometer distance formats in meters", func(t *testing.T) {
		near, err := kernel.NewGeoPoint(12.9766, 77.5946) // ~550 m north
		require.NoError(t, err)

		result, ok := kernel.ComputeDistanceEta(&near, &customer)

		require.True(t, ok)
		assert.Contains(t, result.Distance, "m")
		assert.NotContains(t, result.Distance, "km")
		assert.GreaterOrEqual(t, result.EtaMinutes, 1)
	})
}
