package kernel_test

import (
	"math"
	"testing"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPoint(t *testing.T, lat, lon float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	return p
}

func TestNewGeoPoint(t *testing.T) {
	t.Run("accepts boundary values", func(t *testing.T) {
		for _, c := range [][2]float64{{90, 180}, {-90, -180}, {0, 0}} {
			p, err := kernel.NewGeoPoint(c[0], c[1])

			require.NoError(t, err)
			assert.Equal(t, c[0], p.Latitude())
			assert.Equal(t, c[1], p.Longitude())
			assert.NoError(t, p.Validate())
		}
	})

	t.Run("rejects out of range coordinates", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(90.0001, 0)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Contains(t, err.Error(), "latitude")

		_, err = kernel.NewGeoPoint(0, -180.5)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Contains(t, err.Error(), "longitude")

		_, err = kernel.NewGeoPoint(math.NaN(), 0)
		assert.Error(t, err)
	})

	t.Run("zero value is invalid", func(t *testing.T) {
		var p kernel.GeoPoint

		assert.ErrorIs(t, p.Validate(), kernel.ErrGeoPointIsNotConstructed)
	})
}

func TestGeoPoint_DistanceTo(t *testing.T) {
	t.Run("one degree of latitude", func(t *testing.T) {
		a := mustPoint(t, 0, 0)
		b := mustPoint(t, 1, 0)

		assert.InDelta(t, 111195, a.DistanceTo(b), 1)
	})

	t.Run("berlin to paris", func(t *testing.T) {
		berlin := mustPoint(t, 52.5200, 13.4050)
		paris := mustPoint(t, 48.8566, 2.3522)

		assert.InDelta(t, 877_500, berlin.DistanceTo(paris), 1_500)
	})

	t.Run("symmetric and non negative", func(t *testing.T) {
		a := mustPoint(t, -33.8688, 151.2093)
		b := mustPoint(t, 40.7128, -74.0060)

		ab := a.DistanceTo(b)
		assert.Greater(t, ab, 0.0)
		assert.InDelta(t, ab, b.DistanceTo(a), 1e-6)
		assert.Equal(t, ab, kernel.Distance(a, b))
	})

	t.Run("zero for identical points", func(t *testing.T) {
		a := mustPoint(t, 52.1, 13.2)

		assert.Equal(t, 0.0, a.DistanceTo(mustPoint(t, 52.1, 13.2)))
	})

	t.Run("antipodal points", func(t *testing.T) {
		a := mustPoint(t, 0, 0)
		b := mustPoint(t, 0, 180)

		assert.InDelta(t, math.Pi*kernel.EarthRadiusMeters, a.DistanceTo(b), 1)
	})
}

func TestGeoPoint_BearingTo(t *testing.T) {
	origin := mustPoint(t, 0, 0)

	assert.InDelta(t, 0, origin.BearingTo(mustPoint(t, 1, 0)), 1e-9)
	assert.InDelta(t, 90, origin.BearingTo(mustPoint(t, 0, 1)), 1e-9)
	assert.InDelta(t, 180, origin.BearingTo(mustPoint(t, -1, 0)), 1e-9)
	assert.InDelta(t, 270, origin.BearingTo(mustPoint(t, 0, -1)), 1e-9)
}

func TestGeoPoint_Geohash(t *testing.T) {
	p := mustPoint(t, 57.64911, 10.40744)

	assert.Equal(t, "u4pru", p.Geohash(5))
	assert.Equal(t, "u4pruydqqvj", p.Geohash(11))
}
