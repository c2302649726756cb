package services_test

import (
	"testing"
	"time"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/parcel"
	"relay/internal/core/domain/model/transit"

	"github.com/stretchr/testify/require"
)

// metersPerDegree is the length of one degree of latitude on the haversine sphere.
const metersPerDegree = kernel.EarthRadiusMeters * 3.141592653589793 / 180

var clock = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func point(t *testing.T, lat, lon float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	return p
}

// north returns the point meters due north of p.
func north(t *testing.T, p kernel.GeoPoint, meters float64) kernel.GeoPoint {
	t.Helper()
	return point(t, p.Latitude()+meters/metersPerDegree, p.Longitude())
}

// pendingPackage is located at P with its destination 5 km north.
func pendingPackage(t *testing.T) *parcel.Package {
	t.Helper()
	origin := point(t, 52.5200, 13.4050)
	sender, err := kernel.NewIdentity("Alice", "", "alice@example.com", "")
	require.NoError(t, err)
	recipient, err := kernel.NewIdentity("Bob", "", "", "")
	require.NoError(t, err)

	pkg, err := parcel.NewPackage(kernel.NewUUID(), origin, north(t, origin, 5000), "Office",
		clock.Add(48*time.Hour), "books", sender, recipient)
	require.NoError(t, err)
	return pkg
}

func record(t *testing.T, packageID, mover kernel.UUID, closed bool) *transit.Record {
	t.Helper()
	p := point(t, 52.5200, 13.4050)
	r, err := transit.NewRecord(packageID, mover, p, clock)
	require.NoError(t, err)
	if closed {
		require.NoError(t, r.Close(north(t, p, 1000), clock.Add(time.Hour)))
	}
	return r
}
