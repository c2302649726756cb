package kernel

import (
	"errors"
	"fmt"
	"math"

	"relay/internal/pkg/errs"
	"relay/internal/pkg/guard"

	"github.com/mmcloughlin/geohash"
)

const (
	// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
	EarthRadiusMeters = 6371000.0

	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// ErrGeoPointIsNotConstructed is returned when a zero GeoPoint is validated.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint")

// GeoPoint is a WGS84 coordinate in decimal degrees.
//
// Example:
//
//	depot, _ := kernel.NewGeoPoint(52.5200, 13.4050)
//	gate, _ := kernel.NewGeoPoint(52.5163, 13.3777)
//	meters := depot.DistanceTo(gate) // ~1,900
type GeoPoint struct { //nolint:recvcheck //using for validation
	lat   float64
	lon   float64
	guard guard.ConstructorGuard
}

// NewGeoPoint validates latitude in [-90, 90] and longitude in [-180, 180].
func NewGeoPoint(lat, lon float64) (GeoPoint, error) {
	p := GeoPoint{guard: guard.NewConstructorGuard()}

	if err := errors.Join(p.setLatitude(lat), p.setLongitude(lon)); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

func (p GeoPoint) Latitude() float64 {
	return p.lat
}

func (p GeoPoint) Longitude() float64 {
	return p.lon
}

func (p GeoPoint) IsEqual(other GeoPoint) bool {
	return p.lat == other.lat && p.lon == other.lon
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.6f,%.6f)", p.lat, p.lon)
}

// DistanceTo returns the great-circle distance in meters. It is symmetric,
// never negative, and zero for equal points.
func (p GeoPoint) DistanceTo(other GeoPoint) float64 {
	if p.IsEqual(other) {
		return 0
	}

	lat1 := toRadians(p.lat)
	lat2 := toRadians(other.lat)
	dLat := lat2 - lat1
	dLon := toRadians(other.lon - p.lon)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// BearingTo returns the initial great-circle bearing towards other, in degrees
// clockwise from true north, normalised to [0, 360).
func (p GeoPoint) BearingTo(other GeoPoint) float64 {
	lat1 := toRadians(p.lat)
	lat2 := toRadians(other.lat)
	dLon := toRadians(other.lon - p.lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	bearing := math.Mod(toDegrees(math.Atan2(y, x))+360, 360)
	if bearing == 360 {
		return 0
	}
	return bearing
}

// Geohash encodes the point with the given number of characters.
func (p GeoPoint) Geohash(precision uint) string {
	return geohash.EncodeWithPrecision(p.lat, p.lon, precision)
}

// Distance is the free-function form of DistanceTo.
func Distance(a, b GeoPoint) float64 {
	return a.DistanceTo(b)
}

func (p *GeoPoint) setLatitude(lat float64) error {
	if math.IsNaN(lat) || lat < MinLatitude || lat > MaxLatitude {
		return errs.NewValueIsOutOfRangeError("latitude", lat, MinLatitude, MaxLatitude)
	}
	p.lat = lat
	return nil
}

func (p *GeoPoint) setLongitude(lon float64) error {
	if math.IsNaN(lon) || lon < MinLongitude || lon > MaxLongitude {
		return errs.NewValueIsOutOfRangeError("longitude", lon, MinLongitude, MaxLongitude)
	}
	p.lon = lon
	return nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
