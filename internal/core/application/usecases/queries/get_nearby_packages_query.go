package queries

import (
	"errors"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/pkg/guard"
)

var ErrGetNearbyPackagesQueryIsNotConstructed = errors.New(
	"GetNearbyPackagesQuery must be created via NewGetNearbyPackagesQuery constructor",
)

// NearbyCellPrecision is the geohash length of the search cells. A cell of
// three characters spans 1.40625 degrees both ways (156 km north to south),
// so the cell and its eight neighbours cover the too-far radius around the
// caller up to about 70 degrees of latitude.
const NearbyCellPrecision = 3

// GetNearbyPackagesQuery lists pending packages a mover at location could head for.
type GetNearbyPackagesQuery struct {
	location kernel.GeoPoint
	guard    guard.ConstructorGuard
}

func NewGetNearbyPackagesQuery(location kernel.GeoPoint) (GetNearbyPackagesQuery, error) {
	if err := location.Validate(); err != nil {
		return GetNearbyPackagesQuery{}, err
	}
	return GetNearbyPackagesQuery{location: location, guard: guard.NewConstructorGuard()}, nil
}

func (q GetNearbyPackagesQuery) Validate() error {
	return q.guard.Validate(ErrGetNearbyPackagesQueryIsNotConstructed)
}

func (q GetNearbyPackagesQuery) Location() kernel.GeoPoint {
	return q.location
}

// GetNearbyPackagesQueryResponse is one nearby package; Distance is in meters
// from the caller to the package's current location.
type GetNearbyPackagesQueryResponse struct {
	ID              kernel.UUID
	CurrentLocation kernel.GeoPoint
	Destination     kernel.GeoPoint
	DestinationName *string
	Category        string
	Distance        float64
}
