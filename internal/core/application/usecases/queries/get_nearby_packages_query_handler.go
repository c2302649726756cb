package queries

import (
	"context"
	"slices"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/parcel"

	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"
	"gorm.io/gorm"
)

// GetNearbyPackagesQueryHandler finds pending packages through the geohash
// column of the packages table, then filters and sorts by exact distance.
type GetNearbyPackagesQueryHandler struct {
	db *gorm.DB
}

func NewGetNearbyPackagesQueryHandler(db *gorm.DB) GetNearbyPackagesQueryHandler {
	return GetNearbyPackagesQueryHandler{db: db}
}

// Handle returns packages strictly closer than parcel.TooFarDistance, nearest first.
func (h GetNearbyPackagesQueryHandler) Handle(
	ctx context.Context,
	query GetNearbyPackagesQuery,
) ([]GetNearbyPackagesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	cell := query.Location().Geohash(NearbyCellPrecision)
	cells := append(geohash.Neighbors(cell), cell)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			current_lat,
			current_lon,
			destination_lat,
			destination_lon,
			destination_name,
			category
		FROM packages
		WHERE status = ? AND LEFT(geohash, ?) IN ?
	`, parcel.Pending.String(), NearbyCellPrecision, cells).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	packages := make([]GetNearbyPackagesQueryResponse, 0)
	for rows.Next() {
		var (
			id                     uuid.UUID
			currentLat, currentLon float64
			destLat, destLon       float64
			destinationName        *string
			category               string
		)

		if err = rows.Scan(&id, &currentLat, &currentLon, &destLat, &destLon, &destinationName, &category); err != nil {
			return nil, err
		}

		packageID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		current, pointErr := kernel.NewGeoPoint(currentLat, currentLon)
		if pointErr != nil {
			return nil, pointErr
		}
		destination, pointErr := kernel.NewGeoPoint(destLat, destLon)
		if pointErr != nil {
			return nil, pointErr
		}

		distance := query.Location().DistanceTo(current)
		if distance >= parcel.TooFarDistance {
			continue
		}

		packages = append(packages, GetNearbyPackagesQueryResponse{
			ID:              packageID,
			CurrentLocation: current,
			Destination:     destination,
			DestinationName: destinationName,
			Category:        category,
			Distance:        distance,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	slices.SortFunc(packages, func(a, b GetNearbyPackagesQueryResponse) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		default:
			return 0
		}
	})

	return packages, nil
}
