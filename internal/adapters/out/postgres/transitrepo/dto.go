// Package transitrepo stores transit records in the transit_records table and
// their movements in the movements child table.
package transitrepo

import (
	"time"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/transit"

	"github.com/google/uuid"
)

// TransitRecordDTO is one row of transit_records, keyed by package and mover.
type TransitRecordDTO struct {
	PackageID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	MoverID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	PickupLat   *float64
	PickupLon   *float64
	PickupDate  *time.Time `gorm:"index"`
	DropoffLat  *float64
	DropoffLon  *float64
	DropoffDate *time.Time
	Movements   []MovementDTO `gorm:"foreignKey:PackageID,MoverID;references:PackageID,MoverID;constraint:OnDelete:CASCADE"`
}

func (TransitRecordDTO) TableName() string {
	return "transit_records"
}

// MovementDTO is one row of movements. Seq is the position in the record's
// ascending movement list.
type MovementDTO struct {
	PackageID uuid.UUID `gorm:"type:uuid;primaryKey"`
	MoverID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq       int       `gorm:"primaryKey;autoIncrement:false"`
	Date      time.Time `gorm:"not null"`
	Lat       float64
	Lon       float64
}

func (MovementDTO) TableName() string {
	return "movements"
}

func splitPoint(p *kernel.GeoPoint) (*float64, *float64) {
	if p == nil {
		return nil, nil
	}
	lat, lon := p.Latitude(), p.Longitude()
	return &lat, &lon
}

func joinPoint(lat, lon *float64) (*kernel.GeoPoint, error) {
	if lat == nil || lon == nil {
		return nil, nil //nolint:nilnil // absent point
	}
	p, err := kernel.NewGeoPoint(*lat, *lon)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func fromDomain(r *transit.Record) TransitRecordDTO {
	packageID := r.PackageID().Bytes()
	moverID := r.MoverID().Bytes()

	movements := make([]MovementDTO, 0, len(r.Movements()))
	for i, m := range r.Movements() {
		movements = append(movements, MovementDTO{
			PackageID: packageID,
			MoverID:   moverID,
			Seq:       i,
			Date:      m.Date(),
			Lat:       m.Point().Latitude(),
			Lon:       m.Point().Longitude(),
		})
	}

	pickupLat, pickupLon := splitPoint(r.PickupPoint())
	dropoffLat, dropoffLon := splitPoint(r.DropoffPoint())

	return TransitRecordDTO{
		PackageID:   packageID,
		MoverID:     moverID,
		PickupLat:   pickupLat,
		PickupLon:   pickupLon,
		PickupDate:  r.PickupDate(),
		DropoffLat:  dropoffLat,
		DropoffLon:  dropoffLon,
		DropoffDate: r.DropoffDate(),
		Movements:   movements,
	}
}

func toDomain(dto TransitRecordDTO) (*transit.Record, error) {
	packageID, err := kernel.UUIDFromBytes(dto.PackageID[:])
	if err != nil {
		return nil, err
	}
	moverID, err := kernel.UUIDFromBytes(dto.MoverID[:])
	if err != nil {
		return nil, err
	}

	pickup, err := joinPoint(dto.PickupLat, dto.PickupLon)
	if err != nil {
		return nil, err
	}
	dropoff, err := joinPoint(dto.DropoffLat, dto.DropoffLon)
	if err != nil {
		return nil, err
	}

	movements := make([]transit.Movement, 0, len(dto.Movements))
	for _, m := range dto.Movements {
		p, pointErr := kernel.NewGeoPoint(m.Lat, m.Lon)
		if pointErr != nil {
			return nil, pointErr
		}
		movement, movementErr := transit.NewMovement(m.Date, p)
		if movementErr != nil {
			return nil, movementErr
		}
		movements = append(movements, movement)
	}

	return transit.RestoreRecord(packageID, moverID, pickup, dto.PickupDate, dropoff, dto.DropoffDate, movements)
}
