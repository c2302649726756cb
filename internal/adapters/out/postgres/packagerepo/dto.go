// Package packagerepo maps package aggregates to the packages table.
package packagerepo

import (
	"time"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/parcel"

	"github.com/google/uuid"
)

// GeohashPrecision is the length of the stored geohash; nearby lookups compare prefixes.
const GeohashPrecision = 12

// PackageDTO is one row of the packages table.
type PackageDTO struct {
	ID              uuid.UUID            `gorm:"type:uuid;primaryKey"`
	Status          string               `gorm:"type:varchar(16);index"`
	Origin          PointDTO             `gorm:"embedded;embeddedPrefix:origin_"`
	Destination     PointDTO             `gorm:"embedded;embeddedPrefix:destination_"`
	DestinationName *string              `gorm:"type:varchar(255)"`
	Current         PointDTO             `gorm:"embedded;embeddedPrefix:current_"`
	Geohash         string               `gorm:"type:varchar(12);index"`
	DueDate         time.Time            `gorm:"not null"`
	Category        string               `gorm:"type:varchar(64)"`
	InTransitBy     *uuid.UUID           `gorm:"type:uuid;index"`
	Sender          IdentityDTO          `gorm:"embedded;embeddedPrefix:sender_"`
	Recipient       IdentityDTO          `gorm:"embedded;embeddedPrefix:recipient_"`
	Followers       map[string]time.Time `gorm:"type:jsonb;serializer:json"`
	Version         int64                `gorm:"not null;default:0"`
}

func (PackageDTO) TableName() string {
	return "packages"
}

type PointDTO struct {
	Lat float64
	Lon float64
}

type IdentityDTO struct {
	DisplayName string `gorm:"type:varchar(255)"`
	PhotoURL    *string
	Email       *string
	Phone       *string
}

func fromPoint(p kernel.GeoPoint) PointDTO {
	return PointDTO{Lat: p.Latitude(), Lon: p.Longitude()}
}

func (d PointDTO) toDomain() (kernel.GeoPoint, error) {
	return kernel.NewGeoPoint(d.Lat, d.Lon)
}

func fromIdentity(i kernel.Identity) IdentityDTO {
	return IdentityDTO{
		DisplayName: i.DisplayName(),
		PhotoURL:    i.PhotoURL(),
		Email:       i.Email(),
		Phone:       i.Phone(),
	}
}

func (d IdentityDTO) toDomain() (kernel.Identity, error) {
	return kernel.NewIdentity(d.DisplayName, deref(d.PhotoURL), deref(d.Email), deref(d.Phone))
}

func fromDomain(p *parcel.Package) PackageDTO {
	var inTransitBy *uuid.UUID
	if mover := p.InTransitBy(); mover != nil {
		raw := mover.Bytes()
		inTransitBy = &raw
	}

	followers := make(map[string]time.Time, len(p.Followers()))
	for user, at := range p.Followers() {
		followers[user.String()] = at
	}

	return PackageDTO{
		ID:              p.ID().Bytes(),
		Status:          p.Status().String(),
		Origin:          fromPoint(p.Origin()),
		Destination:     fromPoint(p.Destination()),
		DestinationName: p.DestinationName(),
		Current:         fromPoint(p.CurrentLocation()),
		Geohash:         p.CurrentLocation().Geohash(GeohashPrecision),
		DueDate:         p.DueDate(),
		Category:        p.Category(),
		InTransitBy:     inTransitBy,
		Sender:          fromIdentity(p.Sender()),
		Recipient:       fromIdentity(p.Recipient()),
		Followers:       followers,
		Version:         p.Version(),
	}
}

func toDomain(dto PackageDTO) (*parcel.Package, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := parcel.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	origin, err := dto.Origin.toDomain()
	if err != nil {
		return nil, err
	}
	destination, err := dto.Destination.toDomain()
	if err != nil {
		return nil, err
	}
	current, err := dto.Current.toDomain()
	if err != nil {
		return nil, err
	}

	var inTransitBy *kernel.UUID
	if dto.InTransitBy != nil {
		mover, moverErr := kernel.UUIDFromBytes((*dto.InTransitBy)[:])
		if moverErr != nil {
			return nil, moverErr
		}
		inTransitBy = &mover
	}

	sender, err := dto.Sender.toDomain()
	if err != nil {
		return nil, err
	}
	recipient, err := dto.Recipient.toDomain()
	if err != nil {
		return nil, err
	}

	followers := make(map[kernel.UUID]time.Time, len(dto.Followers))
	for user, at := range dto.Followers {
		userID, userErr := kernel.UUIDFromString(user)
		if userErr != nil {
			return nil, userErr
		}
		followers[userID] = at
	}

	return parcel.RestorePackage(parcel.Snapshot{
		ID:              id,
		Status:          status,
		Origin:          origin,
		Destination:     destination,
		DestinationName: deref(dto.DestinationName),
		CurrentLocation: current,
		DueDate:         dto.DueDate,
		Category:        dto.Category,
		InTransitBy:     inTransitBy,
		Sender:          sender,
		Recipient:       recipient,
		Followers:       followers,
		Version:         dto.Version,
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
