package feed

import "time"

type GeoDocument struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type DestinationDocument struct {
	Geo  *GeoDocument `json:"geo"`
	Name *string      `json:"name,omitempty"`
}

type IdentityDocument struct {
	DisplayName string  `json:"display_name"`
	PhotoURL    *string `json:"photo_url,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
}

// PackageDocument is packages/{id}.
type PackageDocument struct {
	ID              string               `json:"id"`
	Status          string               `json:"status"`
	Origin          *GeoDocument         `json:"origin"`
	Destination     *DestinationDocument `json:"destination"`
	CurrentLocation *GeoDocument         `json:"current_location"`
	DueDate         *time.Time           `json:"due_date"`
	Category        string               `json:"category"`
	InTransitBy     *string              `json:"in_transit_by"`
	Followers       map[string]time.Time `json:"followers"`
	Sender          *IdentityDocument    `json:"sender"`
	Recipient       *IdentityDocument    `json:"recipient"`
	Version         int64                `json:"version"`
}

// TransitRecordDocument is packages/{id}/transit_records/{moverId}.
type TransitRecordDocument struct {
	PackageID       string       `json:"package_id"`
	MoverID         string       `json:"mover_id"`
	PickupGeoPoint  *GeoDocument `json:"pickup_geo_point,omitempty"`
	PickupDate      *time.Time   `json:"pickup_date,omitempty"`
	DropoffGeoPoint *GeoDocument `json:"dropoff_geo_point,omitempty"`
	DropoffDate     *time.Time   `json:"dropoff_date,omitempty"`
}

// MovementDocument is one packages/{id}/transit_records/{moverId}/movements entry.
type MovementDocument struct {
	Date     *time.Time   `json:"date"`
	GeoPoint *GeoDocument `json:"geo_point"`
}

// RecordChangeDocument is one item of a transit record change batch.
type RecordChangeDocument struct {
	Type   string                 `json:"type"`
	Key    string                 `json:"key"`
	Record *TransitRecordDocument `json:"record,omitempty"`
}

// TransitRecordsChanged is the body of a transit_records.changed message.
type TransitRecordsChanged struct {
	PackageID string                 `json:"package_id"`
	Changes   []RecordChangeDocument `json:"changes"`
}

// MovementsChanged is the body of a movements.changed message.
type MovementsChanged struct {
	PackageID string             `json:"package_id"`
	MoverID   string             `json:"mover_id"`
	Movements []MovementDocument `json:"movements"`
}
