package feed

import (
	"encoding/json"
	"time"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/parcel"
	"relay/internal/core/domain/model/transit"
)

func encodeGeo(p kernel.GeoPoint) *GeoDocument {
	return &GeoDocument{Latitude: p.Latitude(), Longitude: p.Longitude()}
}

func encodeGeoPtr(p *kernel.GeoPoint) *GeoDocument {
	if p == nil {
		return nil
	}
	return encodeGeo(*p)
}

func encodeIdentity(i kernel.Identity) *IdentityDocument {
	return &IdentityDocument{
		DisplayName: i.DisplayName(),
		PhotoURL:    i.PhotoURL(),
		Email:       i.Email(),
		Phone:       i.Phone(),
	}
}

// EncodePackage builds the package document.
func EncodePackage(p *parcel.Package) PackageDocument {
	followers := make(map[string]time.Time, len(p.Followers()))
	for user, at := range p.Followers() {
		followers[user.String()] = at
	}

	var inTransitBy *string
	if mover := p.InTransitBy(); mover != nil {
		s := mover.String()
		inTransitBy = &s
	}

	due := p.DueDate()
	return PackageDocument{
		ID:              p.ID().String(),
		Status:          p.Status().String(),
		Origin:          encodeGeo(p.Origin()),
		Destination:     &DestinationDocument{Geo: encodeGeo(p.Destination()), Name: p.DestinationName()},
		CurrentLocation: encodeGeo(p.CurrentLocation()),
		DueDate:         &due,
		Category:        p.Category(),
		InTransitBy:     inTransitBy,
		Followers:       followers,
		Sender:          encodeIdentity(p.Sender()),
		Recipient:       encodeIdentity(p.Recipient()),
		Version:         p.Version(),
	}
}

// EncodeRecord builds the transit record document without its movements.
func EncodeRecord(r *transit.Record) TransitRecordDocument {
	return TransitRecordDocument{
		PackageID:       r.PackageID().String(),
		MoverID:         r.MoverID().String(),
		PickupGeoPoint:  encodeGeoPtr(r.PickupPoint()),
		PickupDate:      r.PickupDate(),
		DropoffGeoPoint: encodeGeoPtr(r.DropoffPoint()),
		DropoffDate:     r.DropoffDate(),
	}
}

// EncodeMovements builds the movement list of a record, oldest first.
func EncodeMovements(r *transit.Record) MovementsChanged {
	movements := make([]MovementDocument, 0, len(r.Movements()))
	for _, m := range r.Movements() {
		date := m.Date()
		movements = append(movements, MovementDocument{Date: &date, GeoPoint: encodeGeo(m.Point())})
	}
	return MovementsChanged{
		PackageID: r.PackageID().String(),
		MoverID:   r.MoverID().String(),
		Movements: movements,
	}
}

// MarshalPackageChanged is the body of a package.changed message.
func MarshalPackageChanged(p *parcel.Package) ([]byte, error) {
	return json.Marshal(EncodePackage(p))
}

// MarshalTransitRecordsChanged is the body of a transit_records.changed
// message carrying changes of a single package.
func MarshalTransitRecordsChanged(packageID kernel.UUID, changes []transit.RecordChange) ([]byte, error) {
	body := TransitRecordsChanged{
		PackageID: packageID.String(),
		Changes:   make([]RecordChangeDocument, 0, len(changes)),
	}
	for _, c := range changes {
		doc := RecordChangeDocument{Type: c.Type.String(), Key: c.Key.String()}
		if c.Record != nil {
			rec := EncodeRecord(c.Record)
			doc.Record = &rec
		}
		body.Changes = append(body.Changes, doc)
	}
	return json.Marshal(body)
}

// MarshalMovementsChanged is the body of a movements.changed message.
func MarshalMovementsChanged(r *transit.Record) ([]byte, error) {
	return json.Marshal(EncodeMovements(r))
}
