package feed

import (
	"encoding/json"
	"fmt"
	"time"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/parcel"
	"relay/internal/core/domain/model/transit"
)

const (
	packageDocument  = "package"
	recordDocument   = "transit record"
	movementDocument = "movement"
	changeDocument   = "record change"
)

func decodeGeo(document, field string, g *GeoDocument) (kernel.GeoPoint, error) {
	if g == nil {
		return kernel.GeoPoint{}, missing(document, field)
	}
	p, err := kernel.NewGeoPoint(g.Latitude, g.Longitude)
	if err != nil {
		return kernel.GeoPoint{}, invalid(document, field, err)
	}
	return p, nil
}

func decodeGeoPtr(document, field string, g *GeoDocument) (*kernel.GeoPoint, error) {
	if g == nil {
		return nil, nil //nolint:nilnil // absent optional point
	}
	p, err := decodeGeo(document, field, g)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func decodeID(document, field, s string) (kernel.UUID, error) {
	if s == "" {
		return kernel.UUID{}, missing(document, field)
	}
	id, err := kernel.UUIDFromString(s)
	if err != nil {
		return kernel.UUID{}, invalid(document, field, err)
	}
	return id, nil
}

func decodeIdentity(field string, d *IdentityDocument) (kernel.Identity, error) {
	if d == nil {
		return kernel.Identity{}, missing(packageDocument, field)
	}
	id, err := kernel.NewIdentity(d.DisplayName, deref(d.PhotoURL), deref(d.Email), deref(d.Phone))
	if err != nil {
		return kernel.Identity{}, invalid(packageDocument, field, err)
	}
	return id, nil
}

// DecodePackage rebuilds a package from its document.
func DecodePackage(d PackageDocument) (*parcel.Package, error) {
	id, err := decodeID(packageDocument, "id", d.ID)
	if err != nil {
		return nil, err
	}

	status, err := parcel.ParseStatus(d.Status)
	if err != nil {
		return nil, invalid(packageDocument, "status", err)
	}

	origin, err := decodeGeo(packageDocument, "origin", d.Origin)
	if err != nil {
		return nil, err
	}

	if d.Destination == nil {
		return nil, missing(packageDocument, "destination")
	}
	destination, err := decodeGeo(packageDocument, "destination.geo", d.Destination.Geo)
	if err != nil {
		return nil, err
	}

	current, err := decodeGeo(packageDocument, "current_location", d.CurrentLocation)
	if err != nil {
		return nil, err
	}

	if d.DueDate == nil {
		return nil, missing(packageDocument, "due_date")
	}

	var inTransitBy *kernel.UUID
	if d.InTransitBy != nil {
		mover, moverErr := decodeID(packageDocument, "in_transit_by", *d.InTransitBy)
		if moverErr != nil {
			return nil, moverErr
		}
		inTransitBy = &mover
	}

	sender, err := decodeIdentity("sender", d.Sender)
	if err != nil {
		return nil, err
	}
	recipient, err := decodeIdentity("recipient", d.Recipient)
	if err != nil {
		return nil, err
	}

	followers := make(map[kernel.UUID]time.Time, len(d.Followers))
	for user, at := range d.Followers {
		userID, userErr := decodeID(packageDocument, "followers", user)
		if userErr != nil {
			return nil, userErr
		}
		followers[userID] = at
	}

	pkg, err := parcel.RestorePackage(parcel.Snapshot{
		ID:              id,
		Status:          status,
		Origin:          origin,
		Destination:     destination,
		DestinationName: deref(d.Destination.Name),
		CurrentLocation: current,
		DueDate:         *d.DueDate,
		Category:        d.Category,
		InTransitBy:     inTransitBy,
		Sender:          sender,
		Recipient:       recipient,
		Followers:       followers,
		Version:         d.Version,
	})
	if err != nil {
		return nil, invalid(packageDocument, "snapshot", err)
	}
	return pkg, nil
}

// DecodeRecord rebuilds a record from its document, without movements.
func DecodeRecord(d TransitRecordDocument) (*transit.Record, error) {
	packageID, err := decodeID(recordDocument, "package_id", d.PackageID)
	if err != nil {
		return nil, err
	}
	moverID, err := decodeID(recordDocument, "mover_id", d.MoverID)
	if err != nil {
		return nil, err
	}
	pickup, err := decodeGeoPtr(recordDocument, "pickup_geo_point", d.PickupGeoPoint)
	if err != nil {
		return nil, err
	}
	dropoff, err := decodeGeoPtr(recordDocument, "dropoff_geo_point", d.DropoffGeoPoint)
	if err != nil {
		return nil, err
	}

	r, err := transit.RestoreRecord(packageID, moverID, pickup, d.PickupDate, dropoff, d.DropoffDate, nil)
	if err != nil {
		return nil, invalid(recordDocument, "dropoff_date", err)
	}
	return r, nil
}

// DecodeMovements rebuilds a movements change; the list is sorted ascending.
func DecodeMovements(d MovementsChanged) (transit.MovementsChange, error) {
	packageID, err := decodeID(movementDocument, "package_id", d.PackageID)
	if err != nil {
		return transit.MovementsChange{}, err
	}
	moverID, err := decodeID(movementDocument, "mover_id", d.MoverID)
	if err != nil {
		return transit.MovementsChange{}, err
	}

	movements := make([]transit.Movement, 0, len(d.Movements))
	for i, md := range d.Movements {
		field := fmt.Sprintf("movements[%d]", i)
		if md.Date == nil {
			return transit.MovementsChange{}, missing(movementDocument, field+".date")
		}
		p, geoErr := decodeGeo(movementDocument, field+".geo_point", md.GeoPoint)
		if geoErr != nil {
			return transit.MovementsChange{}, geoErr
		}
		m, mErr := transit.NewMovement(*md.Date, p)
		if mErr != nil {
			return transit.MovementsChange{}, invalid(movementDocument, field, mErr)
		}
		movements = append(movements, m)
	}

	return transit.MovementsChange{
		PackageID: packageID,
		MoverID:   moverID,
		Movements: transit.SortMovements(movements),
	}, nil
}

// DecodeRecordChanges rebuilds a change batch. Removed items may omit the record.
func DecodeRecordChanges(d TransitRecordsChanged) (kernel.UUID, []transit.RecordChange, error) {
	packageID, err := decodeID(changeDocument, "package_id", d.PackageID)
	if err != nil {
		return kernel.UUID{}, nil, err
	}

	changes := make([]transit.RecordChange, 0, len(d.Changes))
	for i, c := range d.Changes {
		field := fmt.Sprintf("changes[%d]", i)
		changeType, typeErr := transit.ParseChangeType(c.Type)
		if typeErr != nil {
			return kernel.UUID{}, nil, invalid(changeDocument, field+".type", typeErr)
		}
		key, keyErr := decodeID(changeDocument, field+".key", c.Key)
		if keyErr != nil {
			return kernel.UUID{}, nil, keyErr
		}

		change := transit.RecordChange{Type: changeType, Key: key}
		if c.Record != nil {
			r, recErr := DecodeRecord(*c.Record)
			if recErr != nil {
				return kernel.UUID{}, nil, recErr
			}
			change.Record = r
		} else if changeType != transit.Removed {
			return kernel.UUID{}, nil, missing(changeDocument, field+".record")
		}
		changes = append(changes, change)
	}

	return packageID, changes, nil
}

// UnmarshalPackageChanged decodes a package.changed body.
func UnmarshalPackageChanged(body []byte) (*parcel.Package, error) {
	var d PackageDocument
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, invalid(packageDocument, "body", err)
	}
	return DecodePackage(d)
}

// UnmarshalTransitRecordsChanged decodes a transit_records.changed body.
func UnmarshalTransitRecordsChanged(body []byte) (kernel.UUID, []transit.RecordChange, error) {
	var d TransitRecordsChanged
	if err := json.Unmarshal(body, &d); err != nil {
		return kernel.UUID{}, nil, invalid(changeDocument, "body", err)
	}
	return DecodeRecordChanges(d)
}

// UnmarshalMovementsChanged decodes a movements.changed body.
func UnmarshalMovementsChanged(body []byte) (transit.MovementsChange, error) {
	var d MovementsChanged
	if err := json.Unmarshal(body, &d); err != nil {
		return transit.MovementsChange{}, invalid(movementDocument, "body", err)
	}
	return DecodeMovements(d)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
