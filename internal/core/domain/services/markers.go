package services

import (
	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/parcel"
	"relay/internal/core/domain/model/transit"
)

// MarkerKind tags a map marker.
type MarkerKind int

const (
	MarkerOrigin MarkerKind = iota + 1
	MarkerDestination
	MarkerCurrent
	MarkerPickup
	MarkerDropoff
)

func (k MarkerKind) String() string {
	switch k {
	case MarkerOrigin:
		return "origin"
	case MarkerDestination:
		return "destination"
	case MarkerCurrent:
		return "current"
	case MarkerPickup:
		return "pickup"
	case MarkerDropoff:
		return "dropoff"
	default:
		return "unknown"
	}
}

// Marker is one point the rendering layer draws.
type Marker struct {
	Kind  MarkerKind
	Point kernel.GeoPoint
	Label string
}

// Markers lists origin, destination and current location, followed by the
// pickup and dropoff points of every record in the given order. Absent points
// are skipped.
func Markers(pkg *parcel.Package, records []*transit.Record) []Marker {
	if pkg.Validate() != nil {
		return nil
	}

	destinationLabel := pkg.Recipient().DisplayName()
	if name := pkg.DestinationName(); name != nil {
		destinationLabel = *name
	}

	markers := []Marker{
		{Kind: MarkerOrigin, Point: pkg.Origin(), Label: pkg.Sender().DisplayName()},
		{Kind: MarkerDestination, Point: pkg.Destination(), Label: destinationLabel},
		{Kind: MarkerCurrent, Point: pkg.CurrentLocation(), Label: pkg.Status().String()},
	}

	for _, r := range records {
		if p := r.PickupPoint(); p != nil {
			markers = append(markers, Marker{Kind: MarkerPickup, Point: *p, Label: r.Key().String()})
		}
		if p := r.DropoffPoint(); p != nil {
			markers = append(markers, Marker{Kind: MarkerDropoff, Point: *p, Label: r.Key().String()})
		}
	}

	return markers
}
