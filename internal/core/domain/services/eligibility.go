package services

import (
	"fmt"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/parcel"
	"relay/internal/core/domain/model/transit"
)

// EligibilityKind enumerates what a user may do with a package.
type EligibilityKind int

const (
	// Indeterminate means the package snapshot is not loaded.
	Indeterminate EligibilityKind = iota
	PickupAvailable
	PickupTooFar
	PickupUnavailableNoLocation
	Deliver
	DropoffAway
	InTransitByOther
	AlreadyMoved
	Delivered
)

func (k EligibilityKind) String() string {
	switch k {
	case PickupAvailable:
		return "pickupAvailable"
	case PickupTooFar:
		return "pickupTooFar"
	case PickupUnavailableNoLocation:
		return "pickupUnavailableNoLocation"
	case Deliver:
		return "deliver"
	case DropoffAway:
		return "dropoffAway"
	case InTransitByOther:
		return "inTransitByOther"
	case AlreadyMoved:
		return "alreadyMoved"
	case Delivered:
		return "delivered"
	default:
		return "indeterminate"
	}
}

// ActionEligibility is the presentation-agnostic answer of the decision table.
// Distance is set, in meters, only for PickupTooFar and DropoffAway.
type ActionEligibility struct {
	Kind     EligibilityKind
	Distance float64
}

func (e ActionEligibility) String() string {
	if e.HasDistance() {
		return fmt.Sprintf("%s(%.0f)", e.Kind, e.Distance)
	}
	return e.Kind.String()
}

// HasDistance reports whether Distance carries a value.
func (e ActionEligibility) HasDistance() bool {
	return e.Kind == PickupTooFar || e.Kind == DropoffAway
}

// EligibilityInput is everything the decision table reads. A Status of
// parcel.Unknown stands for a snapshot that has not been loaded.
type EligibilityInput struct {
	Status          parcel.Status
	HeldBySelf      bool
	AlreadyMoved    bool
	Location        *kernel.GeoPoint
	CurrentLocation kernel.GeoPoint
	Destination     kernel.GeoPoint
}

// EvaluateEligibility applies the decision table top to bottom; the first
// matching rule wins. It is pure and cheap, so callers re-run it on every
// input change instead of caching the result.
//
// Rules:
//  1. holder: no location → PickupUnavailableNoLocation; within ActionableDistance
//     of the destination → Deliver; otherwise DropoffAway(distance to destination)
//  2. transit held by someone else → InTransitByOther
//  3. delivered → Delivered
//  4. pending: already carried by this user → AlreadyMoved; no location →
//     PickupUnavailableNoLocation; d < ActionableDistance → PickupAvailable;
//     d >= TooFarDistance → PickupTooFar(d); otherwise DropoffAway(d)
//  5. anything else → Indeterminate
func EvaluateEligibility(in EligibilityInput) ActionEligibility {
	switch {
	case in.HeldBySelf:
		if in.Location == nil {
			return ActionEligibility{Kind: PickupUnavailableNoLocation}
		}
		d := in.Location.DistanceTo(in.Destination)
		if d < parcel.ActionableDistance {
			return ActionEligibility{Kind: Deliver}
		}
		return ActionEligibility{Kind: DropoffAway, Distance: d}

	case in.Status == parcel.Transit:
		return ActionEligibility{Kind: InTransitByOther}

	case in.Status == parcel.Delivered:
		return ActionEligibility{Kind: Delivered}

	case in.Status == parcel.Pending:
		if in.AlreadyMoved {
			return ActionEligibility{Kind: AlreadyMoved}
		}
		if in.Location == nil {
			return ActionEligibility{Kind: PickupUnavailableNoLocation}
		}
		d := in.Location.DistanceTo(in.CurrentLocation)
		switch {
		case d < parcel.ActionableDistance:
			return ActionEligibility{Kind: PickupAvailable}
		case d >= parcel.TooFarDistance:
			return ActionEligibility{Kind: PickupTooFar, Distance: d}
		default:
			return ActionEligibility{Kind: DropoffAway, Distance: d}
		}

	default:
		return ActionEligibility{Kind: Indeterminate}
	}
}

// EligibilityFor builds the decision-table input for user from a package
// snapshot and its synchronized records. A nil package yields Indeterminate.
func EligibilityFor(
	pkg *parcel.Package,
	records []*transit.Record,
	user kernel.UUID,
	location *kernel.GeoPoint,
) ActionEligibility {
	if pkg.Validate() != nil {
		return ActionEligibility{Kind: Indeterminate}
	}

	return EvaluateEligibility(EligibilityInput{
		Status:          pkg.Status(),
		HeldBySelf:      pkg.IsHeldBy(user),
		AlreadyMoved:    HasClosedRecord(records, user),
		Location:        location,
		CurrentLocation: pkg.CurrentLocation(),
		Destination:     pkg.Destination(),
	})
}

// HasClosedRecord reports whether user appears as the key of a closed record.
func HasClosedRecord(records []*transit.Record, user kernel.UUID) bool {
	for _, r := range records {
		if !r.IsOpen() && r.Key().IsEqual(user) {
			return true
		}
	}
	return false
}

// FindOpenRecord returns the open record, if any.
func FindOpenRecord(records []*transit.Record) (*transit.Record, bool) {
	for _, r := range records {
		if r.IsOpen() {
			return r, true
		}
	}
	return nil, false
}
