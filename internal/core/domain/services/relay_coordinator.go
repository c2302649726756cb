package services

import (
	"errors"
	"fmt"
	"time"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/parcel"
	"relay/internal/core/domain/model/transit"
)

var (
	// ErrRecordAlreadyOpen is returned when a pickup would open a second record.
	ErrRecordAlreadyOpen = errors.New("another transit record is already open for this package")

	// ErrOpenRecordNotFound is returned when the holder has no open record.
	ErrOpenRecordNotFound = errors.New("open transit record not found")

	// ErrNotEligible is returned when the decision table does not allow the action.
	ErrNotEligible = errors.New("action is not available")

	// ErrPickupRaceLost is returned when another pickup committed first.
	ErrPickupRaceLost = errors.New("package was picked up by another mover")
)

// DropoffOutcome is what a successful dropoff produced.
type DropoffOutcome struct {
	Record        *transit.Record
	Delivered     bool
	DistanceMoved float64
}

// RelayCoordinator runs the pickup, dropoff and movement workflows over a
// package and its transit records. It validates every precondition before
// mutating anything it was given.
type RelayCoordinator struct{}

func NewRelayCoordinator() RelayCoordinator {
	return RelayCoordinator{}
}

// PickUp hands pkg to mover standing at location.
//
// Parameters:
//   - pkg: the package, pending
//   - records: every transit record of pkg
//   - mover: the requesting user
//   - location: the mover's latest fix
//   - now: pickup time
//
// Returns:
//   - *transit.Record: the new open record, with the pickup point at the package's current location
//   - error: ErrRecordAlreadyOpen, ErrNotEligible (wrapping the eligibility), or a domain error
func (RelayCoordinator) PickUp(
	pkg *parcel.Package,
	records []*transit.Record,
	mover kernel.UUID,
	location kernel.GeoPoint,
	now time.Time,
) (*transit.Record, error) {
	if err := errors.Join(pkg.Validate(), mover.Validate(), location.Validate()); err != nil {
		return nil, err
	}

	if open, ok := FindOpenRecord(records); ok {
		return nil, fmt.Errorf("%w: held by %s", ErrRecordAlreadyOpen, open.Key())
	}

	if eligibility := EligibilityFor(pkg, records, mover, &location); eligibility.Kind != PickupAvailable {
		return nil, fmt.Errorf("%w: %s", ErrNotEligible, eligibility)
	}

	record, err := transit.NewRecord(pkg.ID(), mover, pkg.CurrentLocation(), now)
	if err != nil {
		return nil, err
	}

	if err = pkg.PickUp(mover, now); err != nil {
		return nil, err
	}

	return record, nil
}

// DropOff releases pkg at location and closes the mover's open record.
//
// Returns:
//   - DropoffOutcome: the closed record, whether the package was delivered and the signed distance moved
//   - error: parcel.ErrNotHeldByMover, ErrOpenRecordNotFound, or a domain error
func (RelayCoordinator) DropOff(
	pkg *parcel.Package,
	records []*transit.Record,
	mover kernel.UUID,
	location kernel.GeoPoint,
	now time.Time,
) (DropoffOutcome, error) {
	if err := errors.Join(pkg.Validate(), location.Validate()); err != nil {
		return DropoffOutcome{}, err
	}

	if !pkg.IsHeldBy(mover) {
		return DropoffOutcome{}, parcel.ErrNotHeldByMover
	}

	record, ok := FindOpenRecord(records)
	if !ok || !record.Key().IsEqual(mover) {
		return DropoffOutcome{}, ErrOpenRecordNotFound
	}

	if err := record.Close(location, now); err != nil {
		return DropoffOutcome{}, err
	}

	delivered, err := pkg.DropOff(mover, location)
	if err != nil {
		return DropoffOutcome{}, err
	}

	moved, err := DistanceMoved(pkg.Destination(), record)
	if err != nil {
		return DropoffOutcome{}, err
	}

	return DropoffOutcome{Record: record, Delivered: delivered, DistanceMoved: moved}, nil
}

// Move appends a movement to the holder's open record and moves the package with it.
func (RelayCoordinator) Move(pkg *parcel.Package, record *transit.Record, movement transit.Movement) error {
	if err := errors.Join(pkg.Validate(), record.Validate()); err != nil {
		return err
	}
	if !record.PackageID().IsEqual(pkg.ID()) || !pkg.IsHeldBy(record.Key()) {
		return parcel.ErrNotHeldByMover
	}

	if err := record.AppendMovement(movement); err != nil {
		return err
	}

	return pkg.MoveTo(record.Key(), movement.Point())
}
