package parcel

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/pkg/errs"
)

const (
	// ActionableDistance is the proximity, in meters, within which a pickup or a
	// delivery becomes available.
	ActionableDistance = 100.0

	// TooFarDistance is the distance, in meters, from which a pickup is no longer
	// shown as nearby.
	TooFarDistance = 50000.0
)

var (
	// ErrPackageIsNotConstructed is returned when a Package was not built by
	// NewPackage or RestorePackage.
	ErrPackageIsNotConstructed = errors.New("Package must be created via NewPackage constructor")

	// ErrNotHeldByMover is returned when a mover acts on a package it does not hold.
	ErrNotHeldByMover = errors.New("package is not held by this mover")
)

// Package is the aggregate root of a relay. It is created pending at its origin
// and changes only through PickUp, DropOff, MoveTo and Follow.
//
// Package follows these invariants:
//   - inTransitBy is non-nil if and only if status is Transit
//   - currentLocation equals origin until the first movement or dropoff
//   - Delivered is final
type Package struct {
	id              kernel.UUID
	status          Status
	origin          kernel.GeoPoint
	destination     kernel.GeoPoint
	destinationName *string
	currentLocation kernel.GeoPoint
	dueDate         time.Time
	category        string
	inTransitBy     *kernel.UUID
	sender          kernel.Identity
	recipient       kernel.Identity
	followers       map[kernel.UUID]time.Time

	// version is the optimistic concurrency token read from the store.
	version int64

	isConstructed bool
}

// NewPackage creates a pending package located at its origin.
//
// Parameters:
//   - id: unique identifier
//   - origin: where the sender hands the package over; also the initial current location
//   - destination: where the recipient expects it
//   - destinationName: optional human name of the destination, empty when absent
//   - dueDate: commitment deadline
//   - category: presentation tag
//   - sender, recipient: identity records
//
// Returns:
//   - *Package: the package with status Pending and no mover
//   - error: every validation failure joined
//
// Example:
//
//	pkg, err := parcel.NewPackage(kernel.NewUUID(), home, office, "Office", due, "books", alice, bob)
func NewPackage(
	id kernel.UUID,
	origin, destination kernel.GeoPoint,
	destinationName string,
	dueDate time.Time,
	category string,
	sender, recipient kernel.Identity,
) (*Package, error) {
	p := &Package{
		status:        Pending,
		followers:     make(map[kernel.UUID]time.Time),
		isConstructed: true,
	}

	if err := errors.Join(
		p.setID(id),
		p.setOrigin(origin),
		p.setDestination(destination, destinationName),
		p.setDueDate(dueDate),
		p.setCategory(category),
		p.setSender(sender),
		p.setRecipient(recipient),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// Snapshot carries persisted state into RestorePackage.
type Snapshot struct {
	ID              kernel.UUID
	Status          Status
	Origin          kernel.GeoPoint
	Destination     kernel.GeoPoint
	DestinationName string
	CurrentLocation kernel.GeoPoint
	DueDate         time.Time
	Category        string
	InTransitBy     *kernel.UUID
	Sender          kernel.Identity
	Recipient       kernel.Identity
	Followers       map[kernel.UUID]time.Time
	Version         int64
}

// RestorePackage rebuilds a package from storage or a wire document, checking
// the same invariants NewPackage does plus status/mover consistency.
func RestorePackage(s Snapshot) (*Package, error) {
	p := &Package{
		followers:     make(map[kernel.UUID]time.Time, len(s.Followers)),
		version:       s.Version,
		isConstructed: true,
	}

	if err := errors.Join(
		p.setID(s.ID),
		p.setOrigin(s.Origin),
		p.setDestination(s.Destination, s.DestinationName),
		p.setDueDate(s.DueDate),
		p.setCategory(s.Category),
		p.setSender(s.Sender),
		p.setRecipient(s.Recipient),
		p.setCurrentLocation(s.CurrentLocation),
		p.setStatus(s.Status, s.InTransitBy),
	); err != nil {
		return nil, err
	}

	maps.Copy(p.followers, s.Followers)

	return p, nil
}

func (p *Package) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPackageIsNotConstructed
	}
	return nil
}

func (p *Package) IsEqual(other *Package) bool {
	return other != nil && p.id.IsEqual(other.id)
}

func (p *Package) ID() kernel.UUID {
	return p.id
}

func (p *Package) Status() Status {
	return p.status
}

func (p *Package) Origin() kernel.GeoPoint {
	return p.origin
}

func (p *Package) Destination() kernel.GeoPoint {
	return p.destination
}

// DestinationName returns nil when the destination is unnamed.
func (p *Package) DestinationName() *string {
	return p.destinationName
}

func (p *Package) CurrentLocation() kernel.GeoPoint {
	return p.currentLocation
}

func (p *Package) DueDate() time.Time {
	return p.dueDate
}

func (p *Package) Category() string {
	return p.category
}

// InTransitBy returns the holding mover, or nil unless the package is in transit.
func (p *Package) InTransitBy() *kernel.UUID {
	return p.inTransitBy
}

func (p *Package) Sender() kernel.Identity {
	return p.sender
}

func (p *Package) Recipient() kernel.Identity {
	return p.recipient
}

// Followers returns a copy of the follower map (user to follow time).
func (p *Package) Followers() map[kernel.UUID]time.Time {
	return maps.Clone(p.followers)
}

func (p *Package) Version() int64 {
	return p.version
}

// SetVersion records the version the store assigned on the last write.
func (p *Package) SetVersion(version int64) {
	p.version = version
}

// IsHeldBy reports whether mover currently holds the package.
func (p *Package) IsHeldBy(mover kernel.UUID) bool {
	return p.inTransitBy != nil && p.inTransitBy.IsEqual(mover)
}

// IsWithinDeliveryReach reports whether point is strictly closer than
// ActionableDistance to the destination.
func (p *Package) IsWithinDeliveryReach(point kernel.GeoPoint) bool {
	return point.DistanceTo(p.destination) < ActionableDistance
}

// Follow subscribes user to package updates. Following twice keeps the first time.
func (p *Package) Follow(user kernel.UUID, at time.Time) error {
	if err := user.Validate(); err != nil {
		return err
	}
	if _, ok := p.followers[user]; !ok {
		p.followers[user] = at
	}
	return nil
}

// PickUp hands the pending package to mover. The mover becomes a follower.
//
// Returns:
//   - nil on success; status is Transit and InTransitBy is mover
//   - error if mover is invalid or the package is not pending
func (p *Package) PickUp(mover kernel.UUID, at time.Time) error {
	if err := mover.Validate(); err != nil {
		return err
	}

	newStatus, err := p.status.PickUp()
	if err != nil {
		return err
	}

	p.status = newStatus
	p.inTransitBy = &mover
	return p.Follow(mover, at)
}

// DropOff releases the package at point. The current location moves to point;
// the package is delivered when point is within delivery reach, otherwise it
// becomes pending again for the next mover.
//
// Returns:
//   - delivered: whether the package reached its destination
//   - error: ErrNotHeldByMover or a status transition error
func (p *Package) DropOff(mover kernel.UUID, point kernel.GeoPoint) (bool, error) {
	if !p.IsHeldBy(mover) {
		return false, ErrNotHeldByMover
	}
	if err := point.Validate(); err != nil {
		return false, err
	}

	delivered := p.IsWithinDeliveryReach(point)
	newStatus, err := p.status.DropOff(delivered)
	if err != nil {
		return false, err
	}

	p.status = newStatus
	p.inTransitBy = nil
	p.currentLocation = point
	return delivered, nil
}

// MoveTo follows the holding mover's latest movement.
func (p *Package) MoveTo(mover kernel.UUID, point kernel.GeoPoint) error {
	if !p.IsHeldBy(mover) {
		return ErrNotHeldByMover
	}
	if err := point.Validate(); err != nil {
		return err
	}
	p.currentLocation = point
	return nil
}

func (p *Package) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

// setOrigin also places the package at its origin.
func (p *Package) setOrigin(origin kernel.GeoPoint) error {
	if err := origin.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("origin is invalid", err)
	}
	p.origin = origin
	p.currentLocation = origin
	return nil
}

func (p *Package) setDestination(destination kernel.GeoPoint, name string) error {
	if err := destination.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("destination is invalid", err)
	}
	p.destination = destination
	if name = strings.TrimSpace(name); name != "" {
		p.destinationName = &name
	}
	return nil
}

func (p *Package) setCurrentLocation(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("current location is invalid", err)
	}
	p.currentLocation = point
	return nil
}

func (p *Package) setDueDate(dueDate time.Time) error {
	if dueDate.IsZero() {
		return errs.NewValueIsRequiredError("due date")
	}
	p.dueDate = dueDate
	return nil
}

func (p *Package) setCategory(category string) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return errs.NewValueIsRequiredError("category")
	}
	p.category = category
	return nil
}

func (p *Package) setSender(sender kernel.Identity) error {
	if err := sender.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("sender is invalid", err)
	}
	p.sender = sender
	return nil
}

func (p *Package) setRecipient(recipient kernel.Identity) error {
	if err := recipient.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("recipient is invalid", err)
	}
	p.recipient = recipient
	return nil
}

func (p *Package) setStatus(status Status, mover *kernel.UUID) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if err := status.ValidateCanHaveMover(mover != nil); err != nil {
		return err
	}
	if mover != nil {
		if err := mover.Validate(); err != nil {
			return fmt.Errorf("in transit by: %w", err)
		}
		m := *mover
		p.inTransitBy = &m
	}
	p.status = status
	return nil
}
