package transit

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/pkg/errs"
)

var (
	ErrRecordIsNotConstructed = errors.New("Record must be created via NewRecord constructor")
	ErrRecordIsClosed         = errors.New("transit record is closed")
	ErrMovementOutOfOrder     = errors.New("movement precedes the last recorded movement")
)

// Record is one mover's custody interval for a package. It is keyed by the
// mover: a package has at most one record per mover.
//
// Lifecycle:
//   - created open by a successful pickup
//   - closed once by a successful dropoff
//   - while open, movements are appended in non-decreasing time order
type Record struct {
	packageID    kernel.UUID
	moverID      kernel.UUID
	pickupPoint  *kernel.GeoPoint
	pickupDate   *time.Time
	dropoffPoint *kernel.GeoPoint
	dropoffDate  *time.Time
	movements    []Movement

	isConstructed bool
}

// NewRecord opens a record at the pickup point.
//
// Example:
//
//	record, err := transit.NewRecord(pkg.ID(), moverID, pkg.CurrentLocation(), now)
func NewRecord(packageID, moverID kernel.UUID, pickupPoint kernel.GeoPoint, pickupDate time.Time) (*Record, error) {
	var dateErr error
	if pickupDate.IsZero() {
		dateErr = errs.NewValueIsRequiredError("pickup date")
	}

	if err := errors.Join(
		packageID.Validate(),
		moverID.Validate(),
		pickupPoint.Validate(),
		dateErr,
	); err != nil {
		return nil, err
	}

	return &Record{
		packageID:     packageID,
		moverID:       moverID,
		pickupPoint:   &pickupPoint,
		pickupDate:    &pickupDate,
		isConstructed: true,
	}, nil
}

// RestoreRecord rebuilds a record from storage or a wire document. Pickup and
// dropoff fields may be absent; movements are stored sorted ascending.
func RestoreRecord(
	packageID, moverID kernel.UUID,
	pickupPoint *kernel.GeoPoint, pickupDate *time.Time,
	dropoffPoint *kernel.GeoPoint, dropoffDate *time.Time,
	movements []Movement,
) (*Record, error) {
	if err := errors.Join(packageID.Validate(), moverID.Validate()); err != nil {
		return nil, err
	}
	if pickupDate != nil && dropoffDate != nil && dropoffDate.Before(*pickupDate) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"dropoff date",
			fmt.Errorf("%s is before pickup %s", dropoffDate.Format(time.RFC3339), pickupDate.Format(time.RFC3339)),
		)
	}

	return &Record{
		packageID:     packageID,
		moverID:       moverID,
		pickupPoint:   pickupPoint,
		pickupDate:    pickupDate,
		dropoffPoint:  dropoffPoint,
		dropoffDate:   dropoffDate,
		movements:     SortMovements(movements),
		isConstructed: true,
	}, nil
}

func (r *Record) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRecordIsNotConstructed
	}
	return nil
}

// Key identifies the record within its package.
func (r *Record) Key() kernel.UUID {
	return r.moverID
}

func (r *Record) PackageID() kernel.UUID {
	return r.packageID
}

func (r *Record) MoverID() kernel.UUID {
	return r.moverID
}

func (r *Record) PickupPoint() *kernel.GeoPoint {
	return r.pickupPoint
}

func (r *Record) PickupDate() *time.Time {
	return r.pickupDate
}

func (r *Record) DropoffPoint() *kernel.GeoPoint {
	return r.dropoffPoint
}

func (r *Record) DropoffDate() *time.Time {
	return r.dropoffDate
}

// Movements returns a copy, oldest first.
func (r *Record) Movements() []Movement {
	return slices.Clone(r.movements)
}

// IsOpen reports whether the mover still holds the package.
func (r *Record) IsOpen() bool {
	return r.dropoffDate == nil
}

// Close records the dropoff.
func (r *Record) Close(point kernel.GeoPoint, at time.Time) error {
	if !r.IsOpen() {
		return ErrRecordIsClosed
	}
	if err := point.Validate(); err != nil {
		return err
	}
	if r.pickupDate != nil && at.Before(*r.pickupDate) {
		return errs.NewValueIsInvalidErrorWithCause("dropoff date", errors.New("dropoff precedes pickup"))
	}
	r.dropoffPoint = &point
	r.dropoffDate = &at
	return nil
}

// AppendMovement adds a sample to an open record. Samples must not go back in time.
func (r *Record) AppendMovement(m Movement) error {
	if !r.IsOpen() {
		return ErrRecordIsClosed
	}
	if n := len(r.movements); n > 0 && m.date.Before(r.movements[n-1].date) {
		return ErrMovementOutOfOrder
	}
	r.movements = append(r.movements, m)
	return nil
}

// LastMovement returns the newest sample, or false when there is none yet.
func (r *Record) LastMovement() (Movement, bool) {
	if len(r.movements) == 0 {
		return Movement{}, false
	}
	return r.movements[len(r.movements)-1], true
}

// WithMovements returns a copy of the record whose movements are replaced by
// the given list sorted ascending. The receiver is not modified.
func (r *Record) WithMovements(movements []Movement) *Record {
	c := *r
	c.movements = SortMovements(movements)
	return &c
}
