package commands

import (
	"errors"
	"time"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/pkg/errs"
	"relay/internal/pkg/guard"
)

var ErrRequestPickupCommandIsNotConstructed = errors.New(
	"RequestPickupCommand must be created via NewRequestPickupCommand constructor",
)

// RequestPickupCommand asks to hand a pending package to the mover standing at location.
type RequestPickupCommand struct { //nolint:recvcheck //using for validation
	packageID   kernel.UUID
	moverID     kernel.UUID
	location    kernel.GeoPoint
	requestedAt time.Time

	guard guard.ConstructorGuard
}

func NewRequestPickupCommand(
	packageID, moverID kernel.UUID,
	location kernel.GeoPoint,
	requestedAt time.Time,
) (RequestPickupCommand, error) {
	cmd := RequestPickupCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setIDs(packageID, moverID),
		cmd.setLocation(location),
		cmd.setRequestedAt(requestedAt),
	); err != nil {
		return RequestPickupCommand{}, err
	}

	return cmd, nil
}

func (c RequestPickupCommand) Validate() error {
	return c.guard.Validate(ErrRequestPickupCommandIsNotConstructed)
}

func (c RequestPickupCommand) PackageID() kernel.UUID {
	return c.packageID
}

func (c RequestPickupCommand) MoverID() kernel.UUID {
	return c.moverID
}

func (c RequestPickupCommand) Location() kernel.GeoPoint {
	return c.location
}

func (c RequestPickupCommand) RequestedAt() time.Time {
	return c.requestedAt
}

func (c *RequestPickupCommand) setIDs(packageID, moverID kernel.UUID) error {
	if err := errors.Join(packageID.Validate(), moverID.Validate()); err != nil {
		return err
	}
	c.packageID = packageID
	c.moverID = moverID
	return nil
}

func (c *RequestPickupCommand) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	c.location = location
	return nil
}

func (c *RequestPickupCommand) setRequestedAt(at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError("requested at")
	}
	c.requestedAt = at
	return nil
}
