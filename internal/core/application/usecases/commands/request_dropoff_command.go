package commands

import (
	"errors"
	"time"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/pkg/errs"
	"relay/internal/pkg/guard"
)

var ErrRequestDropoffCommandIsNotConstructed = errors.New(
	"RequestDropoffCommand must be created via NewRequestDropoffCommand constructor",
)

// RequestDropoffCommand asks to release a held package at location, the mover's current position.
type RequestDropoffCommand struct { //nolint:recvcheck //using for validation
	packageID   kernel.UUID
	moverID     kernel.UUID
	location    kernel.GeoPoint
	requestedAt time.Time

	guard guard.ConstructorGuard
}

func NewRequestDropoffCommand(
	packageID, moverID kernel.UUID,
	location kernel.GeoPoint,
	requestedAt time.Time,
) (RequestDropoffCommand, error) {
	cmd := RequestDropoffCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setIDs(packageID, moverID),
		cmd.setLocation(location),
		cmd.setRequestedAt(requestedAt),
	); err != nil {
		return RequestDropoffCommand{}, err
	}

	return cmd, nil
}

func (c RequestDropoffCommand) Validate() error {
	return c.guard.Validate(ErrRequestDropoffCommandIsNotConstructed)
}

func (c RequestDropoffCommand) PackageID() kernel.UUID {
	return c.packageID
}

func (c RequestDropoffCommand) MoverID() kernel.UUID {
	return c.moverID
}

func (c RequestDropoffCommand) Location() kernel.GeoPoint {
	return c.location
}

func (c RequestDropoffCommand) RequestedAt() time.Time {
	return c.requestedAt
}

func (c *RequestDropoffCommand) setIDs(packageID, moverID kernel.UUID) error {
	if err := errors.Join(packageID.Validate(), moverID.Validate()); err != nil {
		return err
	}
	c.packageID = packageID
	c.moverID = moverID
	return nil
}

func (c *RequestDropoffCommand) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	c.location = location
	return nil
}

func (c *RequestDropoffCommand) setRequestedAt(at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError("requested at")
	}
	c.requestedAt = at
	return nil
}
