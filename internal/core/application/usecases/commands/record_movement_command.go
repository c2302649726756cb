package commands

import (
	"errors"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/transit"
	"relay/internal/pkg/guard"
)

var ErrRecordMovementCommandIsNotConstructed = errors.New(
	"RecordMovementCommand must be created via NewRecordMovementCommand constructor",
)

// RecordMovementCommand appends a location sample to the mover's open record.
type RecordMovementCommand struct {
	packageID kernel.UUID
	moverID   kernel.UUID
	movement  transit.Movement

	guard guard.ConstructorGuard
}

func NewRecordMovementCommand(packageID, moverID kernel.UUID, movement transit.Movement) (RecordMovementCommand, error) {
	if err := errors.Join(packageID.Validate(), moverID.Validate(), movement.Point().Validate()); err != nil {
		return RecordMovementCommand{}, err
	}

	return RecordMovementCommand{
		packageID: packageID,
		moverID:   moverID,
		movement:  movement,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RecordMovementCommand) Validate() error {
	return c.guard.Validate(ErrRecordMovementCommandIsNotConstructed)
}

func (c RecordMovementCommand) PackageID() kernel.UUID {
	return c.packageID
}

func (c RecordMovementCommand) MoverID() kernel.UUID {
	return c.moverID
}

func (c RecordMovementCommand) Movement() transit.Movement {
	return c.movement
}
