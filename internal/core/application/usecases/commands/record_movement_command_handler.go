package commands

import (
	"context"

	"relay/internal/core/domain/services"
)

// RecordMovementCommandHandler stores a movement and moves the package with it.
type RecordMovementCommandHandler struct {
	uowFactory MovementUoWFactory
}

func NewRecordMovementCommandHandler(uowFactory MovementUoWFactory) RecordMovementCommandHandler {
	return RecordMovementCommandHandler{uowFactory: uowFactory}
}

// Handle returns services.ErrOpenRecordNotFound when the mover does not hold
// the package, and transit.ErrMovementOutOfOrder for samples older than the
// last one stored.
func (h RecordMovementCommandHandler) Handle(ctx context.Context, cmd RecordMovementCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	packageRepo := uow.PackageRepository()
	recordRepo := uow.TransitRecordRepository()

	pkg, err := packageRepo.Get(ctx, cmd.PackageID())
	if err != nil {
		return err
	}

	records, err := recordRepo.GetAllByPackage(ctx, cmd.PackageID())
	if err != nil {
		return err
	}

	record, ok := services.FindOpenRecord(records)
	if !ok || !record.Key().IsEqual(cmd.MoverID()) {
		return services.ErrOpenRecordNotFound
	}

	if err = services.NewRelayCoordinator().Move(pkg, record, cmd.Movement()); err != nil {
		return err
	}

	if err = packageRepo.Update(ctx, pkg); err != nil {
		return err
	}

	if err = recordRepo.Update(ctx, record); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
