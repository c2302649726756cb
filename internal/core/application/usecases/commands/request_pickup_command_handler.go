package commands

import (
	"context"
	"errors"
	"fmt"

	"relay/internal/core/domain/services"
	"relay/internal/pkg/errs"
)

// RequestPickupCommandHandler performs a pickup atomically: the package moves
// to transit and the mover's record opens in one transaction. The package
// update is conditional on the version read at the start, so of two racing
// pickups only one commits; the other gets services.ErrPickupRaceLost and is
// not retried.
//
// Example:
//
//	handler := NewRequestPickupCommandHandler(uowFactory)
//	reward, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, services.ErrPickupRaceLost):
//	    // someone else was faster
//	case errors.Is(err, services.ErrNotEligible):
//	    // too far, already moved, ...
//	}
type RequestPickupCommandHandler struct {
	uowFactory RelayUoWFactory
	rewards    services.RewardCalculator
}

func NewRequestPickupCommandHandler(uowFactory RelayUoWFactory) RequestPickupCommandHandler {
	return RequestPickupCommandHandler{
		uowFactory: uowFactory,
		rewards:    services.NewRewardCalculator(),
	}
}

// Handle returns a zero-credit receipt carrying the mover's balance.
func (h RequestPickupCommandHandler) Handle(ctx context.Context, cmd RequestPickupCommand) (services.Reward, error) {
	if err := cmd.Validate(); err != nil {
		return services.Reward{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return services.Reward{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	packageRepo := uow.PackageRepository()
	recordRepo := uow.TransitRecordRepository()

	pkg, err := packageRepo.Get(ctx, cmd.PackageID())
	if err != nil {
		return services.Reward{}, err
	}

	records, err := recordRepo.GetAllByPackage(ctx, cmd.PackageID())
	if err != nil {
		return services.Reward{}, err
	}

	record, err := services.NewRelayCoordinator().PickUp(pkg, records, cmd.MoverID(), cmd.Location(), cmd.RequestedAt())
	if err != nil {
		return services.Reward{}, err
	}

	m, err := loadOrRegisterMover(ctx, uow.MoverRepository(), cmd.MoverID())
	if err != nil {
		return services.Reward{}, err
	}

	if err = packageRepo.Update(ctx, pkg); err != nil {
		if errors.Is(err, errs.ErrVersionIsInvalid) {
			return services.Reward{}, fmt.Errorf("%w: %w", services.ErrPickupRaceLost, err)
		}
		return services.Reward{}, err
	}

	if err = recordRepo.Add(ctx, record); err != nil {
		return services.Reward{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return services.Reward{}, err
	}

	return h.rewards.Pickup(m), nil
}
