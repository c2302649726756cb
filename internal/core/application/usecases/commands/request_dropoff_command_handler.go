package commands

import (
	"context"

	"relay/internal/core/domain/services"
)

// RequestDropoffCommandHandler closes the holder's record, returns the package
// to pending (or delivers it) and credits the mover, all in one transaction.
type RequestDropoffCommandHandler struct {
	uowFactory RelayUoWFactory
	rewards    services.RewardCalculator
}

func NewRequestDropoffCommandHandler(uowFactory RelayUoWFactory) RequestDropoffCommandHandler {
	return RequestDropoffCommandHandler{
		uowFactory: uowFactory,
		rewards:    services.NewRewardCalculator(),
	}
}

// Handle returns the reward summary: credits for the signed distance moved,
// the delivery bonus when delivered and the new balance.
func (h RequestDropoffCommandHandler) Handle(ctx context.Context, cmd RequestDropoffCommand) (services.Reward, error) {
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
	moverRepo := uow.MoverRepository()

	pkg, err := packageRepo.Get(ctx, cmd.PackageID())
	if err != nil {
		return services.Reward{}, err
	}

	records, err := recordRepo.GetAllByPackage(ctx, cmd.PackageID())
	if err != nil {
		return services.Reward{}, err
	}

	outcome, err := services.NewRelayCoordinator().DropOff(pkg, records, cmd.MoverID(), cmd.Location(), cmd.RequestedAt())
	if err != nil {
		return services.Reward{}, err
	}

	m, err := loadOrRegisterMover(ctx, moverRepo, cmd.MoverID())
	if err != nil {
		return services.Reward{}, err
	}
	reward := h.rewards.Dropoff(m, outcome.DistanceMoved, outcome.Delivered)

	if err = packageRepo.Update(ctx, pkg); err != nil {
		return services.Reward{}, err
	}

	if err = recordRepo.Update(ctx, outcome.Record); err != nil {
		return services.Reward{}, err
	}

	if err = moverRepo.Update(ctx, m); err != nil {
		return services.Reward{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return services.Reward{}, err
	}

	return reward, nil
}
