package commands

import (
	"context"

	"relay/internal/core/domain/model/parcel"
)

// CreatePackageCommandHandler persists new pending packages.
type CreatePackageCommandHandler struct {
	uowFactory PackageUoWFactory
}

func NewCreatePackageCommandHandler(uowFactory PackageUoWFactory) CreatePackageCommandHandler {
	return CreatePackageCommandHandler{uowFactory: uowFactory}
}

// Handle builds the package, makes the sender its first follower and stores it.
func (h CreatePackageCommandHandler) Handle(ctx context.Context, cmd CreatePackageCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	p := cmd.Params()
	pkg, err := parcel.NewPackage(
		cmd.PackageID(),
		p.Origin, p.Destination, p.DestinationName,
		p.DueDate, p.Category,
		p.Sender, p.Recipient,
	)
	if err != nil {
		return err
	}

	if err = pkg.Follow(cmd.SenderID(), p.CreatedAt); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.PackageRepository().Add(ctx, pkg); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
