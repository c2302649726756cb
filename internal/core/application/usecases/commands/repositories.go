// Package commands contains the relay's write operations. Every handler
// validates its command, opens a unit of work, runs the domain workflow and
// commits; the deferred rollback is a no-op after a successful commit.
package commands

import (
	"context"

	"relay/internal/core/ports"
)

type (
	// TxManager handles the transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	PackageRepoFactory interface {
		PackageRepository() ports.PackageRepository
	}

	TransitRecordRepoFactory interface {
		TransitRecordRepository() ports.TransitRecordRepository
	}

	MoverRepoFactory interface {
		MoverRepository() ports.MoverRepository
	}

	// PackageUoW covers package-only writes such as creation.
	PackageUoW interface {
		TxManager
		PackageRepoFactory
	}

	PackageUoWFactory interface {
		Create() PackageUoW
	}

	// MovementUoW covers writes to a package and its transit records.
	MovementUoW interface {
		TxManager
		PackageRepoFactory
		TransitRecordRepoFactory
	}

	MovementUoWFactory interface {
		Create() MovementUoW
	}

	// RelayUoW covers pickup and dropoff, which touch the package, its
	// records and the mover's balance in one transaction.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   pkg, err := uow.PackageRepository().Get(ctx, id)
	//   records, err := uow.TransitRecordRepository().GetAllByPackage(ctx, id)
	//   // ... run the coordinator
	//
	//   err = uow.Commit(ctx)
	RelayUoW interface {
		TxManager
		PackageRepoFactory
		TransitRecordRepoFactory
		MoverRepoFactory
	}

	RelayUoWFactory interface {
		Create() RelayUoW
	}
)
