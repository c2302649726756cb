package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork for each command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Repositories obtained after
// Begin run inside the transaction; Commit also records the change feed
// messages for every aggregate the repositories touched.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	PackageRepository() PackageRepository
	TransitRecordRepository() TransitRecordRepository
	MoverRepository() MoverRepository
}
