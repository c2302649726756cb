// Package postgres provides the GORM-based unit of work shared by the relay
// repositories.
//
// A unit of work wraps one database transaction. Repositories obtained after
// Begin run inside it and report every aggregate they write back to the unit
// of work. Commit turns those aggregates into change feed messages and stores
// them in the outbox table within the same transaction, so a change is
// published if and only if it was persisted.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.PackageRepository().Update(ctx, pkg); err != nil {
//	    return err
//	}
//	if err := uow.TransitRecordRepository().Add(ctx, record); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Each goroutine must use its own UnitOfWork.
package postgres

import (
	"context"
	"time"

	"relay/internal/adapters/out/postgres/moverrepo"
	"relay/internal/adapters/out/postgres/outboxrepo"
	"relay/internal/adapters/out/postgres/packagerepo"
	"relay/internal/adapters/out/postgres/transitrepo"
	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances on a shared connection pool.
type GormUnitOfWorkFactory struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, now: time.Now}
}

// WithClock overrides the time stamped on outbox messages.
func (f *GormUnitOfWorkFactory) WithClock(now func() time.Time) *GormUnitOfWorkFactory {
	f.now = now
	return f
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return f.CreateGorm()
}

// CreateGorm returns the concrete unit of work, which also satisfies the
// narrower unit of work interfaces of the use cases.
func (f *GormUnitOfWorkFactory) CreateGorm() *GormUnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		now:               f.now,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one transaction and the aggregates written in it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	now               func() time.Time
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling it twice is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Commit writes the outbox messages for every tracked aggregate and commits.
// On failure the transaction is rolled back.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	messages, err := outboxMessages(uow.trackedAggregates, uow.now())
	if err == nil {
		err = outboxrepo.NewGormOutboxRepository(uow.tx).Add(ctx, messages)
	}
	if err != nil {
		_ = uow.tx.Rollback().Error
		uow.tx = nil
		return err
	}

	err = uow.tx.Commit().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

// Rollback discards the transaction. It returns gorm.ErrInvalidTransaction
// when there is nothing to roll back, which deferred calls ignore.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) PackageRepository() ports.PackageRepository {
	return packagerepo.NewGormPackageRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) TransitRecordRepository() ports.TransitRecordRepository {
	return transitrepo.NewGormTransitRecordRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) MoverRepository() ports.MoverRepository {
	return moverrepo.NewGormMoverRepository(uow.conn(), uow)
}

// TrackAggregate is called by repositories after a successful write.
// Writes outside a transaction are not tracked since they cannot be paired
// with an outbox row.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	if uow.tx == nil {
		return
	}
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}
