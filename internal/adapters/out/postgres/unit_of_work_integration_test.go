package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "relay/internal/adapters/out/postgres"
	"relay/internal/adapters/out/postgres/outboxrepo"
	"relay/internal/adapters/out/postgres/pgtest"
	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/parcel"
	"relay/internal/core/domain/model/transit"
	"relay/internal/core/ports"
	"relay/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

var now = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	database *pgtest.Database
	factory  *postgres_adapter.GormUnitOfWorkFactory
	outbox   *outboxrepo.GormOutboxRepository
}

func TestUnitOfWorkIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.Require().NoError(postgres_adapter.Migrate(database.DB))

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(database.DB).WithClock(func() time.Time { return now })
	suite.outbox = outboxrepo.NewGormOutboxRepository(database.DB)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate(postgres_adapter.Tables...))
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *UnitOfWorkIntegrationTestSuite) newPackage() *parcel.Package {
	origin, err := kernel.NewGeoPoint(52.52, 13.405)
	suite.Require().NoError(err)
	destination, err := kernel.NewGeoPoint(52.56, 13.405)
	suite.Require().NoError(err)
	alice, err := kernel.NewIdentity("Alice", "", "", "")
	suite.Require().NoError(err)
	bob, err := kernel.NewIdentity("Bob", "", "", "")
	suite.Require().NoError(err)
	pkg, err := parcel.NewPackage(kernel.NewUUID(), origin, destination, "", now.Add(24*time.Hour), "books", alice, bob)
	suite.Require().NoError(err)
	return pkg
}

func (suite *UnitOfWorkIntegrationTestSuite) addPackage(pkg *parcel.Package) {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.PackageRepository().Add(ctx, pkg))
	suite.Require().NoError(uow.Commit(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) unpublished() []ports.OutboxMessage {
	messages, err := suite.outbox.GetUnpublished(context.Background(), 100)
	suite.Require().NoError(err)
	return messages
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "second Begin is a no-op")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))

	suite.Require().Error(uow.Commit(ctx))
	suite.Require().Error(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_WritesOutboxMessagesWithTheChange() {
	pkg := suite.newPackage()
	suite.addPackage(pkg)

	messages := suite.unpublished()
	suite.Require().Len(messages, 1)
	suite.Equal(ports.TopicPackageChanged, messages[0].Topic)
	suite.True(messages[0].OccurredAt.Equal(now))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsChangeAndOutbox() {
	ctx := context.Background()
	pkg := suite.newPackage()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.PackageRepository().Add(ctx, pkg))
	suite.Require().NoError(uow.Rollback(ctx))

	_, err := suite.factory.Create().PackageRepository().Get(ctx, pkg.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	suite.Empty(suite.unpublished())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestPickup_PersistsPackageRecordAndFeed() {
	ctx := context.Background()
	pkg := suite.newPackage()
	suite.addPackage(pkg)
	suite.Require().NoError(suite.database.Truncate("outbox"))

	moverID := kernel.NewUUID()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	loaded, err := uow.PackageRepository().Get(ctx, pkg.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.PickUp(moverID, now))
	record, err := transit.NewRecord(loaded.ID(), moverID, loaded.CurrentLocation(), now)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.PackageRepository().Update(ctx, loaded))
	suite.Require().NoError(uow.TransitRecordRepository().Add(ctx, record))
	suite.Require().NoError(uow.Commit(ctx))

	records, err := suite.factory.Create().TransitRecordRepository().GetAllByPackage(ctx, pkg.ID())
	suite.Require().NoError(err)
	suite.Require().Len(records, 1)
	suite.True(records[0].IsOpen())

	messages := suite.unpublished()
	suite.Require().Len(messages, 2)
	suite.Equal(ports.TopicPackageChanged, messages[0].Topic)
	suite.Equal(ports.TopicTransitRecordsChanged, messages[1].Topic)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestConcurrentPickups_OnlyOneWins() {
	ctx := context.Background()
	pkg := suite.newPackage()
	suite.addPackage(pkg)

	first := suite.factory.Create()
	second := suite.factory.Create()
	suite.Require().NoError(first.Begin(ctx))
	suite.Require().NoError(second.Begin(ctx))
	defer func() { _ = second.Rollback(ctx) }()

	a, err := first.PackageRepository().Get(ctx, pkg.ID())
	suite.Require().NoError(err)
	b, err := second.PackageRepository().Get(ctx, pkg.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(a.PickUp(kernel.NewUUID(), now))
	suite.Require().NoError(b.PickUp(kernel.NewUUID(), now))

	suite.Require().NoError(first.PackageRepository().Update(ctx, a))
	suite.Require().NoError(first.Commit(ctx))

	err = second.PackageRepository().Update(ctx, b)
	suite.Require().ErrorIs(err, errs.ErrVersionIsInvalid)
}
