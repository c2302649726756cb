package packagerepo_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "relay/internal/adapters/out/postgres"
	"relay/internal/adapters/out/postgres/packagerepo"
	"relay/internal/adapters/out/postgres/pgtest"
	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/parcel"
	"relay/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

type PackageRepositoryIntegrationTestSuite struct {
	suite.Suite
	database   *pgtest.Database
	repository *packagerepo.GormPackageRepository
	tracker    *MockAggregateTracker
}

func TestPackageRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PackageRepositoryIntegrationTestSuite))
}

func (suite *PackageRepositoryIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.Require().NoError(postgres_adapter.Migrate(database.DB))
}

func (suite *PackageRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate("packages"))
	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = packagerepo.NewGormPackageRepository(suite.database.DB, suite.tracker)
}

func (suite *PackageRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *PackageRepositoryIntegrationTestSuite) newPackage() *parcel.Package {
	origin, err := kernel.NewGeoPoint(52.52, 13.405)
	suite.Require().NoError(err)
	destination, err := kernel.NewGeoPoint(52.56, 13.405)
	suite.Require().NoError(err)
	sender, err := kernel.NewIdentity("Alice", "https://example.com/a.png", "alice@example.com", "")
	suite.Require().NoError(err)
	recipient, err := kernel.NewIdentity("Bob", "", "", "+4912345")
	suite.Require().NoError(err)

	pkg, err := parcel.NewPackage(kernel.NewUUID(), origin, destination, "Office",
		time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), "books", sender, recipient)
	suite.Require().NoError(err)
	return pkg
}

func (suite *PackageRepositoryIntegrationTestSuite) TestAdd_ThenGet_RestoresAllFields() {
	ctx := context.Background()
	pkg := suite.newPackage()
	suite.Require().NoError(pkg.Follow(kernel.NewUUID(), time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)))

	suite.Require().NoError(suite.repository.Add(ctx, pkg))
	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", pkg.ID(), pkg)

	got, err := suite.repository.Get(ctx, pkg.ID())
	suite.Require().NoError(err)

	suite.True(got.IsEqual(pkg))
	suite.Equal(parcel.Pending, got.Status())
	suite.True(got.Origin().IsEqual(pkg.Origin()))
	suite.True(got.Destination().IsEqual(pkg.Destination()))
	suite.True(got.CurrentLocation().IsEqual(pkg.Origin()))
	suite.Require().NotNil(got.DestinationName())
	suite.Equal("Office", *got.DestinationName())
	suite.True(got.DueDate().Equal(pkg.DueDate()))
	suite.Equal("books", got.Category())
	suite.Nil(got.InTransitBy())
	suite.Equal(pkg.Sender().PhotoURL(), got.Sender().PhotoURL())
	suite.Equal(pkg.Recipient().Phone(), got.Recipient().Phone())
	suite.Len(got.Followers(), 1)
	suite.Equal(int64(0), got.Version())
}

func (suite *PackageRepositoryIntegrationTestSuite) TestAdd_StoresFullGeohashOfCurrentLocation() {
	ctx := context.Background()
	pkg := suite.newPackage()
	suite.Require().NoError(suite.repository.Add(ctx, pkg))

	var stored string
	suite.Require().NoError(suite.database.DB.Raw("SELECT geohash FROM packages WHERE id = ?", pkg.ID().Bytes()).
		Scan(&stored).Error)
	suite.Equal(pkg.CurrentLocation().Geohash(packagerepo.GeohashPrecision), stored)
}

func (suite *PackageRepositoryIntegrationTestSuite) TestUpdate_BumpsVersionAndPersistsTransition() {
	ctx := context.Background()
	pkg := suite.newPackage()
	suite.Require().NoError(suite.repository.Add(ctx, pkg))

	mover := kernel.NewUUID()
	suite.Require().NoError(pkg.PickUp(mover, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)))
	suite.Require().NoError(suite.repository.Update(ctx, pkg))
	suite.Equal(int64(1), pkg.Version())

	got, err := suite.repository.Get(ctx, pkg.ID())
	suite.Require().NoError(err)
	suite.Equal(parcel.Transit, got.Status())
	suite.True(got.IsHeldBy(mover))
	suite.Equal(int64(1), got.Version())
}

func (suite *PackageRepositoryIntegrationTestSuite) TestUpdate_StaleVersion_IsRejected() {
	ctx := context.Background()
	pkg := suite.newPackage()
	suite.Require().NoError(suite.repository.Add(ctx, pkg))

	first, err := suite.repository.Get(ctx, pkg.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, pkg.ID())
	suite.Require().NoError(err)

	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	suite.Require().NoError(first.PickUp(kernel.NewUUID(), at))
	suite.Require().NoError(second.PickUp(kernel.NewUUID(), at))

	suite.Require().NoError(suite.repository.Update(ctx, first))
	err = suite.repository.Update(ctx, second)
	suite.Require().ErrorIs(err, errs.ErrVersionIsInvalid)

	got, err := suite.repository.Get(ctx, pkg.ID())
	suite.Require().NoError(err)
	suite.True(got.IsHeldBy(*first.InTransitBy()))
}

func (suite *PackageRepositoryIntegrationTestSuite) TestGet_Unknown_ReturnsNotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}
