package transitrepo_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "relay/internal/adapters/out/postgres"
	"relay/internal/adapters/out/postgres/pgtest"
	"relay/internal/adapters/out/postgres/transitrepo"
	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/transit"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var start = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

type TransitRecordRepositoryIntegrationTestSuite struct {
	suite.Suite
	database   *pgtest.Database
	repository *transitrepo.GormTransitRecordRepository
	tracker    *MockAggregateTracker
}

func TestTransitRecordRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(TransitRecordRepositoryIntegrationTestSuite))
}

func (suite *TransitRecordRepositoryIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.Require().NoError(postgres_adapter.Migrate(database.DB))
}

func (suite *TransitRecordRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate("movements", "transit_records"))
	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = transitrepo.NewGormTransitRecordRepository(suite.database.DB, suite.tracker)
}

func (suite *TransitRecordRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *TransitRecordRepositoryIntegrationTestSuite) point(lat float64) kernel.GeoPoint {
	p, err := kernel.NewGeoPoint(lat, 13.405)
	suite.Require().NoError(err)
	return p
}

func (suite *TransitRecordRepositoryIntegrationTestSuite) openRecord(packageID kernel.UUID, at time.Time) *transit.Record {
	record, err := transit.NewRecord(packageID, kernel.NewUUID(), suite.point(52.52), at)
	suite.Require().NoError(err)
	return record
}

func (suite *TransitRecordRepositoryIntegrationTestSuite) TestAdd_TracksAnAddedChange() {
	ctx := context.Background()
	record := suite.openRecord(kernel.NewUUID(), start)

	suite.Require().NoError(suite.repository.Add(ctx, record))

	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", record.Key(),
		transit.RecordChange{Type: transit.Added, Key: record.Key(), Record: record})
}

func (suite *TransitRecordRepositoryIntegrationTestSuite) TestAdd_SecondRecordForSameMover_Fails() {
	ctx := context.Background()
	record := suite.openRecord(kernel.NewUUID(), start)
	suite.Require().NoError(suite.repository.Add(ctx, record))

	again, err := transit.NewRecord(record.PackageID(), record.MoverID(), suite.point(52.53), start.Add(time.Hour))
	suite.Require().NoError(err)

	suite.Require().Error(suite.repository.Add(ctx, again))
}

func (suite *TransitRecordRepositoryIntegrationTestSuite) TestUpdate_AppendsMovementsAndClosesRecord() {
	ctx := context.Background()
	record := suite.openRecord(kernel.NewUUID(), start)
	suite.Require().NoError(suite.repository.Add(ctx, record))

	first, err := transit.NewMovement(start.Add(time.Minute), suite.point(52.525))
	suite.Require().NoError(err)
	suite.Require().NoError(record.AppendMovement(first))
	suite.Require().NoError(suite.repository.Update(ctx, record))

	second, err := transit.NewMovement(start.Add(2*time.Minute), suite.point(52.53))
	suite.Require().NoError(err)
	suite.Require().NoError(record.AppendMovement(second))
	suite.Require().NoError(record.Close(suite.point(52.53), start.Add(3*time.Minute)))
	suite.Require().NoError(suite.repository.Update(ctx, record))

	records, err := suite.repository.GetAllByPackage(ctx, record.PackageID())
	suite.Require().NoError(err)
	suite.Require().Len(records, 1)

	got := records[0]
	suite.False(got.IsOpen())
	suite.True(got.DropoffDate().Equal(start.Add(3 * time.Minute)))
	suite.True(got.DropoffPoint().IsEqual(suite.point(52.53)))
	suite.Require().Len(got.Movements(), 2)
	suite.True(got.Movements()[0].Date().Equal(first.Date()))
	suite.True(got.Movements()[1].Date().Equal(second.Date()))
}

func (suite *TransitRecordRepositoryIntegrationTestSuite) TestUpdate_UnknownRecord_Fails() {
	record := suite.openRecord(kernel.NewUUID(), start)

	suite.Require().Error(suite.repository.Update(context.Background(), record))
}

func (suite *TransitRecordRepositoryIntegrationTestSuite) TestGetAllByPackage_NewestPickupFirst() {
	ctx := context.Background()
	packageID := kernel.NewUUID()

	older := suite.openRecord(packageID, start)
	suite.Require().NoError(older.Close(suite.point(52.53), start.Add(time.Hour)))
	newer := suite.openRecord(packageID, start.Add(2*time.Hour))
	other := suite.openRecord(kernel.NewUUID(), start)

	suite.Require().NoError(suite.repository.Add(ctx, older))
	suite.Require().NoError(suite.repository.Add(ctx, newer))
	suite.Require().NoError(suite.repository.Add(ctx, other))

	records, err := suite.repository.GetAllByPackage(ctx, packageID)
	suite.Require().NoError(err)
	suite.Require().Len(records, 2)
	suite.True(records[0].Key().IsEqual(newer.Key()))
	suite.True(records[1].Key().IsEqual(older.Key()))
	suite.False(records[1].IsOpen())
}
