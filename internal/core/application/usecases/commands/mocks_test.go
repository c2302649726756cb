package commands_test

import (
	"context"
	"testing"
	"time"

	"relay/internal/core/application/usecases/commands"
	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/mover"
	"relay/internal/core/domain/model/parcel"
	"relay/internal/core/domain/model/transit"
	"relay/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPackageRepository struct{ mock.Mock }

func (m *MockPackageRepository) Add(ctx context.Context, p *parcel.Package) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPackageRepository) Update(ctx context.Context, p *parcel.Package) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPackageRepository) Get(ctx context.Context, id kernel.UUID) (*parcel.Package, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parcel.Package), args.Error(1)
}

type MockTransitRecordRepository struct{ mock.Mock }

func (m *MockTransitRecordRepository) Add(ctx context.Context, r *transit.Record) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockTransitRecordRepository) Update(ctx context.Context, r *transit.Record) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockTransitRecordRepository) GetAllByPackage(ctx context.Context, id kernel.UUID) ([]*transit.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transit.Record), args.Error(1)
}

func newMover(t *testing.T, id kernel.UUID, balance string) *mover.Mover {
	t.Helper()
	m, err := mover.RestoreMover(id, mover.DefaultName, decimal.RequireFromString(balance))
	require.NoError(t, err)
	return m
}

type MockMoverRepository struct{ mock.Mock }

func (m *MockMoverRepository) Add(ctx context.Context, mv *mover.Mover) error {
	return m.Called(ctx, mv).Error(0)
}

func (m *MockMoverRepository) Update(ctx context.Context, mv *mover.Mover) error {
	return m.Called(ctx, mv).Error(0)
}

func (m *MockMoverRepository) Get(ctx context.Context, id kernel.UUID) (*mover.Mover, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mover.Mover), args.Error(1)
}

// MockUoW satisfies every unit-of-work shape the handlers consume.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) PackageRepository() ports.PackageRepository {
	return m.Called().Get(0).(ports.PackageRepository)
}

func (m *MockUoW) TransitRecordRepository() ports.TransitRecordRepository {
	return m.Called().Get(0).(ports.TransitRecordRepository)
}

func (m *MockUoW) MoverRepository() ports.MoverRepository {
	return m.Called().Get(0).(ports.MoverRepository)
}

type MockRelayUoWFactory struct{ mock.Mock }

func (m *MockRelayUoWFactory) Create() commands.RelayUoW {
	return m.Called().Get(0).(commands.RelayUoW)
}

type MockPackageUoWFactory struct{ mock.Mock }

func (m *MockPackageUoWFactory) Create() commands.PackageUoW {
	return m.Called().Get(0).(commands.PackageUoW)
}

type MockMovementUoWFactory struct{ mock.Mock }

func (m *MockMovementUoWFactory) Create() commands.MovementUoW {
	return m.Called().Get(0).(commands.MovementUoW)
}

const metersPerDegree = kernel.EarthRadiusMeters * 3.141592653589793 / 180

var now = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func north(t *testing.T, p kernel.GeoPoint, meters float64) kernel.GeoPoint {
	t.Helper()
	out, err := kernel.NewGeoPoint(p.Latitude()+meters/metersPerDegree, p.Longitude())
	require.NoError(t, err)
	return out
}

func identity(t *testing.T, name string) kernel.Identity {
	t.Helper()
	id, err := kernel.NewIdentity(name, "", "", "")
	require.NoError(t, err)
	return id
}

// newPendingPackage is 5 km south of its destination.
func newPendingPackage(t *testing.T) *parcel.Package {
	t.Helper()
	origin, err := kernel.NewGeoPoint(52.5200, 13.4050)
	require.NoError(t, err)
	pkg, err := parcel.NewPackage(kernel.NewUUID(), origin, north(t, origin, 5000), "",
		now.Add(24*time.Hour), "books", identity(t, "Alice"), identity(t, "Bob"))
	require.NoError(t, err)
	return pkg
}
