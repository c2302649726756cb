package queries_test

import (
	"context"
	"testing"
	"time"

	"relay/internal/core/application/usecases/queries"
	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/parcel"
	"relay/internal/core/domain/model/transit"
	"relay/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPackageRepository struct{ mock.Mock }

func (m *MockPackageRepository) Add(context.Context, *parcel.Package) error    { return nil }
func (m *MockPackageRepository) Update(context.Context, *parcel.Package) error { return nil }
func (m *MockPackageRepository) Get(ctx context.Context, id kernel.UUID) (*parcel.Package, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parcel.Package), args.Error(1)
}

type MockTransitRecordRepository struct{ mock.Mock }

func (m *MockTransitRecordRepository) Add(context.Context, *transit.Record) error    { return nil }
func (m *MockTransitRecordRepository) Update(context.Context, *transit.Record) error { return nil }
func (m *MockTransitRecordRepository) GetAllByPackage(ctx context.Context, id kernel.UUID) ([]*transit.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transit.Record), args.Error(1)
}

type MockReadUoW struct {
	packages *MockPackageRepository
	records  *MockTransitRecordRepository
}

func (m *MockReadUoW) PackageRepository() ports.PackageRepository             { return m.packages }
func (m *MockReadUoW) TransitRecordRepository() ports.TransitRecordRepository { return m.records }

type MockReadUoWFactory struct{ mock.Mock }

func (m *MockReadUoWFactory) Create() queries.ReadUoW {
	return m.Called().Get(0).(queries.ReadUoW)
}

var now = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func newPackage(t *testing.T) *parcel.Package {
	t.Helper()
	origin, err := kernel.NewGeoPoint(52.52, 13.405)
	require.NoError(t, err)
	destination, err := kernel.NewGeoPoint(52.53, 13.405)
	require.NoError(t, err)
	sender, err := kernel.NewIdentity("Alice", "", "", "")
	require.NoError(t, err)
	recipient, err := kernel.NewIdentity("Bob", "", "", "")
	require.NoError(t, err)
	pkg, err := parcel.NewPackage(kernel.NewUUID(), origin, destination, "", now.Add(time.Hour), "books", sender, recipient)
	require.NoError(t, err)
	return pkg
}

func newReadFactory(pkgs *MockPackageRepository, records *MockTransitRecordRepository) *MockReadUoWFactory {
	factory := new(MockReadUoWFactory)
	factory.On("Create").Return(&MockReadUoW{packages: pkgs, records: records}).Once()
	return factory
}
