package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/parcel"
	"relay/internal/core/domain/services"
	"relay/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const metersPerDegree = kernel.EarthRadiusMeters * 3.141592653589793 / 180

var now = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func point(t *testing.T, lat, lon float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	return p
}

func north(t *testing.T, p kernel.GeoPoint, meters float64) kernel.GeoPoint {
	t.Helper()
	return point(t, p.Latitude()+meters/metersPerDegree, p.Longitude())
}

// pendingPackage sits at its origin with the destination 5 km north.
func pendingPackage(t *testing.T) *parcel.Package {
	t.Helper()
	origin := point(t, 52.5200, 13.4050)
	alice, err := kernel.NewIdentity("Alice", "", "", "")
	require.NoError(t, err)
	bob, err := kernel.NewIdentity("Bob", "", "", "")
	require.NoError(t, err)
	pkg, err := parcel.NewPackage(kernel.NewUUID(), origin, north(t, origin, 5000), "",
		now.Add(24*time.Hour), "books", alice, bob)
	require.NoError(t, err)
	return pkg
}

// FakeLocationSource hands its sink to the test.
type FakeLocationSource struct {
	mu       sync.Mutex
	sink     func(ports.LocationFix)
	started  bool
	stopped  bool
	startErr error
}

func (f *FakeLocationSource) Start(_ context.Context, sink func(ports.LocationFix)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.sink = sink
	f.started = true
	return nil
}

func (f *FakeLocationSource) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *FakeLocationSource) Emit(fix ports.LocationFix) {
	f.mu.Lock()
	sink := f.sink
	f.mu.Unlock()
	sink(fix)
}

func (f *FakeLocationSource) IsStopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

type MockRelayGateway struct {
	mock.Mock
}

func (m *MockRelayGateway) RequestPickup(ctx context.Context, packageID kernel.UUID, location kernel.GeoPoint) (services.Reward, error) {
	args := m.Called(ctx, packageID, location)
	return args.Get(0).(services.Reward), args.Error(1)
}

func (m *MockRelayGateway) RequestDropoff(ctx context.Context, packageID kernel.UUID, location kernel.GeoPoint) (services.Reward, error) {
	args := m.Called(ctx, packageID, location)
	return args.Get(0).(services.Reward), args.Error(1)
}

// restoredAt rebuilds pkg as the store would send it at version, with the
// given status and holder.
func restoredAt(t *testing.T, pkg *parcel.Package, status parcel.Status, holder *kernel.UUID, version int64) *parcel.Package {
	t.Helper()
	name := ""
	if pkg.DestinationName() != nil {
		name = *pkg.DestinationName()
	}
	restored, err := parcel.RestorePackage(parcel.Snapshot{
		ID:              pkg.ID(),
		Status:          status,
		Origin:          pkg.Origin(),
		Destination:     pkg.Destination(),
		DestinationName: name,
		CurrentLocation: pkg.CurrentLocation(),
		DueDate:         pkg.DueDate(),
		Category:        pkg.Category(),
		InTransitBy:     holder,
		Sender:          pkg.Sender(),
		Recipient:       pkg.Recipient(),
		Version:         version,
	})
	require.NoError(t, err)
	return restored
}
