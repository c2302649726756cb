package commands_test

import (
	"testing"
	"time"

	"relay/internal/core/application/usecases/commands"
	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/mover"
	"relay/internal/core/domain/model/parcel"
	"relay/internal/core/domain/model/transit"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// heldPackage returns a package picked up at its origin by moverID, with the open record.
func heldPackage(t *testing.T, moverID kernel.UUID) (*parcel.Package, *transit.Record) {
	t.Helper()
	pkg := newPendingPackage(t)
	record, err := transit.NewRecord(pkg.ID(), moverID, pkg.CurrentLocation(), now)
	require.NoError(t, err)
	require.NoError(t, pkg.PickUp(moverID, now))
	return pkg, record
}

func TestRequestDropoffCommandHandler_Handle_Delivered(t *testing.T) {
	ctx := t.Context()
	f := newPickupFixture(t)
	pkg, record := heldPackage(t, f.moverID)
	m, err := mover.RestoreMover(f.moverID, "Carol", decimal.NewFromInt(1))
	require.NoError(t, err)
	nearDestination := north(t, pkg.Destination(), -80)
	cmd, err := commands.NewRequestDropoffCommand(pkg.ID(), f.moverID, nearDestination, now.Add(time.Hour))
	require.NoError(t, err)

	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.pkgs.On("Get", ctx, pkg.ID()).Return(pkg, nil).Once(),
		f.records.On("GetAllByPackage", ctx, pkg.ID()).Return([]*transit.Record{record}, nil).Once(),
		f.movers.On("Get", ctx, f.moverID).Return(m, nil).Once(),
		f.pkgs.On("Update", ctx, pkg).Return(nil).Once(),
		f.records.On("Update", ctx, record).Return(nil).Once(),
		f.movers.On("Update", ctx, m).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	reward, err := commands.NewRequestDropoffCommandHandler(f.factory).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, reward.Delivered)
	assert.Equal(t, "4.92", reward.CreditsEarned.StringFixed(2))
	require.NotNil(t, reward.DeliveryBonus)
	assert.Equal(t, "15.92", reward.NewBalance.StringFixed(2))
	assert.Equal(t, parcel.Delivered, pkg.Status())
	assert.False(t, record.IsOpen())
	f.uow.AssertExpectations(t)
	f.movers.AssertExpectations(t)
}

func TestRequestDropoffCommandHandler_Handle_NotHolder(t *testing.T) {
	ctx := t.Context()
	f := newPickupFixture(t)
	pkg, record := heldPackage(t, kernel.NewUUID())
	cmd, err := commands.NewRequestDropoffCommand(pkg.ID(), f.moverID, pkg.Destination(), now.Add(time.Hour))
	require.NoError(t, err)

	f.uow.On("Begin", ctx).Return(nil).Once()
	f.pkgs.On("Get", ctx, pkg.ID()).Return(pkg, nil).Once()
	f.records.On("GetAllByPackage", ctx, pkg.ID()).Return([]*transit.Record{record}, nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()

	_, err = commands.NewRequestDropoffCommandHandler(f.factory).Handle(ctx, cmd)

	require.ErrorIs(t, err, parcel.ErrNotHeldByMover)
	assert.True(t, record.IsOpen())
	f.pkgs.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
}
