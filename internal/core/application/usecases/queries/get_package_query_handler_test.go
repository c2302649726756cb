package queries_test

import (
	"testing"
	"time"

	"relay/internal/core/application/usecases/queries"
	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/transit"
	"relay/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPackageQueryHandler_Handle(t *testing.T) {
	ctx := t.Context()
	pkg := newPackage(t)
	moverID := kernel.NewUUID()
	record, err := transit.NewRecord(pkg.ID(), moverID, pkg.CurrentLocation(), now)
	require.NoError(t, err)

	pkgs := new(MockPackageRepository)
	records := new(MockTransitRecordRepository)
	pkgs.On("Get", ctx, pkg.ID()).Return(pkg, nil).Once()
	records.On("GetAllByPackage", ctx, pkg.ID()).Return([]*transit.Record{record}, nil).Once()

	query, err := queries.NewGetPackageQuery(pkg.ID(), now)
	require.NoError(t, err)

	view, err := queries.NewGetPackageQueryHandler(newReadFactory(pkgs, records)).Handle(ctx, query)

	require.NoError(t, err)
	assert.Same(t, pkg, view.Package)
	assert.Len(t, view.Records, 1)
	assert.Equal(t, time.Hour, view.Progress.TimeRemaining)
	assert.Equal(t, 0.0, view.Progress.Percent)
	assert.Len(t, view.Markers, 4)
}

func TestGetPackageQueryHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	pkgs := new(MockPackageRepository)
	pkgs.On("Get", ctx, id).Return(nil, errs.NewObjectNotFoundError("package", id)).Once()

	query, err := queries.NewGetPackageQuery(id, now)
	require.NoError(t, err)

	_, err = queries.NewGetPackageQueryHandler(newReadFactory(pkgs, new(MockTransitRecordRepository))).Handle(ctx, query)

	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestGetPackageQuery_NotConstructed(t *testing.T) {
	_, err := queries.NewGetPackageQueryHandler(new(MockReadUoWFactory)).Handle(t.Context(), queries.GetPackageQuery{})

	assert.ErrorIs(t, err, queries.ErrGetPackageQueryIsNotConstructed)
}
