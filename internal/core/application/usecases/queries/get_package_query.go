package queries

import (
	"errors"
	"time"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/parcel"
	"relay/internal/core/domain/model/transit"
	"relay/internal/core/domain/services"
	"relay/internal/pkg/guard"
)

var ErrGetPackageQueryIsNotConstructed = errors.New(
	"GetPackageQuery must be created via NewGetPackageQuery constructor",
)

// GetPackageQuery loads the full view of one package.
//
// Example:
//
//	query, _ := NewGetPackageQuery(packageID, time.Now())
//	view, err := handler.Handle(ctx, query)
//	fmt.Printf("%s: %.0f%% there\n", view.Package.Status(), view.Progress.Percent*100)
type GetPackageQuery struct {
	packageID kernel.UUID
	at        time.Time
	guard     guard.ConstructorGuard
}

// NewGetPackageQuery builds the query; at is the instant progress is measured against.
func NewGetPackageQuery(packageID kernel.UUID, at time.Time) (GetPackageQuery, error) {
	if err := packageID.Validate(); err != nil {
		return GetPackageQuery{}, err
	}
	return GetPackageQuery{packageID: packageID, at: at, guard: guard.NewConstructorGuard()}, nil
}

func (q GetPackageQuery) Validate() error {
	return q.guard.Validate(ErrGetPackageQueryIsNotConstructed)
}

func (q GetPackageQuery) PackageID() kernel.UUID {
	return q.packageID
}

func (q GetPackageQuery) At() time.Time {
	return q.at
}

// GetPackageQueryResponse is a package with its records, newest first, each
// carrying its movements oldest first.
type GetPackageQueryResponse struct {
	Package  *parcel.Package
	Records  []*transit.Record
	Progress services.RouteProgress
	Markers  []services.Marker
}
