package queries

import (
	"errors"
	"time"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/services"
	"relay/internal/pkg/guard"
)

var ErrGetEligibilityQueryIsNotConstructed = errors.New(
	"GetEligibilityQuery must be created via NewGetEligibilityQuery constructor",
)

// GetEligibilityQuery asks what userID may do with a package from location.
// A nil location means the caller has no fix.
type GetEligibilityQuery struct {
	packageID kernel.UUID
	userID    kernel.UUID
	location  *kernel.GeoPoint
	at        time.Time
	guard     guard.ConstructorGuard
}

func NewGetEligibilityQuery(
	packageID, userID kernel.UUID,
	location *kernel.GeoPoint,
	at time.Time,
) (GetEligibilityQuery, error) {
	if err := errors.Join(packageID.Validate(), userID.Validate()); err != nil {
		return GetEligibilityQuery{}, err
	}
	if location != nil {
		if err := location.Validate(); err != nil {
			return GetEligibilityQuery{}, err
		}
	}

	return GetEligibilityQuery{
		packageID: packageID,
		userID:    userID,
		location:  location,
		at:        at,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (q GetEligibilityQuery) Validate() error {
	return q.guard.Validate(ErrGetEligibilityQueryIsNotConstructed)
}

// GetEligibilityQueryResponse pairs the decision with the route progress the
// presentation layer shows next to it.
type GetEligibilityQueryResponse struct {
	Eligibility services.ActionEligibility
	Progress    services.RouteProgress
}
