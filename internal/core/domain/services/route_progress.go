package services

import (
	"errors"
	"time"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/parcel"
	"relay/internal/core/domain/model/transit"
)

// ErrRecordIsNotClosed is returned by DistanceMoved for an open or partial record.
var ErrRecordIsNotClosed = errors.New("transit record has no pickup and dropoff points")

// RouteProgress describes where a package stands on its way. Distances are in
// meters. TimeRemaining is negative once the due date has passed.
type RouteProgress struct {
	TotalDistance float64
	Remaining     float64
	Percent       float64
	TimeRemaining time.Duration
}

// IsPastDue reports whether the due date has passed.
func (p RouteProgress) IsPastDue() bool {
	return p.TimeRemaining < 0
}

// CalculateRouteProgress measures pkg against now.
func CalculateRouteProgress(pkg *parcel.Package, now time.Time) RouteProgress {
	return ComputeRouteProgress(
		pkg.Origin(), pkg.Destination(), pkg.CurrentLocation(),
		pkg.Status(), pkg.DueDate(), now,
	)
}

// ComputeRouteProgress is the pure form of CalculateRouteProgress. Percent is
// exactly 1 for delivered packages and otherwise clamped into [0, 1]; a zero
// length route reports 0.
func ComputeRouteProgress(
	origin, destination, current kernel.GeoPoint,
	status parcel.Status,
	dueDate, now time.Time,
) RouteProgress {
	total := origin.DistanceTo(destination)
	remaining := current.DistanceTo(destination)

	var percent float64
	switch {
	case status == parcel.Delivered:
		percent = 1
	case total == 0:
		percent = 0
	default:
		percent = clamp((total-remaining)/total, 0, 1)
	}

	return RouteProgress{
		TotalDistance: total,
		Remaining:     remaining,
		Percent:       percent,
		TimeRemaining: dueDate.Sub(now),
	}
}

// DistanceMoved is how much closer to destination a closed record brought the
// package. It is negative when the mover carried it further away; callers must
// not clamp it.
func DistanceMoved(destination kernel.GeoPoint, record *transit.Record) (float64, error) {
	if record.PickupPoint() == nil || record.DropoffPoint() == nil || record.IsOpen() {
		return 0, ErrRecordIsNotClosed
	}
	return destination.DistanceTo(*record.PickupPoint()) - destination.DistanceTo(*record.DropoffPoint()), nil
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
