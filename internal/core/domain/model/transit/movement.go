package transit

import (
	"errors"
	"slices"
	"time"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/pkg/errs"
)

// Movement is an immutable location sample taken while a mover holds a package.
type Movement struct {
	date  time.Time
	point kernel.GeoPoint
}

// NewMovement validates that both the timestamp and the point are present.
func NewMovement(date time.Time, point kernel.GeoPoint) (Movement, error) {
	var dateErr error
	if date.IsZero() {
		dateErr = errs.NewValueIsRequiredError("movement date")
	}
	if err := errors.Join(dateErr, point.Validate()); err != nil {
		return Movement{}, err
	}
	return Movement{date: date, point: point}, nil
}

func (m Movement) Date() time.Time {
	return m.date
}

func (m Movement) Point() kernel.GeoPoint {
	return m.point
}

// SortMovements returns a copy ordered by timestamp ascending. Equal timestamps
// keep their arrival order.
func SortMovements(movements []Movement) []Movement {
	sorted := slices.Clone(movements)
	slices.SortStableFunc(sorted, func(a, b Movement) int {
		return a.date.Compare(b.date)
	})
	return sorted
}
