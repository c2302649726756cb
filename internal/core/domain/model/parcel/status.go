package parcel

import (
	"fmt"

	"relay/internal/pkg/errs"
)

// Status is the lifecycle state of a package.
//
// State transitions:
//
//	Pending ──PickUp──> Transit ──DropOff(near destination)──> Delivered
//	   ^                   │
//	   └──DropOff(away)────┘
type Status int

const (
	// Unknown catches uninitialised values.
	Unknown Status = iota

	// Pending packages wait at their current location for the next mover.
	Pending

	// Transit packages are held by exactly one mover.
	Transit

	// Delivered is final.
	Delivered
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Transit:   "transit",
		Delivered: "delivered",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "pending",
		Transit:   "transit",
		Delivered: "delivered",
	}
}

// ParseStatus maps the persisted name back to a Status.
//
// Example:
//
//	status, err := parcel.ParseStatus("transit") // parcel.Transit
func ParseStatus(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate accepts Pending, Transit and Delivered.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the persisted name; invalid values print as "unknown".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// ValidateCanHaveMover checks that a mover is assigned exactly when the status is Transit.
func (s Status) ValidateCanHaveMover(mover bool) error {
	if mover && s != Transit {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a mover", s.String()),
		)
	}

	if !mover && s == Transit {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no mover", s.String()),
		)
	}

	return nil
}

// PickUp transitions Pending to Transit.
func (s Status) PickUp() (Status, error) {
	if s != Pending {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to pick up", s.String()),
		)
	}

	return Transit, nil
}

// DropOff transitions Transit to Delivered when delivered is true, otherwise back to Pending.
func (s Status) DropOff(delivered bool) (Status, error) {
	if s != Transit {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to drop off", s.String()),
		)
	}

	if delivered {
		return Delivered, nil
	}
	return Pending, nil
}
