package transit

import (
	"fmt"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/pkg/errs"
)

// ChangeType tags an item of a change batch.
type ChangeType int

const (
	Added ChangeType = iota + 1
	Modified
	Removed
)

func (c ChangeType) String() string {
	switch c {
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// ParseChangeType is the inverse of String.
func ParseChangeType(s string) (ChangeType, error) {
	switch s {
	case "added":
		return Added, nil
	case "modified":
		return Modified, nil
	case "removed":
		return Removed, nil
	default:
		return 0, errs.NewValueIsInvalidErrorWithCause("change type", fmt.Errorf("%q is not a valid change type", s))
	}
}

// RecordChange is one item of a transit record change batch. Record is the
// payload snapshot and may be nil for Removed.
type RecordChange struct {
	Type   ChangeType
	Key    kernel.UUID
	Record *Record
}

// MovementsChange carries the full movement list of one record, as returned by
// a completed movements fetch.
type MovementsChange struct {
	PackageID kernel.UUID
	MoverID   kernel.UUID
	Movements []Movement
}
