package ports

import (
	"context"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/transit"
)

// TransitRecordRepository persists transit records and their movements.
type TransitRecordRepository interface {
	// Add persists a newly opened record. A second record for the same
	// package and mover is rejected by the store.
	Add(ctx context.Context, record *transit.Record) error

	// Update persists the dropoff fields and any movements not stored yet.
	Update(ctx context.Context, record *transit.Record) error

	// GetAllByPackage returns every record of a package, newest pickup first,
	// each with its movements sorted ascending.
	GetAllByPackage(ctx context.Context, packageID kernel.UUID) ([]*transit.Record, error)
}
