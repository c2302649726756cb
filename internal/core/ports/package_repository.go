// Package ports defines the contracts between the relay core and its adapters:
// persistence, the location provider, the remote relay gateway, the in-flight
// guard and the change publisher.
package ports

import (
	"context"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/parcel"
)

// PackageRepository defines the persistence contract for package aggregates.
type PackageRepository interface {
	// Add persists a new package.
	Add(ctx context.Context, aggregate *parcel.Package) error

	// Update persists changes to an existing package. The write only succeeds
	// when the stored version still equals aggregate.Version(); otherwise it
	// returns an error wrapping errs.ErrVersionIsInvalid. This is what makes
	// concurrent pickups mutually exclusive.
	Update(ctx context.Context, aggregate *parcel.Package) error

	// Get returns errs.ErrObjectNotFound for unknown ids.
	Get(ctx context.Context, id kernel.UUID) (*parcel.Package, error)
}
