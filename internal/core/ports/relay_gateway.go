package ports

import (
	"context"
	"errors"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/services"
)

// ErrTransitionRejected wraps a store rejection of a pickup or dropoff. The
// message is meant for the user.
var ErrTransitionRejected = errors.New("transition rejected")

// RelayGateway asks the remote store to perform a transition on behalf of the
// authenticated user.
type RelayGateway interface {
	RequestPickup(ctx context.Context, packageID kernel.UUID, location kernel.GeoPoint) (services.Reward, error)
	RequestDropoff(ctx context.Context, packageID kernel.UUID, location kernel.GeoPoint) (services.Reward, error)
}

// InFlightGuard ensures at most one outstanding transition request per
// package and user across server instances.
type InFlightGuard interface {
	// Acquire returns acquired=false when another request holds the slot.
	// release must be called once the request completes.
	Acquire(ctx context.Context, packageID, userID kernel.UUID) (release func(), acquired bool, err error)
}
