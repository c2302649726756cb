package ports

import (
	"context"
	"time"

	"relay/internal/core/domain/model/kernel"
)

// LocationFix is one observation from a location provider. Err is set when the
// provider failed; consumers treat an error like having no location at all.
type LocationFix struct {
	Point kernel.GeoPoint
	At    time.Time
	Err   error
}

// LocationSource streams device locations. Each package-detail session owns
// its own source, starting it when the session starts and stopping it when the
// session stops.
type LocationSource interface {
	// Start begins delivering fixes to sink until ctx is done or Stop is called.
	Start(ctx context.Context, sink func(LocationFix)) error
	Stop()
}
