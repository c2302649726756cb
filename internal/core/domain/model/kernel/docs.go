// Package kernel provides the value objects shared by every relay aggregate.
//
// The package includes:
//   - UUID: identifiers for packages and movers
//   - GeoPoint: a validated latitude/longitude pair and the great-circle math over it
//   - Identity: the display record of a sender, recipient or mover
//
// Values are immutable and safe for concurrent use. Zero values are invalid and
// fail Validate; use the constructors.
package kernel
