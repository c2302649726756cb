// Package parcel provides the Package aggregate: a social commitment object relayed
// hand-to-hand by volunteer movers from a sender to a recipient.
//
// The package includes:
//   - Package: the aggregate root holding status, locations, custody and parties
//   - Status: the lifecycle state machine
//
// Key business rules:
//   - A package is created pending at its origin
//   - Pickup moves a pending package into transit and records the holding mover
//   - Dropoff returns the package to pending at the dropoff point, or delivers it
//     when the dropoff point is within ActionableDistance of the destination
//   - inTransitBy is set if and only if the status is Transit
//   - Delivered is final
package parcel
