// Package services provides the relay's domain services: pure computations and
// workflows that span the Package aggregate, its transit records and movers.
//
// The package includes:
//   - EvaluateEligibility: the decision table telling a user what they may do with a package right now
//   - CalculateRouteProgress and DistanceMoved: progress of a package along its route
//   - TransitRecordSynchronizer: a pure reducer merging change batches into an ordered record list
//   - RelayCoordinator: pickup, dropoff and movement workflows across package and records
//   - RewardCalculator: credits earned for a custody interval
//   - Markers: tagged map markers for the rendering layer
package services
