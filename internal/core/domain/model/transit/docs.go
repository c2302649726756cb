// Package transit models custody of a package by one mover.
//
// A Record is keyed by the mover and spans a pickup and an optional dropoff; a
// record without a dropoff date is open, meaning its mover holds the package.
// Movements are location samples appended while the record is open.
// RecordChange and MovementsChange describe incremental updates delivered by
// the change feed.
package transit
