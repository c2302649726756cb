// Package queries contains the relay's read operations. Queries never open a
// transaction: repositories obtained from a fresh unit of work read straight
// from the database.
package queries

import "relay/internal/core/ports"

type (
	// ReadUoW exposes the repositories a package view is assembled from.
	ReadUoW interface {
		PackageRepository() ports.PackageRepository
		TransitRecordRepository() ports.TransitRecordRepository
	}

	ReadUoWFactory interface {
		Create() ReadUoW
	}
)
