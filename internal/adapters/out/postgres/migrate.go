package postgres

import (
	"relay/internal/adapters/out/postgres/moverrepo"
	"relay/internal/adapters/out/postgres/outboxrepo"
	"relay/internal/adapters/out/postgres/packagerepo"
	"relay/internal/adapters/out/postgres/transitrepo"

	"gorm.io/gorm"
)

// Tables lists every table owned by the relay, in truncation order.
var Tables = []string{"movements", "transit_records", "packages", "movers", "outbox"}

// Migrate creates or updates the relay schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&packagerepo.PackageDTO{},
		&transitrepo.TransitRecordDTO{},
		&transitrepo.MovementDTO{},
		&moverrepo.MoverDTO{},
		&outboxrepo.MessageDTO{},
	)
}
