package transitrepo

import (
	"context"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/transit"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTransitRecordRepository implements ports.TransitRecordRepository using GORM.
type GormTransitRecordRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormTransitRecordRepository(db *gorm.DB, tracker aggregateTracker) *GormTransitRecordRepository {
	return &GormTransitRecordRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a freshly opened record. The composite primary key rejects a
// second record for the same package and mover.
func (r *GormTransitRecordRepository) Add(ctx context.Context, record *transit.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(record.Key(), transit.RecordChange{Type: transit.Added, Key: record.Key(), Record: record})
	return nil
}

// Update writes the dropoff columns and appends movements that are not stored
// yet. Stored movements are never rewritten.
func (r *GormTransitRecordRepository) Update(ctx context.Context, record *transit.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&TransitRecordDTO{}).
			Where("package_id = ? AND mover_id = ?", dto.PackageID, dto.MoverID).
			Select("dropoff_lat", "dropoff_lon", "dropoff_date").
			Updates(&dto)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if len(dto.Movements) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&dto.Movements).Error
	})
	if err != nil {
		return err
	}

	r.tracker.TrackAggregate(record.Key(), transit.RecordChange{Type: transit.Modified, Key: record.Key(), Record: record})
	return nil
}

// GetAllByPackage returns the package's records, most recent pickup first.
func (r *GormTransitRecordRepository) GetAllByPackage(ctx context.Context, packageID kernel.UUID) ([]*transit.Record, error) {
	if err := packageID.Validate(); err != nil {
		return nil, err
	}

	var dtos []TransitRecordDTO
	if err := r.db.WithContext(ctx).
		Preload("Movements", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		}).
		Where("package_id = ?", packageID.Bytes()).
		Order("pickup_date DESC NULLS LAST").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	records := make([]*transit.Record, 0, len(dtos))
	for _, dto := range dtos {
		record, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}
