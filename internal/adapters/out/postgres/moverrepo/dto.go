// Package moverrepo maps mover aggregates to the movers table.
package moverrepo

import (
	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/mover"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MoverDTO struct {
	ID      uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name    string          `gorm:"type:varchar(255);not null"`
	Balance decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
}

func (MoverDTO) TableName() string {
	return "movers"
}

func fromDomain(m *mover.Mover) MoverDTO {
	return MoverDTO{
		ID:      m.ID().Bytes(),
		Name:    m.Name(),
		Balance: m.Balance(),
	}
}

func toDomain(dto MoverDTO) (*mover.Mover, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	return mover.RestoreMover(id, dto.Name, dto.Balance)
}
