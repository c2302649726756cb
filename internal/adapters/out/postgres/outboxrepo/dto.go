// Package outboxrepo stores change feed messages until the outbox relay job
// has handed them to the publisher.
package outboxrepo

import (
	"time"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/ports"

	"github.com/google/uuid"
)

// MessageDTO is one outbox row. Seq is assigned by the database and keeps
// messages of the same transaction in insertion order.
type MessageDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Seq         int64      `gorm:"type:bigserial;<-:false"`
	Topic       string     `gorm:"type:varchar(64);not null"`
	Payload     []byte     `gorm:"type:jsonb;not null"`
	OccurredAt  time.Time  `gorm:"not null;index"`
	PublishedAt *time.Time `gorm:"index"`
}

func (MessageDTO) TableName() string {
	return "outbox"
}

// FromMessage maps a message to its row.
func FromMessage(m ports.OutboxMessage) MessageDTO {
	return MessageDTO{
		ID:         m.ID.Bytes(),
		Topic:      m.Topic,
		Payload:    m.Payload,
		OccurredAt: m.OccurredAt,
	}
}

func toMessage(dto MessageDTO) (ports.OutboxMessage, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.OutboxMessage{}, err
	}
	return ports.OutboxMessage{
		ID:         id,
		Topic:      dto.Topic,
		Payload:    dto.Payload,
		OccurredAt: dto.OccurredAt,
	}, nil
}
