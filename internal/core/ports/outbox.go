package ports

import (
	"context"
	"time"

	"relay/internal/core/domain/model/kernel"
)

// Change feed topics.
const (
	TopicPackageChanged        = "package.changed"
	TopicTransitRecordsChanged = "transit_records.changed"
	TopicMovementsChanged      = "movements.changed"
)

// OutboxMessage is a change document written in the same transaction as the
// aggregates it describes.
type OutboxMessage struct {
	ID         kernel.UUID
	Topic      string
	Payload    []byte
	OccurredAt time.Time
}

// OutboxRepository reads and acknowledges pending outbox messages.
type OutboxRepository interface {
	// GetUnpublished returns up to limit messages, oldest first.
	GetUnpublished(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkPublished(ctx context.Context, ids []kernel.UUID, at time.Time) error

	// DeletePublishedBefore purges messages published before cutoff.
	DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ChangePublisher delivers a message body to a topic of the change feed.
type ChangePublisher interface {
	Publish(ctx context.Context, topic string, body []byte) error
}
