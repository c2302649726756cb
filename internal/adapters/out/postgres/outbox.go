package postgres

import (
	"time"

	"relay/internal/adapters/out/feed"
	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/parcel"
	"relay/internal/core/domain/model/transit"
	"relay/internal/core/ports"
)

// outboxMessages turns tracked aggregates into change feed messages:
// one package.changed per package holding its latest state, one
// transit_records.changed per package batching its record changes, and one
// movements.changed per modified record that has movements. Movers are not
// published.
func outboxMessages(tracked []trackedAggregate, at time.Time) ([]ports.OutboxMessage, error) {
	var (
		packages      []*parcel.Package
		packageIndex  = make(map[kernel.UUID]int)
		recordBatches = make(map[kernel.UUID][]transit.RecordChange)
		batchOrder    []kernel.UUID
	)

	for _, t := range tracked {
		switch a := t.Aggregate.(type) {
		case *parcel.Package:
			if i, ok := packageIndex[a.ID()]; ok {
				packages[i] = a
				continue
			}
			packageIndex[a.ID()] = len(packages)
			packages = append(packages, a)
		case transit.RecordChange:
			packageID := a.Record.PackageID()
			if _, ok := recordBatches[packageID]; !ok {
				batchOrder = append(batchOrder, packageID)
			}
			recordBatches[packageID] = mergeChange(recordBatches[packageID], a)
		}
	}

	messages := make([]ports.OutboxMessage, 0, len(packages)+len(batchOrder))
	for _, p := range packages {
		body, err := feed.MarshalPackageChanged(p)
		if err != nil {
			return nil, err
		}
		messages = append(messages, newMessage(ports.TopicPackageChanged, body, at))
	}

	for _, packageID := range batchOrder {
		changes := recordBatches[packageID]
		body, err := feed.MarshalTransitRecordsChanged(packageID, changes)
		if err != nil {
			return nil, err
		}
		messages = append(messages, newMessage(ports.TopicTransitRecordsChanged, body, at))

		for _, c := range changes {
			if c.Type != transit.Modified || len(c.Record.Movements()) == 0 {
				continue
			}
			body, err = feed.MarshalMovementsChanged(c.Record)
			if err != nil {
				return nil, err
			}
			messages = append(messages, newMessage(ports.TopicMovementsChanged, body, at))
		}
	}

	return messages, nil
}

// mergeChange keeps one change per record key. A record added and then
// modified in the same transaction is still reported as added.
func mergeChange(batch []transit.RecordChange, c transit.RecordChange) []transit.RecordChange {
	for i := range batch {
		if batch[i].Key.IsEqual(c.Key) {
			batch[i].Record = c.Record
			return batch
		}
	}
	return append(batch, c)
}

func newMessage(topic string, body []byte, at time.Time) ports.OutboxMessage {
	return ports.OutboxMessage{
		ID:         kernel.NewUUID(),
		Topic:      topic,
		Payload:    body,
		OccurredAt: at,
	}
}
