package services

import (
	"slices"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/transit"
)

// TransitRecordSynchronizer merges change batches into a local record list
// ordered newest first. It performs no I/O and never mutates its input, so a
// single goroutine can apply batches serially and tests can replay them.
//
// Example:
//
//	sync := services.NewTransitRecordSynchronizer()
//	records = sync.Apply(records, batch)
//	records = sync.ReplaceMovements(records, fetched)
type TransitRecordSynchronizer struct{}

func NewTransitRecordSynchronizer() TransitRecordSynchronizer {
	return TransitRecordSynchronizer{}
}

// Apply processes batch in order and returns the new collection.
//
// Rules:
//   - Added: skipped when the key is present; otherwise staged. Staged records
//     are prepended once, as a group, in batch order.
//   - Modified: replaces the record in place; an unknown key is treated as Added.
//     Movements already held locally are kept, since they sync on their own.
//   - Removed: drops the key when present; otherwise a no-op.
//
// Applying the same batch twice yields the same collection as applying it once.
func (TransitRecordSynchronizer) Apply(current []*transit.Record, batch []transit.RecordChange) []*transit.Record {
	existing := slices.Clone(current)
	staged := make([]*transit.Record, 0, len(batch))

	for _, change := range batch {
		switch change.Type {
		case transit.Added:
			if indexOf(existing, change.Key) >= 0 || indexOf(staged, change.Key) >= 0 || change.Record == nil {
				continue
			}
			staged = append(staged, change.Record)

		case transit.Modified:
			if change.Record == nil {
				continue
			}
			if i := indexOf(existing, change.Key); i >= 0 {
				existing[i] = keepMovements(existing[i], change.Record)
				continue
			}
			if i := indexOf(staged, change.Key); i >= 0 {
				staged[i] = keepMovements(staged[i], change.Record)
				continue
			}
			staged = append(staged, change.Record)

		case transit.Removed:
			if i := indexOf(existing, change.Key); i >= 0 {
				existing = slices.Delete(existing, i, i+1)
			} else if i = indexOf(staged, change.Key); i >= 0 {
				staged = slices.Delete(staged, i, i+1)
			}
		}
	}

	return append(staged, existing...)
}

// ReplaceMovements swaps the movement list of the record keyed by change.MoverID
// for change.Movements sorted ascending. Unknown keys leave the collection as is.
func (TransitRecordSynchronizer) ReplaceMovements(
	current []*transit.Record,
	change transit.MovementsChange,
) []*transit.Record {
	i := indexOf(current, change.MoverID)
	if i < 0 {
		return current
	}

	next := slices.Clone(current)
	next[i] = current[i].WithMovements(change.Movements)
	return next
}

func indexOf(records []*transit.Record, key kernel.UUID) int {
	return slices.IndexFunc(records, func(r *transit.Record) bool {
		return r.Key().IsEqual(key)
	})
}

func keepMovements(previous, incoming *transit.Record) *transit.Record {
	if len(incoming.Movements()) == 0 && len(previous.Movements()) > 0 {
		return incoming.WithMovements(previous.Movements())
	}
	return incoming
}
