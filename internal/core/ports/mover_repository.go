package ports

import (
	"context"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/mover"
)

// MoverRepository persists mover balances.
type MoverRepository interface {
	// Add is a no-op when the mover already exists.
	Add(ctx context.Context, aggregate *mover.Mover) error
	Update(ctx context.Context, aggregate *mover.Mover) error

	// Get locks the mover for the rest of the transaction. It returns
	// errs.ErrObjectNotFound for movers never seen before.
	Get(ctx context.Context, id kernel.UUID) (*mover.Mover, error)
}
