package commands

import (
	"context"
	"errors"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/mover"
	"relay/internal/core/ports"
	"relay/internal/pkg/errs"
)

// loadOrRegisterMover returns the stored mover, registering it with a zero
// balance on first contact. The row is read back after the insert since a
// concurrent request may have registered and credited it first.
func loadOrRegisterMover(ctx context.Context, repo ports.MoverRepository, id kernel.UUID) (*mover.Mover, error) {
	m, err := repo.Get(ctx, id)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	m, err = mover.NewMover(id, mover.DefaultName)
	if err != nil {
		return nil, err
	}
	if err = repo.Add(ctx, m); err != nil {
		return nil, err
	}
	return repo.Get(ctx, id)
}
