// Package mover holds the Mover aggregate: a volunteer who carries packages and
// earns credits for the distance they bring them closer to their destination.
package mover

import (
	"errors"
	"strings"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// DefaultName is used for movers first seen through an authenticated request.
const DefaultName = "mover"

var ErrMoverIsNotConstructed = errors.New("Mover must be created via NewMover constructor")

// Mover tracks a volunteer's credit balance.
type Mover struct {
	id      kernel.UUID
	name    string
	balance decimal.Decimal

	isConstructed bool
}

// NewMover registers a mover with a zero balance.
func NewMover(id kernel.UUID, name string) (*Mover, error) {
	return RestoreMover(id, name, decimal.Zero)
}

// RestoreMover rebuilds a mover from storage.
func RestoreMover(id kernel.UUID, name string, balance decimal.Decimal) (*Mover, error) {
	m := &Mover{balance: balance, isConstructed: true}

	if err := errors.Join(m.setID(id), m.setName(name)); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Mover) Validate() error {
	if m == nil || !m.isConstructed {
		return ErrMoverIsNotConstructed
	}
	return nil
}

func (m *Mover) ID() kernel.UUID {
	return m.id
}

func (m *Mover) Name() string {
	return m.name
}

func (m *Mover) Balance() decimal.Decimal {
	return m.balance
}

// Credit adds amount to the balance. Negative amounts are allowed: a mover who
// carried a package away from its destination loses credits.
func (m *Mover) Credit(amount decimal.Decimal) decimal.Decimal {
	m.balance = m.balance.Add(amount)
	return m.balance
}

func (m *Mover) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	m.id = id
	return nil
}

func (m *Mover) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	m.name = name
	return nil
}
