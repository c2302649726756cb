package services

import (
	"relay/internal/core/domain/model/mover"

	"github.com/shopspring/decimal"
)

const (
	// metersPerCredit is the distance that earns one credit.
	metersPerCredit = 1000

	creditPlaces = 2
)

// DeliveryBonus is credited on top of the distance reward when a dropoff delivers.
var DeliveryBonus = decimal.NewFromInt(10)

// Reward is the summary returned to the mover after a pickup or dropoff.
// DeliveryBonus is nil unless the package was delivered.
type Reward struct {
	Delivered     bool
	CreditsEarned decimal.Decimal
	DeliveryBonus *decimal.Decimal
	NewBalance    decimal.Decimal
}

// RewardCalculator credits movers for the distance they relayed a package.
type RewardCalculator struct{}

func NewRewardCalculator() RewardCalculator {
	return RewardCalculator{}
}

// Credits converts a signed distance in meters to credits, two decimals.
func (RewardCalculator) Credits(distanceMoved float64) decimal.Decimal {
	return decimal.NewFromFloat(distanceMoved).
		Div(decimal.NewFromInt(metersPerCredit)).
		Round(creditPlaces)
}

// Dropoff credits m and returns the summary. A negative distance yields
// negative credits.
func (c RewardCalculator) Dropoff(m *mover.Mover, distanceMoved float64, delivered bool) Reward {
	credits := c.Credits(distanceMoved)
	total := credits

	var bonus *decimal.Decimal
	if delivered {
		b := DeliveryBonus
		bonus = &b
		total = total.Add(b)
	}

	return Reward{
		Delivered:     delivered,
		CreditsEarned: credits,
		DeliveryBonus: bonus,
		NewBalance:    m.Credit(total),
	}
}

// Pickup returns a zero-credit receipt with the current balance.
func (RewardCalculator) Pickup(m *mover.Mover) Reward {
	return Reward{
		CreditsEarned: decimal.Zero,
		NewBalance:    m.Balance(),
	}
}
