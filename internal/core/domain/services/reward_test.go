package services_test

import (
	"testing"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/mover"
	"relay/internal/core/domain/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewardCalculator(t *testing.T) {
	calc := services.NewRewardCalculator()

	t.Run("credits per kilometre", func(t *testing.T) {
		assert.Equal(t, "4.92", calc.Credits(4920).StringFixed(2))
		assert.Equal(t, "1.23", calc.Credits(1234.4).StringFixed(2))
		assert.Equal(t, "-1.50", calc.Credits(-1500).StringFixed(2))
	})

	t.Run("dropoff away", func(t *testing.T) {
		m, err := mover.RestoreMover(kernel.NewUUID(), "Carol", decimal.NewFromInt(3))
		require.NoError(t, err)

		reward := calc.Dropoff(m, 2000, false)

		assert.False(t, reward.Delivered)
		assert.Nil(t, reward.DeliveryBonus)
		assert.Equal(t, "2.00", reward.CreditsEarned.StringFixed(2))
		assert.Equal(t, "5.00", reward.NewBalance.StringFixed(2))
		assert.True(t, m.Balance().Equal(reward.NewBalance))
	})

	t.Run("delivery adds bonus", func(t *testing.T) {
		m, err := mover.NewMover(kernel.NewUUID(), "Carol")
		require.NoError(t, err)

		reward := calc.Dropoff(m, 4920, true)

		assert.True(t, reward.Delivered)
		require.NotNil(t, reward.DeliveryBonus)
		assert.True(t, reward.DeliveryBonus.Equal(services.DeliveryBonus))
		assert.Equal(t, "14.92", reward.NewBalance.StringFixed(2))
	})

	t.Run("moving away costs credits", func(t *testing.T) {
		m, err := mover.NewMover(kernel.NewUUID(), "Carol")
		require.NoError(t, err)

		reward := calc.Dropoff(m, -1500, false)

		assert.Equal(t, "-1.50", reward.NewBalance.StringFixed(2))
	})

	t.Run("pickup receipt", func(t *testing.T) {
		m, err := mover.RestoreMover(kernel.NewUUID(), "Carol", decimal.NewFromInt(7))
		require.NoError(t, err)

		reward := calc.Pickup(m)

		assert.True(t, reward.CreditsEarned.IsZero())
		assert.Equal(t, "7.00", reward.NewBalance.StringFixed(2))
	})
}
