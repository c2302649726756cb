package kernel_test

import (
	"testing"

	"relay/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIdentity(t *testing.T) {
	t.Run("requires display name", func(t *testing.T) {
		_, err := kernel.NewIdentity("  ", "", "a@b.c", "")

		assert.ErrorIs(t, err, kernel.ErrDisplayNameIsRequired)
	})

	t.Run("recipient without contact channel is valid", func(t *testing.T) {
		id, err := kernel.NewIdentity("Ada", "", "", "")

		require.NoError(t, err)
		assert.NoError(t, id.Validate())
		assert.Equal(t, "Ada", id.DisplayName())
		assert.Nil(t, id.Email())
		assert.Nil(t, id.Phone())
		assert.Nil(t, id.PhotoURL())
		assert.False(t, id.HasContactChannel())
	})

	t.Run("keeps optional fields", func(t *testing.T) {
		id, err := kernel.NewIdentity("Ada", "https://img/ada.png", " ada@example.com ", "+4930123")

		require.NoError(t, err)
		require.NotNil(t, id.Email())
		assert.Equal(t, "ada@example.com", *id.Email())
		assert.Equal(t, "+4930123", *id.Phone())
		assert.Equal(t, "https://img/ada.png", *id.PhotoURL())
		assert.True(t, id.HasContactChannel())
	})
}
