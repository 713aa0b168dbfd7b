package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryWarehouseCache(t *testing.T) {
	ctx := context.Background()

	t.Run("miss before add, hit after", func(t *testing.T) {
		c := NewInMemoryWarehouseCache(time.Hour)
		defer c.Close()

		known, err := c.Contains(ctx, "Norte Sur SA", "Depósito Central - NS")
		require.NoError(t, err)
		assert.False(t, known)

		require.NoError(t, c.Add(ctx, "Norte Sur SA", "Depósito Central - NS"))

		known, err = c.Contains(ctx, "Norte Sur SA", "Depósito Central - NS")
		require.NoError(t, err)
		assert.True(t, known)
	})

	t.Run("entries are scoped per company", func(t *testing.T) {
		c := NewInMemoryWarehouseCache(time.Hour)
		defer c.Close()

		require.NoError(t, c.Add(ctx, "Norte Sur SA", "Depósito Central - NS"))

		known, err := c.Contains(ctx, "Otra SA", "Depósito Central - NS")
		require.NoError(t, err)
		assert.False(t, known)
	})

	t.Run("expired entries read as misses", func(t *testing.T) {
		c := NewInMemoryWarehouseCache(time.Millisecond)
		defer c.Close()

		require.NoError(t, c.Add(ctx, "Norte Sur SA", "Depósito Central - NS"))
		time.Sleep(5 * time.Millisecond)

		known, err := c.Contains(ctx, "Norte Sur SA", "Depósito Central - NS")
		require.NoError(t, err)
		assert.False(t, known)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		c := NewInMemoryWarehouseCache(time.Hour)
		assert.NoError(t, c.Close())
		assert.NoError(t, c.Close())
	})
}
