package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"boardshelf/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requires a running Redis; set REDIS_ADDR to enable.
func TestGameCacheRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()
	client, err := Connect(ctx, addr, 0)
	require.NoError(t, err)
	defer client.Close()

	c := NewGameCache(client, time.Minute)
	id := "cache-test-" + time.Now().Format("150405.000000")
	defer c.Invalidate(ctx, id)

	got, err := c.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got, "expected a miss before Set")

	require.NoError(t, c.Set(ctx, &models.Game{GameID: id, GameName: "Azul", MinPlayers: 2, MaxPlayers: 4}))

	got, err = c.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Azul", got.GameName)
	assert.Equal(t, 4, got.MaxPlayers)

	require.NoError(t, c.Invalidate(ctx, id))
	got, err = c.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)
}
