package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemory_SetGet(t *testing.T) {
	c := NewMemory(time.Minute, time.Hour)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "settings:system", payload{Name: "shop", Count: 2}, 0))

	var got payload
	found, err := c.Get(ctx, "settings:system", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, payload{Name: "shop", Count: 2}, got)
}

func TestMemory_Expiry(t *testing.T) {
	c := NewMemory(time.Minute, time.Hour)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", payload{Name: "x"}, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	var got payload
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemory_DeleteByPrefix(t *testing.T) {
	c := NewMemory(time.Minute, time.Hour)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "settings:system", 1, 0))
	require.NoError(t, c.Set(ctx, "settings:email", 2, 0))
	require.NoError(t, c.Set(ctx, "other", 3, 0))

	require.NoError(t, c.DeleteByPrefix(ctx, "settings:"))
	assert.Equal(t, 1, c.Size())

	require.NoError(t, c.Delete(ctx, "other"))
	assert.Equal(t, 0, c.Size())
}

func TestMemory_Sweeper(t *testing.T) {
	c := NewMemory(time.Millisecond, 5*time.Millisecond)
	defer c.Close()

	require.NoError(t, c.Set(context.Background(), "k", 1, 0))
	assert.Eventually(t, func() bool { return c.Size() == 0 }, time.Second, 5*time.Millisecond)
}

// Runs only when a Redis instance is available.
func TestRedis_RoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx := context.Background()
	c := NewRedis(client, "test:crm:", time.Minute)
	require.NoError(t, c.DeleteByPrefix(ctx, ""))

	require.NoError(t, c.Set(ctx, "settings:system", payload{Name: "shop"}, 0))
	var got payload
	found, err := c.Get(ctx, "settings:system", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "shop", got.Name)

	require.NoError(t, c.DeleteByPrefix(ctx, "settings:"))
	found, err = c.Get(ctx, "settings:system", &got)
	require.NoError(t, err)
	assert.False(t, found)
}
