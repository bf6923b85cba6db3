// Package redis_test provides unit tests for the Redis cache.
package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/energix/fulfillment-service/internal/core/cache"
	rediscache "github.com/energix/fulfillment-service/internal/infrastructure/cache/redis"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, cache.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client, err := rediscache.NewCache(rediscache.Config{
		Host:       mr.Host(),
		Port:       mr.Port(),
		DB:         0,
		DefaultTTL: time.Minute,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return mr, client
}

func TestNewCache_Success(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client, err := rediscache.NewCache(rediscache.Config{
		Host: mr.Host(),
		Port: mr.Port(),
	})

	assert.NoError(t, err)
	assert.NotNil(t, client)

	client.Close()
}

func TestNewCache_ConnectionRefused(t *testing.T) {
	_, err := rediscache.NewCache(rediscache.Config{
		Host: "127.0.0.1",
		Port: "1",
	})
	assert.Error(t, err)
}

func TestCache_SetAndGet(t *testing.T) {
	_, client := setupMiniredis(t)
	ctx := context.Background()

	err := client.Set(ctx, "turnlog:s1", []byte("payload"), time.Minute)
	assert.NoError(t, err)

	result, err := client.Get(ctx, "turnlog:s1")
	assert.NoError(t, err)
	assert.Equal(t, []byte("payload"), result)
}

func TestCache_GetNotFound(t *testing.T) {
	_, client := setupMiniredis(t)

	result, err := client.Get(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestCache_SetZeroTTLUsesDefault(t *testing.T) {
	mr, client := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k", []byte("v"), 0))
	assert.Greater(t, mr.TTL("k"), time.Duration(0))
}

func TestCache_Expiry(t *testing.T) {
	mr, client := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k", []byte("v"), time.Second))

	mr.FastForward(2 * time.Second)

	result, err := client.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestCache_Delete(t *testing.T) {
	_, client := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k", []byte("v"), time.Minute))

	deleted, err := client.Delete(ctx, "k")
	assert.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = client.Delete(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, deleted)
}

func TestCache_Ping(t *testing.T) {
	mr, client := setupMiniredis(t)

	assert.NoError(t, client.Ping(context.Background()))

	mr.Close()
	assert.Error(t, client.Ping(context.Background()))
}
