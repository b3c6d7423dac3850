package cache_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/providervault/ai-service/internal/adapters/cache"
	"github.com/providervault/ai-service/internal/domain/providers"
	redisclient "github.com/providervault/ai-service/internal/infrastructure/clients/redis"
	"github.com/providervault/ai-service/pkg/config"
)

func newRedisAdapter(t *testing.T) (providers.CacheProvider, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	client, err := redisclient.NewClient(context.Background(), &config.RedisConfig{Host: mr.Host(), Port: port})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return cache.NewRedisAdapter(client, "pv"), mr
}

func TestRedisAdapter_SetGet(t *testing.T) {
	adapter, mr := newRedisAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "stats", []byte(`{"total_providers":3}`), 60))

	got, err := adapter.Get(ctx, "stats")
	require.NoError(t, err)
	assert.JSONEq(t, `{"total_providers":3}`, string(got))
	assert.True(t, mr.Exists("pv:stats"))
	assert.Equal(t, 60*time.Second, mr.TTL("pv:stats"))
}

func TestRedisAdapter_MissAndExpiry(t *testing.T) {
	adapter, mr := newRedisAdapter(t)
	ctx := context.Background()

	_, err := adapter.Get(ctx, "absent")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)

	require.NoError(t, adapter.Set(ctx, "short", []byte("x"), 1))
	mr.FastForward(2 * time.Second)

	_, err = adapter.Get(ctx, "short")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}

func TestRedisAdapter_ExistsDelete(t *testing.T) {
	adapter, _ := newRedisAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "k", []byte("v"), 60))
	ok, err := adapter.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, adapter.Delete(ctx, "k"))
	ok, err = adapter.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
