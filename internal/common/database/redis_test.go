package database

import (
	"context"
	"testing"
	"time"

	"application-relay/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedis_RequiresAddress(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{})
	assert.Error(t, err)
}

func TestRedisClient_IncrWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx))

	for want := int64(1); want <= 3; want++ {
		got, err := client.IncrWindow(ctx, "ratelimit:10.0.0.1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	ttl, err := client.TTL(ctx, "ratelimit:10.0.0.1")
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	mr.FastForward(2 * time.Minute)

	got, err := client.IncrWindow(ctx, "ratelimit:10.0.0.1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestRedisClient_IncrWindowRearmsMissingExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, mr.Set("ratelimit:10.0.0.2", "20"))

	got, err := client.IncrWindow(ctx, "ratelimit:10.0.0.2", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(21), got)

	ttl, err := client.TTL(ctx, "ratelimit:10.0.0.2")
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	mr.FastForward(10 * time.Minute)

	got, err = client.IncrWindow(ctx, "ratelimit:10.0.0.2", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestRedisClient_IncrWindowKeepsRunningExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	_, err = client.IncrWindow(ctx, "k", time.Minute)
	require.NoError(t, err)

	mr.FastForward(40 * time.Second)
	_, err = client.IncrWindow(ctx, "k", time.Minute)
	require.NoError(t, err)

	// the second hit must not extend the window
	ttl, err := client.TTL(ctx, "k")
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, 20*time.Second)
}

func TestRedisClient_IncrWindowTransaction(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := NewRedisFromClient(db)

	mock.ExpectTxPipeline()
	mock.ExpectIncr("k").SetVal(3)
	mock.ExpectExpireNX("k", time.Minute).SetVal(false)
	mock.ExpectTxPipelineExec()

	count, err := client.IncrWindow(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisClient_IncrWindowUnavailable(t *testing.T) {
	client := NewRedisFromClient(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	}))
	defer client.Close()

	_, err := client.IncrWindow(context.Background(), "k", time.Minute)
	assert.ErrorContains(t, err, "redis window update failed")
}

func TestRedisClient_PingFailure(t *testing.T) {
	client := NewRedisFromClient(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	}))
	defer client.Close()

	assert.ErrorContains(t, client.Ping(context.Background()), "redis ping failed")
}
