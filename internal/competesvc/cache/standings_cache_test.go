package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/avvvet/arena-services/internal/competesvc/models"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("redis container unavailable: %v", err)
	}
	t.Cleanup(func() { container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client, err := Connect(ctx, endpoint, "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestStandingsCache_RoundTrip(t *testing.T) {
	client := startRedis(t)
	c := NewStandingsCache(client)
	ctx := context.Background()

	_, version, ok := c.Get(ctx, 1)
	assert.False(t, ok)
	assert.Equal(t, int64(0), version)

	rows := []models.StandingRow{
		{UserID: 4, Name: "A", Wins: 2, TotalPoints: decimal.RequireFromString("6.50")},
	}
	c.Set(ctx, 1, version, rows)

	got, _, ok := c.Get(ctx, 1)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, int64(4), got[0].UserID)
	assert.True(t, got[0].TotalPoints.Equal(decimal.RequireFromString("6.5")))

	ttl, err := client.TTL(ctx, "standings:1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	c.Invalidate(ctx, 1)
	_, version, ok = c.Get(ctx, 1)
	assert.False(t, ok)
	assert.Equal(t, int64(1), version)
}

func TestStandingsCache_SetAfterInvalidateIsDropped(t *testing.T) {
	client := startRedis(t)
	c := NewStandingsCache(client)
	ctx := context.Background()

	_, version, ok := c.Get(ctx, 3)
	require.False(t, ok)

	// a match lands between the read and the write
	c.Invalidate(ctx, 3)
	c.Set(ctx, 3, version, []models.StandingRow{{UserID: 1}})

	_, current, ok := c.Get(ctx, 3)
	assert.False(t, ok)

	fresh := []models.StandingRow{{UserID: 1, Wins: 1}}
	c.Set(ctx, 3, current, fresh)
	got, _, ok := c.Get(ctx, 3)
	require.True(t, ok)
	assert.Equal(t, 1, got[0].Wins)
}

func TestStandingsCache_EmptyStandingsAreCached(t *testing.T) {
	client := startRedis(t)
	c := NewStandingsCache(client)
	ctx := context.Background()

	c.Set(ctx, 2, 0, []models.StandingRow{})
	got, _, ok := c.Get(ctx, 2)
	require.True(t, ok)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStandingsCache_UnreachableIsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	c := NewStandingsCache(client)
	ctx := context.Background()

	assert.NotPanics(t, func() {
		c.Set(ctx, 1, 0, []models.StandingRow{{UserID: 1}})
		c.Invalidate(ctx, 1)
	})
	_, version, ok := c.Get(ctx, 1)
	assert.False(t, ok)
	assert.Equal(t, int64(-1), version)
}

func TestOptions(t *testing.T) {
	opts, err := Options("localhost:6379", "secret", 2)
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)

	opts, err = Options("redis://:fromurl@cache.internal:6380/4", "secret", 2)
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, "fromurl", opts.Password)
	assert.Equal(t, 4, opts.DB)

	opts, err = Options("redis://cache.internal:6379", "secret", 2)
	require.NoError(t, err)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)

	_, err = Options("redis://cache.internal:6379/notadb", "", 0)
	assert.Error(t, err)
}

func TestConnect_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := Connect(ctx, "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}
