package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/HumbledDS/dd-intelligence-assistant/internal/cache"
)

// setupRedis spins up a Redis container and returns a connected RedisCache.
func setupRedis(t *testing.T) *cache.RedisCache {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, container.Terminate(ctx)) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	rc, err := cache.NewRedisCache("redis://" + host + ":" + port.Port())
	require.NoError(t, err)
	t.Cleanup(func() { rc.Close() })

	return rc
}

func TestRedis_SetGetRoundtrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, rc.Set(ctx, "report:552032534:standard", []byte(`{"status":"completed"}`), time.Hour))

	val, ok, err := rc.Get(ctx, "report:552032534:standard")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`{"status":"completed"}`), val)
}

func TestRedis_MissingKey(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc := setupRedis(t)

	_, ok, err := rc.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_Expiry(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, rc.Set(ctx, "ephemeral", []byte("v"), time.Second))

	assert.Eventually(t, func() bool {
		_, ok, err := rc.Get(ctx, "ephemeral")
		return err == nil && !ok
	}, 5*time.Second, 200*time.Millisecond)
}

func TestRedis_Delete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, rc.Set(ctx, "k", []byte("v"), time.Hour))
	require.NoError(t, rc.Delete(ctx, "k"))

	_, ok, err := rc.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_IncrWithExpiry(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc := setupRedis(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := rc.IncrWithExpiry(ctx, "ratelimit:10.0.0.1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
