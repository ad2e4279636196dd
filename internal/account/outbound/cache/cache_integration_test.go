//go:build integration

package cache

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/shandysiswandi/formgate/internal/account/entity"
	"github.com/shandysiswandi/formgate/internal/pkg/goerror"
	"github.com/shandysiswandi/formgate/internal/pkg/instrument"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	ctx := context.Background()

	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	host, err := ctr.Host(ctx)
	require.NoError(t, err)
	port, err := ctr.MappedPort(ctx, nat.Port("6379/tcp"))
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: net.JoinHostPort(host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })

	return NewCache(client, instrument.NewNoop())
}

func TestCache_Throttle(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	ok, err := c.Throttle(ctx, "taro@example.com", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Throttle(ctx, "taro@example.com", time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.Throttle(ctx, "jiro@example.com", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Eventually(t, func() bool {
		ok, err := c.Throttle(ctx, "taro@example.com", time.Second)
		return err == nil && ok
	}, 5*time.Second, 100*time.Millisecond)
}

func TestCache_AuthKey(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	expiresAt := time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC)

	_, err := c.GetAuthKey(ctx, "taro@example.com")
	assert.ErrorIs(t, err, goerror.ErrNotFound)

	require.NoError(t, c.SaveAuthKey(ctx, "taro@example.com", entity.AuthKey{Key: "AbCd1234", ExpiresAt: expiresAt}, time.Minute))

	key, err := c.GetAuthKey(ctx, "taro@example.com")
	require.NoError(t, err)
	assert.Equal(t, "AbCd1234", key.Key)
	assert.True(t, key.ExpiresAt.Equal(expiresAt))

	require.NoError(t, c.DeleteAuthKey(ctx, "taro@example.com"))
	_, err = c.GetAuthKey(ctx, "taro@example.com")
	assert.ErrorIs(t, err, goerror.ErrNotFound)
}
