package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (CacheClient, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := NewCacheClient(Options{Address: server.Addr()})
	t.Cleanup(func() {
		client.Close()
	})
	return client, server
}

func TestDeploymentLock(t *testing.T) {
	ctx := context.Background()

	t.Run("second holder is rejected", func(t *testing.T) {
		client, _ := newTestClient(t)

		require.NoError(t, client.AcquireDeploymentLock(ctx, "holder-a", "hello", time.Minute))
		err := client.AcquireDeploymentLock(ctx, "holder-b", "hello", time.Minute)
		assert.ErrorIs(t, err, ErrLockHeld)

		holder, err := client.DeploymentLockHolder(ctx, "hello")
		require.NoError(t, err)
		assert.Equal(t, "holder-a", holder)
	})

	t.Run("distinct functions do not contend", func(t *testing.T) {
		client, _ := newTestClient(t)

		require.NoError(t, client.AcquireDeploymentLock(ctx, "holder-a", "hello", time.Minute))
		require.NoError(t, client.AcquireDeploymentLock(ctx, "holder-b", "world", time.Minute))
	})

	t.Run("release only by owner", func(t *testing.T) {
		client, _ := newTestClient(t)

		require.NoError(t, client.AcquireDeploymentLock(ctx, "holder-a", "hello", time.Minute))
		assert.Error(t, client.ReleaseDeploymentLock(ctx, "holder-b", "hello"))
		require.NoError(t, client.ReleaseDeploymentLock(ctx, "holder-a", "hello"))

		holder, err := client.DeploymentLockHolder(ctx, "hello")
		require.NoError(t, err)
		assert.Empty(t, holder)

		require.NoError(t, client.AcquireDeploymentLock(ctx, "holder-b", "hello", time.Minute))
	})

	t.Run("lock expires", func(t *testing.T) {
		client, server := newTestClient(t)

		require.NoError(t, client.AcquireDeploymentLock(ctx, "holder-a", "hello", time.Minute))
		server.FastForward(2 * time.Minute)
		require.NoError(t, client.AcquireDeploymentLock(ctx, "holder-b", "hello", time.Minute))
	})
}
