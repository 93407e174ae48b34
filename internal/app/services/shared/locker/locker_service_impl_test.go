package locker

import (
	"checkout-service/internal/app/contracts"
	redisRepository "checkout-service/internal/app/services/shared/redis"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupLocker(t *testing.T) (contracts.LockerService, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewLockService(redisRepository.NewRedisRepository(client), zap.NewNop()), mr
}

func TestLockService_TryLock(t *testing.T) {
	locker, mr := setupLocker(t)
	ctx := context.Background()

	acquired, lockValue, err := locker.TryLock(ctx, "checkout:lock:s1", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, acquired)
	assert.NotEmpty(t, lockValue)
	assert.Equal(t, 30*time.Second, mr.TTL("checkout:lock:s1"))

	acquired, second, err := locker.TryLock(ctx, "checkout:lock:s1", 30*time.Second)
	require.NoError(t, err)
	assert.False(t, acquired, "a held lock must not be acquired twice")
	assert.Empty(t, second)
}

func TestLockService_Unlock(t *testing.T) {
	t.Run("Owner Releases", func(t *testing.T) {
		locker, mr := setupLocker(t)
		ctx := context.Background()

		_, lockValue, err := locker.TryLock(ctx, "k", time.Minute)
		require.NoError(t, err)

		require.NoError(t, locker.Unlock(ctx, "k", lockValue))
		assert.False(t, mr.Exists("k"))
	})

	t.Run("Stranger Cannot Release", func(t *testing.T) {
		locker, mr := setupLocker(t)
		ctx := context.Background()

		_, _, err := locker.TryLock(ctx, "k", time.Minute)
		require.NoError(t, err)

		err = locker.Unlock(ctx, "k", "someone-else")
		assert.Error(t, err)
		assert.True(t, mr.Exists("k"))
	})

	t.Run("Expired Lock Is Not An Error", func(t *testing.T) {
		locker, mr := setupLocker(t)
		ctx := context.Background()

		_, lockValue, err := locker.TryLock(ctx, "k", time.Second)
		require.NoError(t, err)
		mr.FastForward(2 * time.Second)

		assert.NoError(t, locker.Unlock(ctx, "k", lockValue))
	})
}

func TestLockService_Refresh(t *testing.T) {
	locker, mr := setupLocker(t)
	ctx := context.Background()

	_, lockValue, err := locker.TryLock(ctx, "k", time.Second)
	require.NoError(t, err)

	require.NoError(t, locker.Refresh(ctx, "k", lockValue, time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("k"))

	assert.Error(t, locker.Refresh(ctx, "k", "someone-else", time.Hour))
}
