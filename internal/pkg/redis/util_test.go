package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	Rdb = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = Rdb.Close() })
	return mr
}

func TestTryLock_AcquireAndRelease(t *testing.T) {
	mr := setupMiniRedis(t)
	ctx := context.Background()

	ok, err := TryLock(ctx, "lock:a", "token-1", time.Second, 1, time.Millisecond)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("lock:a"))

	ok, err = TryLock(ctx, "lock:a", "token-2", time.Second, 3, time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ok, "second holder must not acquire")

	// 非持有者释放无效
	require.NoError(t, UnLock(ctx, "lock:a", "token-2"))
	assert.True(t, mr.Exists("lock:a"))

	require.NoError(t, UnLock(ctx, "lock:a", "token-1"))
	assert.False(t, mr.Exists("lock:a"))
}

func TestTryLock_LeaseExpires(t *testing.T) {
	mr := setupMiniRedis(t)
	ctx := context.Background()

	ok, err := TryLock(ctx, "lock:b", "crashed-holder", 500*time.Millisecond, 1, time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(time.Second)

	ok, err = TryLock(ctx, "lock:b", "next-holder", time.Second, 1, time.Millisecond)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTryLock_StopsOnContextDone(t *testing.T) {
	mr := setupMiniRedis(t)
	require.NoError(t, mr.Set("lock:c", "other"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	ok, err := TryLock(ctx, "lock:c", "me", time.Second, 1000, 10*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Less(t, time.Since(start), time.Second)
}

func TestMGetInt64_SkipsMissing(t *testing.T) {
	mr := setupMiniRedis(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("k1", "7"))
	require.NoError(t, mr.Set("k3", "not-a-number"))

	res, err := MGetInt64(ctx, []string{"k1", "k2", "k3"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"k1": 7}, res)
}

func TestMSetWithExpiration(t *testing.T) {
	mr := setupMiniRedis(t)
	ctx := context.Background()

	require.NoError(t, MSetWithExpiration(ctx, map[string]int64{"a": 1, "b": 2}, time.Minute))

	v, err := mr.Get("b")
	require.NoError(t, err)
	assert.Equal(t, "2", v)
	assert.Equal(t, time.Minute, mr.TTL("a"))
}

func TestRenameIfExists(t *testing.T) {
	mr := setupMiniRedis(t)
	ctx := context.Background()

	ok, err := RenameIfExists(ctx, "dirty", "processing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = mr.SAdd("dirty", "a")
	require.NoError(t, err)
	ok, err = RenameIfExists(ctx, "dirty", "processing")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("processing"))
	assert.False(t, mr.Exists("dirty"))

	// 连接失败不能当作源键不存在
	mr.Close()
	ok, err = RenameIfExists(ctx, "processing", "dirty")
	require.Error(t, err)
	assert.False(t, ok)
	assert.False(t, IsNoSuchKey(err))
}
