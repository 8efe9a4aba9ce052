package service

import (
	"Glimmer/internal/model"
	"Glimmer/internal/testutils"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterCache_HitSkipsCompute(t *testing.T) {
	testutils.NewTestRedis(t)
	cache := NewCounterCache(time.Minute)
	ref := model.NewCounterRef(model.PostLikes, 1)
	ctx := context.Background()

	var calls atomic.Int32
	compute := func(context.Context) (int64, error) {
		calls.Add(1)
		return 7, nil
	}

	for i := 0; i < 3; i++ {
		v, err := cache.GetOrCompute(ctx, ref, compute, time.Minute)
		require.NoError(t, err)
		assert.EqualValues(t, 7, v)
	}
	assert.EqualValues(t, 1, calls.Load())
}

func TestCounterCache_ExpiresAfterTTL(t *testing.T) {
	mr := testutils.NewTestRedis(t)
	cache := NewCounterCache(time.Minute)
	ref := model.NewCounterRef(model.StoryViews, 3)
	ctx := context.Background()

	value := int64(1)
	compute := func(context.Context) (int64, error) { return value, nil }

	v, err := cache.GetOrCompute(ctx, ref, compute, 2*time.Second)
	require.NoError(t, err)
	assert.EqualValues(t, 1, v)

	// TTL 内返回旧值
	value = 5
	v, err = cache.GetOrCompute(ctx, ref, compute, 2*time.Second)
	require.NoError(t, err)
	assert.EqualValues(t, 1, v)

	mr.FastForward(3 * time.Second)
	v, err = cache.GetOrCompute(ctx, ref, compute, 2*time.Second)
	require.NoError(t, err)
	assert.EqualValues(t, 5, v)
}

func TestCounterCache_DefaultTTLApplied(t *testing.T) {
	mr := testutils.NewTestRedis(t)
	cache := NewCounterCache(30 * time.Second)
	ref := model.NewCounterRef(model.PostLikes, 9)

	_, err := cache.GetOrCompute(context.Background(), ref, func(context.Context) (int64, error) { return 1, nil }, 0)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, mr.TTL(cacheKey(ref)))
}

func TestCounterCache_ComputeErrorNotCached(t *testing.T) {
	mr := testutils.NewTestRedis(t)
	cache := NewCounterCache(time.Minute)
	ref := model.NewCounterRef(model.PostLikes, 2)
	boom := errors.New("db down")

	_, err := cache.GetOrCompute(context.Background(), ref, func(context.Context) (int64, error) { return 0, boom }, time.Minute)
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists(cacheKey(ref)))
}

func TestCounterCache_ManyComputesMissesOnce(t *testing.T) {
	testutils.NewTestRedis(t)
	cache := NewCounterCache(time.Minute)
	ctx := context.Background()
	a := model.NewCounterRef(model.PostLikes, 1)
	b := model.NewCounterRef(model.PostLikes, 2)
	c := model.NewCounterRef(model.PostComments, 1)

	_, err := cache.GetOrCompute(ctx, a, func(context.Context) (int64, error) { return 10, nil }, time.Minute)
	require.NoError(t, err)

	var calls atomic.Int32
	var seen []model.CounterRef
	compute := func(_ context.Context, refs []model.CounterRef) (map[model.CounterRef]int64, error) {
		calls.Add(1)
		seen = refs
		// c 不存在, 不返回
		return map[model.CounterRef]int64{b: 20}, nil
	}

	res, err := cache.GetOrComputeMany(ctx, []model.CounterRef{a, b, c, b}, compute, time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load())
	assert.ElementsMatch(t, []model.CounterRef{b, c}, seen)
	assert.Equal(t, map[model.CounterRef]int64{a: 10, b: 20}, res)

	// 第二次全部命中 a, b, c 仍未命中
	res, err = cache.GetOrComputeMany(ctx, []model.CounterRef{a, b}, compute, time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, map[model.CounterRef]int64{a: 10, b: 20}, res)
}

func TestCounterCache_Invalidate(t *testing.T) {
	mr := testutils.NewTestRedis(t)
	cache := NewCounterCache(time.Minute)
	ctx := context.Background()
	ref := model.NewCounterRef(model.ProfileFollowers, 4)

	_, err := cache.GetOrCompute(ctx, ref, func(context.Context) (int64, error) { return 3, nil }, time.Minute)
	require.NoError(t, err)
	require.True(t, mr.Exists(cacheKey(ref)))

	require.NoError(t, cache.Invalidate(ctx, ref))
	assert.False(t, mr.Exists(cacheKey(ref)))
	require.NoError(t, cache.Invalidate(ctx))
}

func TestCounterCache_DegradesWhenRedisDown(t *testing.T) {
	mr := testutils.NewTestRedis(t)
	cache := NewCounterCache(time.Minute)
	mr.Close()

	v, err := cache.GetOrCompute(context.Background(), model.NewCounterRef(model.PostLikes, 1),
		func(context.Context) (int64, error) { return 8, nil }, time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 8, v)
}
