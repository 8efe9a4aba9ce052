package service

import (
	"Glimmer/internal/model"
	"Glimmer/internal/pkg/consts"
	"Glimmer/internal/pkg/metrics"
	"Glimmer/internal/pkg/redis"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type ComputeFunc func(ctx context.Context) (int64, error)

// ComputeManyFunc 只会收到未命中的 ref, 返回值中缺失的 ref 不写缓存
type ComputeManyFunc func(ctx context.Context, refs []model.CounterRef) (map[model.CounterRef]int64, error)

// CounterCache 热点计数的短 TTL 读穿缓存, 写入以最后一次为准
type CounterCache interface {
	GetOrCompute(ctx context.Context, ref model.CounterRef, compute ComputeFunc, ttl time.Duration) (int64, error)
	GetOrComputeMany(ctx context.Context, refs []model.CounterRef, compute ComputeManyFunc, ttl time.Duration) (map[model.CounterRef]int64, error)
	Invalidate(ctx context.Context, refs ...model.CounterRef) error
}

type CounterCacheImpl struct {
	defaultTTL time.Duration
}

func NewCounterCache(defaultTTL time.Duration) CounterCache {
	if defaultTTL <= 0 {
		defaultTTL = time.Minute
	}
	return &CounterCacheImpl{defaultTTL: defaultTTL}
}

func cacheKey(ref model.CounterRef) string {
	return consts.CounterCacheKey + ref.String()
}

func (s *CounterCacheImpl) ttl(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return s.defaultTTL
	}
	return ttl
}

// GetOrCompute Redis 读失败时降级为直接计算
func (s *CounterCacheImpl) GetOrCompute(ctx context.Context, ref model.CounterRef, compute ComputeFunc, ttl time.Duration) (int64, error) {
	key := cacheKey(ref)
	v, err := redis.GetInt64(ctx, key)
	if err == nil {
		metrics.Get().CounterCacheTotal.WithLabelValues("hit").Inc()
		return v, nil
	}
	if !errors.Is(err, goredis.Nil) {
		log.WarnContext(ctx, "counter cache read failed", "key", key, "err", err)
	}
	metrics.Get().CounterCacheTotal.WithLabelValues("miss").Inc()

	v, err = compute(ctx)
	if err != nil {
		return 0, err
	}
	if err = redis.SetWithExpiration(ctx, key, v, s.ttl(ttl)); err != nil {
		log.WarnContext(ctx, "counter cache write failed", "key", key, "err", err)
	}
	return v, nil
}

// GetOrComputeMany 一次 MGET, 未命中的 ref 合并为一次计算, 再通过管道回写
func (s *CounterCacheImpl) GetOrComputeMany(ctx context.Context, refs []model.CounterRef, compute ComputeManyFunc, ttl time.Duration) (map[model.CounterRef]int64, error) {
	res := make(map[model.CounterRef]int64, len(refs))
	if len(refs) == 0 {
		return res, nil
	}

	keys := make([]string, len(refs))
	for i, ref := range refs {
		keys[i] = cacheKey(ref)
	}

	cached, err := redis.MGetInt64(ctx, keys)
	if err != nil {
		log.WarnContext(ctx, "counter cache batch read failed", "err", err)
		cached = nil
	}

	misses := make([]model.CounterRef, 0)
	seen := make(map[model.CounterRef]struct{}, len(refs))
	for i, ref := range refs {
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}
		if v, ok := cached[keys[i]]; ok {
			res[ref] = v
			continue
		}
		misses = append(misses, ref)
	}
	metrics.Get().CounterCacheTotal.WithLabelValues("hit").Add(float64(len(seen) - len(misses)))
	metrics.Get().CounterCacheTotal.WithLabelValues("miss").Add(float64(len(misses)))

	if len(misses) == 0 {
		return res, nil
	}

	computed, err := compute(ctx, misses)
	if err != nil {
		return nil, fmt.Errorf("compute counters: %w", err)
	}

	toStore := make(map[string]int64, len(computed))
	for _, ref := range misses {
		v, ok := computed[ref]
		if !ok {
			continue
		}
		res[ref] = v
		toStore[cacheKey(ref)] = v
	}
	if err = redis.MSetWithExpiration(ctx, toStore, s.ttl(ttl)); err != nil {
		log.WarnContext(ctx, "counter cache batch write failed", "err", err)
	}
	return res, nil
}

func (s *CounterCacheImpl) Invalidate(ctx context.Context, refs ...model.CounterRef) error {
	if len(refs) == 0 {
		return nil
	}
	keys := make([]string, len(refs))
	for i, ref := range refs {
		keys[i] = cacheKey(ref)
	}
	return redis.DeleteKey(ctx, keys...)
}
