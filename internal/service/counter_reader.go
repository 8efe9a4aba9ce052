package service

import (
	"Glimmer/internal/model"
	"Glimmer/internal/repository"
	"context"
	"time"
)

// counterReader 展示用计数的读取, 统一经过缓存
type counterReader struct {
	repo  repository.CounterRepo
	cache CounterCache
	ttl   time.Duration
}

func newCounterReader(repo repository.CounterRepo, cache CounterCache, ttl time.Duration) counterReader {
	return counterReader{repo: repo, cache: cache, ttl: ttl}
}

func (r counterReader) one(ctx context.Context, ref model.CounterRef) (int64, error) {
	return r.cache.GetOrCompute(ctx, ref, func(ctx context.Context) (int64, error) {
		return r.repo.Get(ctx, ref)
	}, r.ttl)
}

// many 每个字段的未命中项合并成一次查询
func (r counterReader) many(ctx context.Context, ids []uint64, fields ...model.CounterField) (map[model.CounterRef]int64, error) {
	refs := make([]model.CounterRef, 0, len(ids)*len(fields))
	for _, id := range ids {
		for _, f := range fields {
			refs = append(refs, model.NewCounterRef(f, id))
		}
	}
	return r.cache.GetOrComputeMany(ctx, refs, func(ctx context.Context, misses []model.CounterRef) (map[model.CounterRef]int64, error) {
		byField := make(map[model.CounterField][]uint64)
		for _, ref := range misses {
			byField[ref.Field] = append(byField[ref.Field], ref.ID)
		}
		res := make(map[model.CounterRef]int64, len(misses))
		for field, fieldIDs := range byField {
			values, err := r.repo.GetMany(ctx, field, fieldIDs)
			if err != nil {
				return nil, err
			}
			for id, v := range values {
				res[model.NewCounterRef(field, id)] = v
			}
		}
		return res, nil
	}, r.ttl)
}
