package service

import (
	"Glimmer/internal/api/config"
	"Glimmer/internal/model"
	"Glimmer/internal/pkg/consts"
	"Glimmer/internal/pkg/metrics"
	"Glimmer/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// CounterLedger 所有计数变更的唯一入口
type CounterLedger interface {
	// Apply 对单个计数施加增量并返回新值, 结果不会小于 0
	Apply(ctx context.Context, ref model.CounterRef, delta int64) (int64, error)
	// ApplyAll 并发施加互不相关的增量, 失败项合并返回
	ApplyAll(ctx context.Context, deltas ...model.CounterDelta) error
	// Reconcile 按关系表重新计算并覆盖计数
	Reconcile(ctx context.Context, ref model.CounterRef) (int64, error)
}

type CounterLedgerImpl struct {
	repo    repository.CounterRepo
	locker  Locker
	cache   CounterCache
	mode    string
	timeout time.Duration
}

func NewCounterLedger(cfg config.CounterConfig, repo repository.CounterRepo, locker Locker, cache CounterCache) CounterLedger {
	mode := cfg.Mode
	if mode != consts.CounterModeAtomic {
		mode = consts.CounterModeLock
	}
	return &CounterLedgerImpl{
		repo:    repo,
		locker:  locker,
		cache:   cache,
		mode:    mode,
		timeout: time.Duration(cfg.ApplyTimeout) * time.Millisecond,
	}
}

func (s *CounterLedgerImpl) Apply(ctx context.Context, ref model.CounterRef, delta int64) (int64, error) {
	if _, ok := ref.Field.Column(); !ok {
		return 0, ErrUnknownCounter
	}

	start := time.Now()
	value, err := s.apply(ctx, ref, delta)
	metrics.Get().CounterApplyDuration.WithLabelValues(s.mode).Observe(time.Since(start).Seconds())

	if repository.IsNotFound(err) {
		if delta < 0 {
			// 实体已被删除, 计数随级联一起消失
			log.InfoContext(ctx, "counter decrement on missing entity ignored", "ref", ref.String(), "delta", delta)
			metrics.Get().CounterApplyTotal.WithLabelValues(string(ref.Field), "ignored").Inc()
			return 0, nil
		}
		err = fmt.Errorf("%w: %s", ErrUnknownReference, ref)
	}
	if err != nil {
		metrics.Get().CounterApplyTotal.WithLabelValues(string(ref.Field), resultLabel(err)).Inc()
		return 0, err
	}
	metrics.Get().CounterApplyTotal.WithLabelValues(string(ref.Field), "ok").Inc()

	if err = s.cache.Invalidate(ctx, ref); err != nil {
		log.WarnContext(ctx, "counter cache invalidate failed", "ref", ref.String(), "err", err)
	}
	return value, nil
}

func (s *CounterLedgerImpl) apply(ctx context.Context, ref model.CounterRef, delta int64) (int64, error) {
	if delta == 0 {
		return s.repo.Get(ctx, ref)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if s.mode == consts.CounterModeAtomic {
		return s.repo.Add(ctx, ref, delta)
	}

	var value int64
	err := s.withLock(ctx, ref, func(ctx context.Context) error {
		current, err := s.repo.Get(ctx, ref)
		if err != nil {
			return err
		}
		value = max(current+delta, 0)
		return s.repo.Set(ctx, ref, value)
	})
	return value, err
}

func (s *CounterLedgerImpl) withLock(ctx context.Context, ref model.CounterRef, fn func(ctx context.Context) error) error {
	key := ref.LockKey()
	token, ok, err := s.locker.Acquire(ctx, key)
	if err != nil {
		return fmt.Errorf("acquire counter lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrLockUnavailable, ref)
	}
	defer func() {
		// 超时的 ctx 也要能释放锁
		if err := s.locker.Release(context.WithoutCancel(ctx), key, token); err != nil {
			log.WarnContext(ctx, "counter lock release failed", "key", key, "err", err)
		}
	}()
	return fn(ctx)
}

func (s *CounterLedgerImpl) ApplyAll(ctx context.Context, deltas ...model.CounterDelta) error {
	var (
		mu   sync.Mutex
		errs []error
	)
	var g errgroup.Group
	for _, d := range deltas {
		g.Go(func() error {
			if _, err := s.Apply(ctx, d.Ref, d.Delta); err != nil {
				mu.Lock()
				errs = append(errs, &CounterApplyError{Delta: d, Err: err})
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

func (s *CounterLedgerImpl) Reconcile(ctx context.Context, ref model.CounterRef) (int64, error) {
	if _, ok := ref.Field.Column(); !ok {
		return 0, ErrUnknownCounter
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var value int64
	err := s.withLock(ctx, ref, func(ctx context.Context) error {
		if _, err := s.repo.Get(ctx, ref); err != nil {
			return err
		}
		count, err := s.repo.CountEdges(ctx, ref)
		if err != nil {
			return err
		}
		value = count
		return s.repo.Set(ctx, ref, count)
	})
	if repository.IsNotFound(err) {
		metrics.Get().CounterReconciled.WithLabelValues("missing").Inc()
		return 0, fmt.Errorf("%w: %s", ErrUnknownReference, ref)
	}
	if err != nil {
		metrics.Get().CounterReconciled.WithLabelValues(resultLabel(err)).Inc()
		return 0, err
	}
	metrics.Get().CounterReconciled.WithLabelValues("ok").Inc()

	if err = s.cache.Invalidate(ctx, ref); err != nil {
		log.WarnContext(ctx, "counter cache invalidate failed", "ref", ref.String(), "err", err)
	}
	return value, nil
}

// CounterApplyError 记录失败的那一次增量
type CounterApplyError struct {
	Delta model.CounterDelta
	Err   error
}

func (e *CounterApplyError) Error() string {
	return fmt.Sprintf("apply %s %+d: %v", e.Delta.Ref, e.Delta.Delta, e.Err)
}

func (e *CounterApplyError) Unwrap() error {
	return e.Err
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, ErrLockUnavailable):
		return "lock_unavailable"
	case errors.Is(err, ErrUnknownReference):
		return "unknown_reference"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
