package service

import (
	"Glimmer/internal/model"
	"Glimmer/internal/pkg/consts"
	"Glimmer/internal/pkg/metrics"
	"Glimmer/internal/pkg/redis"
	"context"
	"errors"
	log "log/slog"
)

// CounterRetryPublisher 把没能及时落地的增量交给异步重试
type CounterRetryPublisher interface {
	PublishCounterDelta(ctx context.Context, delta model.CounterDelta) error
}

// NoopRetryPublisher 未启用 Kafka 时使用, 收敛交给对账任务
type NoopRetryPublisher struct{}

func (NoopRetryPublisher) PublishCounterDelta(context.Context, model.CounterDelta) error {
	return nil
}

// CounterUpdater 在关系写入提交之后更新计数, 计数失败不影响关系本身
type CounterUpdater struct {
	ledger    CounterLedger
	publisher CounterRetryPublisher
}

func NewCounterUpdater(ledger CounterLedger, publisher CounterRetryPublisher) *CounterUpdater {
	if publisher == nil {
		publisher = NoopRetryPublisher{}
	}
	return &CounterUpdater{ledger: ledger, publisher: publisher}
}

// Apply 失败的增量记入脏集合, 锁不可用时再投递重试消息
func (s *CounterUpdater) Apply(ctx context.Context, deltas ...model.CounterDelta) {
	if len(deltas) == 0 {
		return
	}
	err := s.ledger.ApplyAll(ctx, deltas...)
	if err == nil {
		return
	}

	for _, e := range flatten(err) {
		var applyErr *CounterApplyError
		if !errors.As(e, &applyErr) {
			log.ErrorContext(ctx, "counter update failed", "err", e)
			continue
		}
		s.recover(ctx, applyErr)
	}
}

// Reconcile 按边表重算, 失败的记入脏集合交给对账任务
func (s *CounterUpdater) Reconcile(ctx context.Context, refs ...model.CounterRef) {
	for _, ref := range refs {
		if _, err := s.ledger.Reconcile(ctx, ref); err != nil {
			log.WarnContext(ctx, "counter reconcile failed, marked dirty", "ref", ref.String(), "err", err)
			s.markDirty(ctx, ref.String())
		}
	}
}

func (s *CounterUpdater) markDirty(ctx context.Context, ref string) {
	if err := redis.SAdd(ctx, consts.CounterDirtyKey, ref); err != nil {
		log.ErrorContext(ctx, "mark counter dirty failed", "ref", ref, "err", err)
		return
	}
	metrics.Get().CounterDirtyTotal.Inc()
}

func (s *CounterUpdater) recover(ctx context.Context, e *CounterApplyError) {
	ref := e.Delta.Ref.String()
	log.WarnContext(ctx, "counter update failed, marked dirty", "ref", ref, "delta", e.Delta.Delta, "err", e.Err)

	s.markDirty(ctx, ref)

	if !errors.Is(e.Err, ErrLockUnavailable) {
		return
	}
	if err := s.publisher.PublishCounterDelta(ctx, e.Delta); err != nil {
		log.ErrorContext(ctx, "publish counter retry failed", "ref", ref, "err", err)
	}
}

func flatten(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
