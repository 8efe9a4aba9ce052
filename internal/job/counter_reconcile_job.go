package job

import (
	"Glimmer/internal/model"
	"Glimmer/internal/pkg/consts"
	"Glimmer/internal/pkg/logger"
	"Glimmer/internal/pkg/redis"
	"Glimmer/internal/service"
	"context"
	"errors"
	log "log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultReconcileParallelism = 8

// CounterReconcileJob 重新计算更新失败的计数, 直到与关系表一致
type CounterReconcileJob struct {
	ledger      service.CounterLedger
	parallelism int
}

func NewCounterReconcileJob(ledger service.CounterLedger, parallelism int) *CounterReconcileJob {
	if parallelism <= 0 {
		parallelism = defaultReconcileParallelism
	}
	return &CounterReconcileJob{ledger: ledger, parallelism: parallelism}
}

func (s *CounterReconcileJob) Run() {
	traceID := "job-counter-" + uuid.NewString()
	ctx := logger.WithTraceID(context.Background(), traceID)

	if _, err := s.RunOnce(ctx); err != nil {
		log.ErrorContext(ctx, "reconcile counters error", "err", err)
	}
}

// RunOnce 取走当前脏集合并逐个对账, 锁不可用的放回脏集合等下一轮
func (s *CounterReconcileJob) RunOnce(ctx context.Context) (int, error) {
	// 上一轮中断遗留的 processing 集合会被覆盖, 先并回脏集合
	leftover, err := redis.GetSet(ctx, consts.CounterDirtyProcessingKey)
	if err != nil {
		return 0, err
	}
	if len(leftover) > 0 {
		members := make([]interface{}, len(leftover))
		for i, m := range leftover {
			members[i] = m
		}
		if err = redis.SAdd(ctx, consts.CounterDirtyKey, members...); err != nil {
			return 0, err
		}
	}

	moved, err := redis.RenameIfExists(ctx, consts.CounterDirtyKey, consts.CounterDirtyProcessingKey)
	if err != nil {
		return 0, err
	}
	if !moved {
		// 脏集合不存在或已被其他实例取走
		return 0, nil
	}

	refs, err := redis.GetSet(ctx, consts.CounterDirtyProcessingKey)
	if err != nil {
		return 0, err
	}

	var (
		reconciled atomic.Int64
		retry      atomic.Int64
		dropped    atomic.Int64
	)
	g := new(errgroup.Group)
	g.SetLimit(s.parallelism)
	for _, member := range refs {
		g.Go(func() error {
			ref, err := model.ParseCounterRef(member)
			if err != nil {
				log.WarnContext(ctx, "drop invalid dirty counter", "member", member, "err", err)
				dropped.Add(1)
				return nil
			}

			value, err := s.ledger.Reconcile(ctx, ref)
			switch {
			case err == nil:
				reconciled.Add(1)
				log.DebugContext(ctx, "counter reconciled", "ref", member, "value", value)
			case errors.Is(err, service.ErrUnknownReference):
				dropped.Add(1)
			default:
				log.WarnContext(ctx, "reconcile counter failed, retry next round", "ref", member, "err", err)
				if err = redis.SAdd(ctx, consts.CounterDirtyKey, member); err != nil {
					log.ErrorContext(ctx, "requeue dirty counter failed", "ref", member, "err", err)
				}
				retry.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	if err = redis.DeleteKey(ctx, consts.CounterDirtyProcessingKey); err != nil {
		log.ErrorContext(ctx, "delete counter processing set error", "err", err)
	}

	log.InfoContext(ctx, "reconcile counters done",
		"total", len(refs),
		"reconciled", reconciled.Load(),
		"retry", retry.Load(),
		"dropped", dropped.Load())
	return int(reconciled.Load()), nil
}
