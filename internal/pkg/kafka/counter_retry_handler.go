package kafka

import (
	"Glimmer/internal/model"
	"Glimmer/internal/pkg/logger"
	"Glimmer/internal/service"
	"context"
	"errors"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// CounterReconciler 重试消费按边表重算, 消息重复或晚于对账到达都不会重复计数
type CounterReconciler interface {
	Reconcile(ctx context.Context, ref model.CounterRef) (int64, error)
}

type CounterRetryHandler struct {
	ledger CounterReconciler
}

func NewCounterRetryHandler(ledger CounterReconciler) *CounterRetryHandler {
	return &CounterRetryHandler{ledger: ledger}
}

func (s *CounterRetryHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("counter retry consumer setup")
	return nil
}

func (s *CounterRetryHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("counter retry consumer cleanup")
	return nil
}

func (s *CounterRetryHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-counter-retry consume claim", "partition", claim.Partition())
	if err := pullMessageBatch(session, claim, s.logic); err != nil {
		log.Error("topic-counter-retry process batch error", "err", err)
		return err
	}
	return nil
}

// logic 锁不可用时返回错误触发重试, 其余无法处理的消息丢弃
func (s *CounterRetryHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	ctx = logger.WithTraceID(ctx, "kafka-counter-"+uuid.NewString())

	delta, err := decodeCounterDelta(msg.Value)
	if err != nil {
		return drop(err)
	}

	count, err := s.ledger.Reconcile(ctx, delta.Ref)
	switch {
	case err == nil:
		log.InfoContext(ctx, "counter retry reconciled", "ref", delta.Ref.String(), "delta", delta.Delta, "count", count)
		return nil
	case errors.Is(err, service.ErrUnknownReference), errors.Is(err, service.ErrUnknownCounter):
		return drop(err)
	default:
		return err
	}
}
