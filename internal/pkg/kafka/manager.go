package kafka

import (
	"Glimmer/internal/api/config"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

type consumer struct {
	name    string
	topic   string
	group   sarama.ConsumerGroup
	handler sarama.ConsumerGroupHandler
}

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	consumers []consumer
}

// NewConsumerManager 构造函数
func NewConsumerManager(cfg *config.Config, ledger CounterReconciler, profileSvc ProfileSyncer) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	counterRetryGroup, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaCounterRetryConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	profileSyncGroup, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaProfileSyncConsumer.GroupID, saramaCfg)
	if err != nil {
		_ = counterRetryGroup.Close()
		return nil, err
	}

	return &ConsumerManager{
		consumers: []consumer{
			{
				name:    "Counter retry",
				topic:   cfg.KafkaCounterRetryConsumer.Topic,
				group:   counterRetryGroup,
				handler: NewCounterRetryHandler(ledger),
			},
			{
				name:    "Profile sync",
				topic:   cfg.KafkaProfileSyncConsumer.Topic,
				group:   profileSyncGroup,
				handler: NewProfileSyncHandler(profileSvc),
			},
		},
	}, nil
}

// Start 启动所有消费者, ctx 结束后关闭
func (m *ConsumerManager) Start(ctx context.Context) error {
	for _, c := range m.consumers {
		go func(c consumer) {
			log.Info(c.name+" consumer started", "topic", c.topic)
			for {
				if err := c.group.Consume(ctx, []string{c.topic}, c.handler); err != nil {
					log.Error("Error from consumer", "consumer", c.name, "err", err)
				}
				if ctx.Err() != nil {
					return
				}
			}
		}(c)
	}

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	for _, c := range m.consumers {
		if err := c.group.Close(); err != nil {
			log.Error("Failed to close consumer", "consumer", c.name, "err", err)
		}
	}
	return nil
}
