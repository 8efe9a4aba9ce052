package kafka

import (
	"Glimmer/internal/model"
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// CounterRetryMessage 重试主题上的消息体, 以 ref 作为消息键保证同一计数落在同一分区
type CounterRetryMessage struct {
	Ref   string `json:"ref"`
	Delta int64  `json:"delta"`
	TS    int64  `json:"ts"`
}

func encodeCounterDelta(d model.CounterDelta, now time.Time) ([]byte, error) {
	return json.Marshal(CounterRetryMessage{Ref: d.Ref.String(), Delta: d.Delta, TS: now.UnixMilli()})
}

func decodeCounterDelta(value []byte) (model.CounterDelta, error) {
	var msg CounterRetryMessage
	if err := json.Unmarshal(value, &msg); err != nil {
		return model.CounterDelta{}, fmt.Errorf("unmarshal counter retry message: %w", err)
	}
	ref, err := model.ParseCounterRef(msg.Ref)
	if err != nil {
		return model.CounterDelta{}, err
	}
	if msg.Delta == 0 {
		return model.CounterDelta{}, fmt.Errorf("counter retry message for %s has zero delta", msg.Ref)
	}
	return model.CounterDelta{Ref: ref, Delta: msg.Delta}, nil
}

// CounterRetryProducer 把锁竞争失败的增量投递到重试主题
type CounterRetryProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewCounterRetryProducer(producer sarama.SyncProducer, topic string) *CounterRetryProducer {
	return &CounterRetryProducer{producer: producer, topic: topic}
}

func (s *CounterRetryProducer) PublishCounterDelta(_ context.Context, delta model.CounterDelta) error {
	value, err := encodeCounterDelta(delta, time.Now())
	if err != nil {
		return err
	}
	_, _, err = s.producer.SendMessage(&sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(delta.Ref.String()),
		Value: sarama.ByteEncoder(value),
	})
	return err
}

func (s *CounterRetryProducer) Close() error {
	return s.producer.Close()
}
