package kafka

import (
	"Glimmer/internal/model"
	"Glimmer/internal/service"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterDelta_EncodeDecode(t *testing.T) {
	d := model.CounterDelta{Ref: model.NewCounterRef(model.PostLikes, 12), Delta: -1}
	value, err := encodeCounterDelta(d, time.UnixMilli(1700000000000))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ref":"post:12:likes_count","delta":-1,"ts":1700000000000}`, string(value))

	got, err := decodeCounterDelta(value)
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestDecodeCounterDelta_Rejects(t *testing.T) {
	cases := map[string]string{
		"not json":      `{`,
		"unknown field": `{"ref":"post:1:views","delta":1}`,
		"bad id":        `{"ref":"post:x:likes_count","delta":1}`,
		"zero delta":    `{"ref":"post:1:likes_count","delta":0}`,
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := decodeCounterDelta([]byte(value))
			assert.Error(t, err)
		})
	}
}

func TestCounterRetryProducer_Publish(t *testing.T) {
	sp := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var msg CounterRetryMessage
		if err := json.Unmarshal(val, &msg); err != nil {
			return err
		}
		if msg.Ref != "story:3:views_count" || msg.Delta != 1 {
			return errors.New("unexpected counter retry message")
		}
		return nil
	})
	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewCounterRetryProducer(sp, "topic-counter-retry")
	d := model.CounterDelta{Ref: model.NewCounterRef(model.StoryViews, 3), Delta: 1}
	require.NoError(t, p.PublishCounterDelta(context.Background(), d))
	assert.ErrorIs(t, p.PublishCounterDelta(context.Background(), d), sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

type fakeReconciler struct {
	mu    sync.Mutex
	err   error
	calls []model.CounterRef
}

func (f *fakeReconciler) Reconcile(_ context.Context, ref model.CounterRef) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, ref)
	return 1, f.err
}

func retryMessage(t *testing.T, d model.CounterDelta) *sarama.ConsumerMessage {
	t.Helper()
	value, err := encodeCounterDelta(d, time.Now())
	require.NoError(t, err)
	return &sarama.ConsumerMessage{Topic: "topic-counter-retry", Value: value}
}

func TestCounterRetryHandler_Logic(t *testing.T) {
	d := model.CounterDelta{Ref: model.NewCounterRef(model.CommentLikes, 5), Delta: 1}

	t.Run("reconciled", func(t *testing.T) {
		f := &fakeReconciler{}
		require.NoError(t, NewCounterRetryHandler(f).logic(context.Background(), retryMessage(t, d)))
		assert.Equal(t, []model.CounterRef{d.Ref}, f.calls)
	})

	t.Run("lock busy is retried", func(t *testing.T) {
		f := &fakeReconciler{err: service.ErrLockUnavailable}
		err := NewCounterRetryHandler(f).logic(context.Background(), retryMessage(t, d))
		require.Error(t, err)
		assert.NotErrorIs(t, err, errDrop)
	})

	t.Run("unknown reference dropped", func(t *testing.T) {
		f := &fakeReconciler{err: service.ErrUnknownReference}
		err := NewCounterRetryHandler(f).logic(context.Background(), retryMessage(t, d))
		assert.ErrorIs(t, err, errDrop)
	})

	t.Run("malformed dropped", func(t *testing.T) {
		f := &fakeReconciler{}
		err := NewCounterRetryHandler(f).logic(context.Background(), &sarama.ConsumerMessage{Value: []byte("oops")})
		assert.ErrorIs(t, err, errDrop)
		assert.Empty(t, f.calls)
	})
}

func TestHandleWithRetry_StopsOnDropAndSuccess(t *testing.T) {
	ctx := context.Background()
	msg := &sarama.ConsumerMessage{Topic: "t"}

	attempts := 0
	handleWithRetry(ctx, msg, func(context.Context, *sarama.ConsumerMessage) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	assert.Equal(t, 3, attempts)

	attempts = 0
	handleWithRetry(ctx, msg, func(context.Context, *sarama.ConsumerMessage) error {
		attempts++
		return drop(errors.New("bad"))
	})
	assert.Equal(t, 1, attempts)
}
