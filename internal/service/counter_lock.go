package service

import (
	"Glimmer/internal/pkg/metrics"
	"Glimmer/internal/pkg/redis"
	"context"
	"time"

	"github.com/google/uuid"
)

// Locker 带租约的分布式互斥锁
type Locker interface {
	// Acquire 在重试预算内抢锁, 失败时 ok 为 false
	Acquire(ctx context.Context, key string) (token string, ok bool, err error)
	Release(ctx context.Context, key, token string) error
}

type RedisLocker struct {
	lease    time.Duration
	attempts int
	interval time.Duration
}

func NewRedisLocker(lease time.Duration, attempts int, interval time.Duration) *RedisLocker {
	return &RedisLocker{lease: lease, attempts: attempts, interval: interval}
}

func (s *RedisLocker) Acquire(ctx context.Context, key string) (string, bool, error) {
	token := uuid.New().String()
	ok, err := redis.TryLock(ctx, key, token, s.lease, s.attempts, s.interval)
	switch {
	case err != nil:
		metrics.Get().CounterLockTotal.WithLabelValues("error").Inc()
	case ok:
		metrics.Get().CounterLockTotal.WithLabelValues("acquired").Inc()
	default:
		metrics.Get().CounterLockTotal.WithLabelValues("exhausted").Inc()
	}
	return token, ok, err
}

func (s *RedisLocker) Release(ctx context.Context, key, token string) error {
	return redis.UnLock(ctx, key, token)
}
