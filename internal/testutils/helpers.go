package testutils

import (
	"Glimmer/internal/api/config"
	"Glimmer/internal/pkg/database"
	"Glimmer/internal/pkg/redis"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB 基于临时文件的 SQLite, 单连接保证并发测试串行落库
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "glimmer.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC().Truncate(time.Second)
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// NewTestRedis 启动 miniredis 并替换全局客户端
func NewTestRedis(t testing.TB) *miniredis.Miniredis {
	t.Helper()

	mr := miniredis.RunT(t)
	redis.Rdb = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redis.Rdb.Close() })
	return mr
}

// DefaultCounterConfig 测试用计数器配置, 重试预算足够覆盖并发用例
func DefaultCounterConfig() config.CounterConfig {
	return config.CounterConfig{
		Mode:                 "lock",
		LockLease:            3000,
		LockAttempts:         400,
		LockRetryInterval:    5,
		ApplyTimeout:         5000,
		CacheTTL:             60000,
		ReconcileSpec:        "@every 1m",
		ReconcileParallelism: 4,
	}
}

// CountQueries 统计读语句次数, Find/Count 走 Query, Raw().Scan 走 Row
func CountQueries(t testing.TB, db *gorm.DB) *atomic.Int64 {
	t.Helper()

	var n atomic.Int64
	inc := func(*gorm.DB) { n.Add(1) }
	name := "testutils:count_queries:" + t.Name()
	require.NoError(t, db.Callback().Query().After("gorm:query").Register(name, inc))
	require.NoError(t, db.Callback().Row().After("gorm:row").Register(name, inc))
	t.Cleanup(func() {
		_ = db.Callback().Query().Remove(name)
		_ = db.Callback().Row().Remove(name)
	})
	return &n
}

// Clock 可手动推进的时钟
type Clock struct {
	now atomic.Int64
}

func NewClock(start time.Time) *Clock {
	c := &Clock{}
	c.now.Store(start.UnixNano())
	return c
}

func (c *Clock) Now() time.Time {
	return time.Unix(0, c.now.Load()).UTC()
}

func (c *Clock) Advance(d time.Duration) {
	c.now.Add(int64(d))
}

// AssertEventually 轮询直到条件满足或超时
func AssertEventually(t testing.TB, cond func() bool, timeout time.Duration, msg string) {
	t.Helper()
	require.Eventually(t, cond, timeout, 10*time.Millisecond, msg)
}
