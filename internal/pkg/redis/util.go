package redis

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var unlockScript = redis.NewScript("if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end")

// SetWithExpiration 设置键值对并设置过期时间
func SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return Rdb.Set(ctx, key, value, expiration).Err()
}

// GetValue 获取字符串类型的值
func GetValue(ctx context.Context, key string) (string, error) {
	value, err := Rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// GetInt64 获取整数值, 键不存在时返回 redis.Nil
func GetInt64(ctx context.Context, key string) (int64, error) {
	return Rdb.Get(ctx, key).Int64()
}

// MGetInt64 批量获取整数值, 不存在或无法解析的键不出现在结果中
func MGetInt64(ctx context.Context, keys []string) (map[string]int64, error) {
	res := make(map[string]int64, len(keys))
	if len(keys) == 0 {
		return res, nil
	}
	values, err := Rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			continue
		}
		res[keys[i]] = n
	}
	return res, nil
}

// MSetWithExpiration 通过管道批量写入并设置过期时间
func MSetWithExpiration(ctx context.Context, values map[string]int64, expiration time.Duration) error {
	if len(values) == 0 {
		return nil
	}
	pipe := Rdb.Pipeline()
	for k, v := range values {
		pipe.Set(ctx, k, v, expiration)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// TryLock 以 SET NX PX 抢锁, 最多尝试 attempts 次, 每次间隔 interval, ctx 结束时立即放弃
func TryLock(ctx context.Context, key string, value interface{}, expiration time.Duration, attempts int, interval time.Duration) (bool, error) {
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		success, err := Rdb.SetNX(ctx, key, value, expiration).Result()
		if err != nil {
			return false, err
		}
		if success {
			return true, nil
		}
		if i == attempts-1 {
			break
		}
		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false, nil
		case <-timer.C:
		}
	}
	return false, nil
}

// UnLock 释放锁, 只删除自己持有的锁
func UnLock(ctx context.Context, key string, value interface{}) error {
	return unlockScript.Run(ctx, Rdb, []string{key}, value).Err()
}

// SAdd 向集合添加成员
func SAdd(ctx context.Context, key string, members ...interface{}) error {
	return Rdb.SAdd(ctx, key, members...).Err()
}

// GetSet 获取集合
func GetSet(ctx context.Context, key string) ([]string, error) {
	value, err := Rdb.SMembers(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	return value, nil
}

func Rename(ctx context.Context, oldKey string, newKey string) error {
	return Rdb.Rename(ctx, oldKey, newKey).Err()
}

// RenameIfExists 源键不存在时返回 false, 其余错误原样返回
func RenameIfExists(ctx context.Context, oldKey string, newKey string) (bool, error) {
	err := Rename(ctx, oldKey, newKey)
	switch {
	case err == nil:
		return true, nil
	case IsNoSuchKey(err):
		return false, nil
	default:
		return false, err
	}
}

// IsNoSuchKey 服务端返回 "ERR no such key"
func IsNoSuchKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such key")
}

// DeleteKey 删除键
func DeleteKey(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return Rdb.Del(ctx, keys...).Err()
}

// GetRdbClient 获取redis客户端
func GetRdbClient() *redis.Client {
	return Rdb
}
