package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从 ./configs/config.yaml 加载配置并填充到 Cfg
func LoadConfig() error {
	cfg, err := Load("./configs")
	if err != nil {
		return err
	}
	Cfg = cfg
	return nil
}

// Load 在给定目录中查找 config.yaml, GLIMMER_ 前缀的环境变量优先, 文件缺失时使用默认值
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("GLIMMER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("database.max_idle", 10)
	v.SetDefault("database.max_open", 50)
	v.SetDefault("database.max_lifetime", 30)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.pool_size", 20)

	v.SetDefault("counter.mode", "lock")
	v.SetDefault("counter.lock_lease", 3000)
	v.SetDefault("counter.lock_attempts", 10)
	v.SetDefault("counter.lock_retry_interval", 50)
	v.SetDefault("counter.apply_timeout", 2000)
	v.SetDefault("counter.cache_ttl", 60000)
	v.SetDefault("counter.reconcile_spec", "@every 1m")
	v.SetDefault("counter.reconcile_parallelism", 8)

	v.SetDefault("feed.story_window_hours", 24)
	v.SetDefault("feed.max_page_size", 50)

	v.SetDefault("kafka.enable", false)
	v.SetDefault("kafka.consumer.session_timeout", 10)
	v.SetDefault("kafka.consumer.heartbeat_interval", 3)
	v.SetDefault("kafka.consumer.rebalance_timeout", 60)
	v.SetDefault("kafka.consumer.max_processing_time", 30)
	v.SetDefault("kafka_counter_retry_consumer.topic", "counter-retry")
	v.SetDefault("kafka_counter_retry_consumer.group_id", "glimmer-counter-retry")
	v.SetDefault("kafka_profile_sync_consumer.topic", "identity.user_detail")
	v.SetDefault("kafka_profile_sync_consumer.group_id", "glimmer-profile-sync")
}
