package config

// Config 配置主体
type Config struct {
	Server                    ServerConfig             `mapstructure:"server"`
	Log                       LogConfig                `mapstructure:"log"`
	DB                        DBConfig                 `mapstructure:"database"`
	Redis                     RedisConfig              `mapstructure:"redis"`
	Counter                   CounterConfig            `mapstructure:"counter"`
	Feed                      FeedConfig               `mapstructure:"feed"`
	JWT                       JWTConfig                `mapstructure:"jwt"`
	Kafka                     KafkaConfig              `mapstructure:"kafka"`
	KafkaCounterRetryConsumer KafkaCounterRetryConsumer `mapstructure:"kafka_counter_retry_consumer"`
	KafkaProfileSyncConsumer  KafkaProfileSyncConsumer  `mapstructure:"kafka_profile_sync_consumer"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port         int      `mapstructure:"port"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// LogConfig 日志配置, RemoteAddr 为空时只输出到 stdout
type LogConfig struct {
	Level      string `mapstructure:"level"`
	RemoteAddr string `mapstructure:"remote_addr"`
	Index      string `mapstructure:"index"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// CounterConfig 计数器配置, 时间单位均为毫秒
type CounterConfig struct {
	Mode                 string `mapstructure:"mode"` // lock | atomic
	LockLease            int    `mapstructure:"lock_lease"`
	LockAttempts         int    `mapstructure:"lock_attempts"`
	LockRetryInterval    int    `mapstructure:"lock_retry_interval"`
	ApplyTimeout         int    `mapstructure:"apply_timeout"`
	CacheTTL             int    `mapstructure:"cache_ttl"`
	ReconcileSpec        string `mapstructure:"reconcile_spec"`
	ReconcileParallelism int    `mapstructure:"reconcile_parallelism"`
}

// FeedConfig 信息流配置
type FeedConfig struct {
	StoryWindowHours int `mapstructure:"story_window_hours"`
	MaxPageSize      int `mapstructure:"max_page_size"`
}

// JWTConfig 只用于校验上游签发的 Token
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type KafkaConfig struct {
	Enable   bool           `mapstructure:"enable"`
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

type KafkaCounterRetryConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

type KafkaProfileSyncConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}
