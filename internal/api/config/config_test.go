package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "lock", cfg.Counter.Mode)
	assert.Equal(t, 10, cfg.Counter.LockAttempts)
	assert.Equal(t, 60000, cfg.Counter.CacheTTL)
	assert.Equal(t, "@every 1m", cfg.Counter.ReconcileSpec)
	assert.Equal(t, 24, cfg.Feed.StoryWindowHours)
	assert.False(t, cfg.Kafka.Enable)
	assert.Equal(t, "counter-retry", cfg.KafkaCounterRetryConsumer.Topic)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
server:
  port: 9090
  allow_origins:
    - "https://app.example.com"
counter:
  mode: atomic
  lock_attempts: 3
kafka:
  brokers:
    - "k1:9092"
    - "k2:9092"
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	t.Setenv("GLIMMER_SERVER_PORT", "7070")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Server.AllowOrigins)
	assert.Equal(t, "atomic", cfg.Counter.Mode)
	assert.Equal(t, 3, cfg.Counter.LockAttempts)
	assert.Equal(t, 50, cfg.Counter.LockRetryInterval)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}
