package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulsefeed/internal/constants"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
server:
  port: 8080
  read_timeout_seconds: 10
  write_timeout_seconds: 10
logging:
  level: info
store:
  path: /tmp/feedback.db
sources:
  file:
    enabled: true
    path: /tmp/live_feed.txt
`

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	// Timeouts are whole seconds, not durations; 10 means ten seconds.
	assert.Equal(t, 10, cfg.Server.ReadTimeoutSeconds)
	assert.Equal(t, 10, cfg.Server.WriteTimeoutSeconds)
	assert.Equal(t, constants.DefaultTable, cfg.Store.Table)
	assert.Equal(t, constants.DefaultBusyTimeoutMS, cfg.Store.BusyTimeoutMS)
	assert.Equal(t, constants.DefaultPollInterval, cfg.Sources.File.PollInterval)
	assert.Equal(t, constants.DefaultCursorFlushN, cfg.Sources.File.CursorFlushCount)
	assert.Equal(t, constants.DefaultCursorFlushT, cfg.Sources.File.CursorFlushInterval)
	assert.Equal(t, constants.DefaultMaxBatch, cfg.Sources.File.MaxBatch)
	assert.Equal(t, "/tmp/live_feed.txt.cursor", cfg.Sources.File.CursorPath)
	assert.Equal(t, constants.DefaultInsertAttempts, cfg.Pipeline.InsertRetry.MaxAttempts)
	assert.Equal(t, constants.DefaultInsertInterval, cfg.Pipeline.InsertRetry.InitialInterval)
}

func TestLoadConfig_ExplicitValuesWin(t *testing.T) {
	cfgFile := writeConfig(t, `
server:
  port: 9090
  read_timeout_seconds: 5
  write_timeout_seconds: 5
logging:
  level: debug
store:
  path: /tmp/feedback.db
  table: feedback
sources:
  file:
    enabled: true
    path: /tmp/feed.txt
    poll_interval: 250ms
    cursor_path: /tmp/custom.cursor
    max_batch: 10
pipeline:
  insert_retry:
    max_attempts: 5
`)

	cfg, err := LoadConfig(cfgFile)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "feedback", cfg.Store.Table)
	assert.Equal(t, 250*time.Millisecond, cfg.Sources.File.PollInterval)
	assert.Equal(t, "/tmp/custom.cursor", cfg.Sources.File.CursorPath)
	assert.Equal(t, 10, cfg.Sources.File.MaxBatch)
	assert.Equal(t, 5, cfg.Pipeline.InsertRetry.MaxAttempts)
}

func TestLoadConfig_KafkaSection(t *testing.T) {
	cfgFile := writeConfig(t, `
server:
  port: 8080
  read_timeout_seconds: 10
  write_timeout_seconds: 10
store:
  path: /tmp/feedback.db
sources:
  kafka:
    enabled: true
    brokers:
      - broker-a:9092
      - broker-b:9092
    topic: customer_feedback
    group_id: pulsefeed-ingest
`)

	cfg, err := LoadConfig(cfgFile)
	require.NoError(t, err)

	assert.Equal(t, []string{"broker-a:9092", "broker-b:9092"}, cfg.Sources.Kafka.Brokers)
	assert.Equal(t, "customer_feedback", cfg.Sources.Kafka.Topic)
	assert.Equal(t, constants.DefaultMaxBatch, cfg.Sources.Kafka.MaxBatch)
	assert.Equal(t, constants.DefaultKafkaBatchWait, cfg.Sources.Kafka.BatchWait)
	assert.Equal(t, constants.DefaultConnectAttempts, cfg.Sources.Kafka.Connect.MaxAttempts)
}

func TestLoadConfig_NoSourceEnabledFails(t *testing.T) {
	cfgFile := writeConfig(t, `
server:
  port: 8080
  read_timeout_seconds: 10
  write_timeout_seconds: 10
store:
  path: /tmp/feedback.db
sources:
  file:
    enabled: false
  kafka:
    enabled: false
`)

	_, err := LoadConfig(cfgFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one source must be enabled")
}

func TestLoadConfig_MissingFileFails(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
