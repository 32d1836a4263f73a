package config

import (
	"time"
)

type Config struct {
	Server   ServerConfig
	Logging  LoggingConfig
	Store    StoreConfig
	Sources  SourcesConfig
	Pipeline PipelineConfig
}

type ServerConfig struct {
	Port                int `mapstructure:"port"`
	ReadTimeoutSeconds  int `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type StoreConfig struct {
	Path          string `mapstructure:"path"`
	Table         string `mapstructure:"table"`
	BusyTimeoutMS int    `mapstructure:"busy_timeout_ms"`
}

type SourcesConfig struct {
	File  FileSourceConfig  `mapstructure:"file"`
	Kafka KafkaSourceConfig `mapstructure:"kafka"`
}

type FileSourceConfig struct {
	Enabled             bool          `mapstructure:"enabled"`
	Path                string        `mapstructure:"path"`
	PollInterval        time.Duration `mapstructure:"poll_interval"`
	CursorPath          string        `mapstructure:"cursor_path"`
	CursorFlushCount    int           `mapstructure:"cursor_flush_count"`
	CursorFlushInterval time.Duration `mapstructure:"cursor_flush_interval"`
	MaxBatch            int           `mapstructure:"max_batch"`
}

type KafkaSourceConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Brokers   []string      `mapstructure:"brokers"`
	Topic     string        `mapstructure:"topic"`
	GroupID   string        `mapstructure:"group_id"`
	MaxBatch  int           `mapstructure:"max_batch"`
	BatchWait time.Duration `mapstructure:"batch_wait"`
	Connect   RetryConfig   `mapstructure:"connect"`
}

type RetryConfig struct {
	MaxAttempts     int           `mapstructure:"max_attempts"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	Multiplier      float64       `mapstructure:"multiplier"`
}

type PipelineConfig struct {
	InsertRetry RetryConfig `mapstructure:"insert_retry"`
}

func Load(configFile string) (*Config, error) {
	return LoadConfig(configFile)
}
