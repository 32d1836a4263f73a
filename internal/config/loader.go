package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"pulsefeed/internal/constants"
)

func LoadConfig(configFile string) (*Config, error) {
	viper.Reset()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(configFile)

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	applyDefaults(&cfg)

	if err := ValidateStatic(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func bindEnvVariables() {
	viper.BindEnv("sources.kafka.brokers", "SOURCES_KAFKA_BROKERS")
	viper.BindEnv("sources.kafka.topic", "SOURCES_KAFKA_TOPIC")
	viper.BindEnv("sources.kafka.group_id", "SOURCES_KAFKA_GROUP_ID")
	viper.BindEnv("sources.kafka.enabled", "SOURCES_KAFKA_ENABLED")

	viper.BindEnv("sources.file.path", "SOURCES_FILE_PATH")
	viper.BindEnv("sources.file.cursor_path", "SOURCES_FILE_CURSOR_PATH")
	viper.BindEnv("sources.file.enabled", "SOURCES_FILE_ENABLED")

	viper.BindEnv("store.path", "STORE_PATH")
	viper.BindEnv("store.table", "STORE_TABLE")

	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.read_timeout_seconds", "SERVER_READ_TIMEOUT_SECONDS")
	viper.BindEnv("server.write_timeout_seconds", "SERVER_WRITE_TIMEOUT_SECONDS")

	viper.BindEnv("logging.level", "LOGGING_LEVEL")
	viper.BindEnv("logging.format", "LOGGING_FORMAT")
}

func applyEnvOverrides(cfg *Config) error {
	if brokersEnv := viper.GetString("SOURCES_KAFKA_BROKERS"); brokersEnv != "" {
		brokers := strings.Split(brokersEnv, ",")
		for i := range brokers {
			brokers[i] = strings.TrimSpace(brokers[i])
		}
		if len(brokers) > 0 && brokers[0] != "" {
			cfg.Sources.Kafka.Brokers = brokers
		}
	}

	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Store.Table == "" {
		cfg.Store.Table = constants.DefaultTable
	}
	if cfg.Store.BusyTimeoutMS <= 0 {
		cfg.Store.BusyTimeoutMS = constants.DefaultBusyTimeoutMS
	}

	file := &cfg.Sources.File
	if file.PollInterval <= 0 {
		file.PollInterval = constants.DefaultPollInterval
	}
	if file.CursorFlushCount <= 0 {
		file.CursorFlushCount = constants.DefaultCursorFlushN
	}
	if file.CursorFlushInterval <= 0 {
		file.CursorFlushInterval = constants.DefaultCursorFlushT
	}
	if file.MaxBatch <= 0 {
		file.MaxBatch = constants.DefaultMaxBatch
	}
	if file.Enabled && file.CursorPath == "" {
		file.CursorPath = file.Path + ".cursor"
	}

	kafka := &cfg.Sources.Kafka
	if kafka.MaxBatch <= 0 {
		kafka.MaxBatch = constants.DefaultMaxBatch
	}
	if kafka.BatchWait <= 0 {
		kafka.BatchWait = constants.DefaultKafkaBatchWait
	}
	applyRetryDefaults(&kafka.Connect, constants.DefaultConnectAttempts, constants.DefaultConnectInterval, constants.DefaultConnectMaxWait)

	applyRetryDefaults(&cfg.Pipeline.InsertRetry, constants.DefaultInsertAttempts, constants.DefaultInsertInterval, constants.DefaultInsertMaxWait)
}

func applyRetryDefaults(rc *RetryConfig, attempts int, initial, max time.Duration) {
	if rc.MaxAttempts <= 0 {
		rc.MaxAttempts = attempts
	}
	if rc.InitialInterval <= 0 {
		rc.InitialInterval = initial
	}
	if rc.MaxInterval <= 0 {
		rc.MaxInterval = max
	}
	if rc.Multiplier <= 0 {
		rc.Multiplier = constants.DefaultRetryMultiplier
	}
}
