package config

import (
	"fmt"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func ValidateStatic(cfg *Config) error {
	var errors []error

	if err := validateServer(cfg.Server); err != nil {
		errors = append(errors, err)
	}

	if err := validateStore(cfg.Store); err != nil {
		errors = append(errors, err)
	}

	if err := validateSources(cfg.Sources); err != nil {
		errors = append(errors, err)
	}

	if err := validateRetry("pipeline.insert_retry", cfg.Pipeline.InsertRetry); err != nil {
		errors = append(errors, err)
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errors)
	}

	return nil
}

func validateServer(cfg ServerConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return &ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		}
	}

	if cfg.ReadTimeoutSeconds <= 0 {
		return &ValidationError{
			Field:   "server.read_timeout_seconds",
			Message: "read timeout must be positive",
		}
	}

	if cfg.WriteTimeoutSeconds <= 0 {
		return &ValidationError{
			Field:   "server.write_timeout_seconds",
			Message: "write timeout must be positive",
		}
	}

	return nil
}

func validateStore(cfg StoreConfig) error {
	if cfg.Path == "" {
		return &ValidationError{
			Field:   "store.path",
			Message: "database path is required",
		}
	}

	if cfg.Table == "" {
		return &ValidationError{
			Field:   "store.table",
			Message: "table name is required",
		}
	}

	return nil
}

func validateSources(cfg SourcesConfig) error {
	if !cfg.File.Enabled && !cfg.Kafka.Enabled {
		return &ValidationError{
			Field:   "sources",
			Message: "at least one source must be enabled",
		}
	}

	if cfg.File.Enabled {
		if err := validateFileSource(cfg.File); err != nil {
			return err
		}
	}

	if cfg.Kafka.Enabled {
		if err := validateKafkaSource(cfg.Kafka); err != nil {
			return err
		}
	}

	return nil
}

func validateFileSource(cfg FileSourceConfig) error {
	if cfg.Path == "" {
		return &ValidationError{
			Field:   "sources.file.path",
			Message: "feed file path is required",
		}
	}

	if cfg.PollInterval <= 0 {
		return &ValidationError{
			Field:   "sources.file.poll_interval",
			Message: "poll interval must be positive",
		}
	}

	if cfg.CursorPath == "" {
		return &ValidationError{
			Field:   "sources.file.cursor_path",
			Message: "cursor path is required",
		}
	}

	if cfg.CursorFlushCount <= 0 {
		return &ValidationError{
			Field:   "sources.file.cursor_flush_count",
			Message: "cursor flush count must be positive",
		}
	}

	return nil
}

func validateKafkaSource(cfg KafkaSourceConfig) error {
	if len(cfg.Brokers) == 0 {
		return &ValidationError{
			Field:   "sources.kafka.brokers",
			Message: "at least one Kafka broker is required",
		}
	}

	for i, broker := range cfg.Brokers {
		if broker == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("sources.kafka.brokers[%d]", i),
				Message: "broker address cannot be empty",
			}
		}
	}

	if cfg.Topic == "" {
		return &ValidationError{
			Field:   "sources.kafka.topic",
			Message: "Kafka topic is required",
		}
	}

	if cfg.GroupID == "" {
		return &ValidationError{
			Field:   "sources.kafka.group_id",
			Message: "Kafka consumer group ID is required",
		}
	}

	return validateRetry("sources.kafka.connect", cfg.Connect)
}

func validateRetry(field string, cfg RetryConfig) error {
	if cfg.MaxAttempts < 1 {
		return &ValidationError{
			Field:   field + ".max_attempts",
			Message: "max_attempts must be at least 1",
		}
	}

	if cfg.InitialInterval < 0 {
		return &ValidationError{
			Field:   field + ".initial_interval",
			Message: "initial_interval must be non-negative",
		}
	}

	if cfg.MaxInterval > 0 && cfg.InitialInterval > 0 && cfg.MaxInterval < cfg.InitialInterval {
		return &ValidationError{
			Field:   field + ".max_interval",
			Message: "max_interval must be greater than or equal to initial_interval",
		}
	}

	if cfg.Multiplier <= 0 {
		return &ValidationError{
			Field:   field + ".multiplier",
			Message: "multiplier must be positive",
		}
	}

	return nil
}
