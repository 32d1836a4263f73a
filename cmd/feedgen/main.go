package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/cobra"

	"pulsefeed/internal/config"
	"pulsefeed/internal/feedgen"
	"pulsefeed/internal/logger"
	"pulsefeed/pkg/logging"
)

var (
	configFile string
	interval   time.Duration
	seed       int64
)

// feedgen is a dev tool: it appends synthetic feedback lines to the live
// feed file and, when the broker is reachable, publishes the same lines to
// the configured topic. Broker absence degrades to file-only.
func main() {
	rootCmd := &cobra.Command{
		Use:   "feedgen",
		Short: "Generate a synthetic customer-feedback feed",
		RunE:  run,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (required)")
	rootCmd.PersistentFlags().DurationVar(&interval, "interval", time.Second, "Delay between generated messages")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", time.Now().UnixNano(), "Random seed for the generator")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	earlyLog := logging.NewEarlyLog()

	if configFile == "" {
		configFile = os.Getenv("CONFIG_FILE")
		if configFile == "" {
			earlyLog.Error("Config file is required. Use --config flag or CONFIG_FILE environment variable")
			return fmt.Errorf("config file is required")
		}
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		earlyLog.Error("Failed to load config: %v", err)
		return err
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		earlyLog.Error("Failed to init logger: %v", err)
		return err
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	feedPath := cfg.Sources.File.Path
	if feedPath == "" {
		return fmt.Errorf("sources.file.path is required for feedgen")
	}

	feed, err := os.OpenFile(feedPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open feed file %s: %w", feedPath, err)
	}
	defer feed.Close()

	writer := newKafkaWriter(ctx, cfg, log)
	if writer != nil {
		defer writer.Close()
	}

	gen := feedgen.New(seed)
	log.InfowCtx(ctx, "Feed generator started",
		"feed_path", feedPath,
		"interval", interval,
		"kafka_enabled", writer != nil,
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.InfowCtx(ctx, "Feed generator stopped")
			return nil
		case <-ticker.C:
		}

		line := gen.Next()

		if _, err := feed.WriteString(line + "\n"); err != nil {
			log.ErrorwCtx(ctx, "Failed to append to feed file", "error", err)
			continue
		}

		if writer != nil {
			msg := kafka.Message{
				Key:   []byte(uuid.NewString()),
				Value: []byte(line),
				Time:  time.Now(),
			}
			if err := writer.WriteMessages(ctx, msg); err != nil && !errors.Is(err, context.Canceled) {
				log.WarnwCtx(ctx, "Failed to publish to topic, continuing file-only", "error", err)
			}
		}
	}
}

// newKafkaWriter returns nil when Kafka is disabled or unreachable.
func newKafkaWriter(ctx context.Context, cfg *config.Config, log logger.Logger) *kafka.Writer {
	kcfg := cfg.Sources.Kafka
	if !kcfg.Enabled {
		return nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	conn, err := kafka.DialContext(dialCtx, "tcp", kcfg.Brokers[0])
	if err != nil {
		log.WarnwCtx(ctx, "Broker unreachable, generating file-only",
			"brokers", kcfg.Brokers,
			"error", err,
		)
		return nil
	}
	conn.Close()

	return &kafka.Writer{
		Addr:         kafka.TCP(kcfg.Brokers...),
		Topic:        kcfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Async:        false,
	}
}
