package main

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulsefeed/internal/config"
	"pulsefeed/internal/logger"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

// A dead broker must fail only the Kafka pipeline; the file pipeline in the
// same process keeps ingesting.
func TestApp_FileSourceSurvivesFailedBroker(t *testing.T) {
	dir := t.TempDir()
	feedPath := filepath.Join(dir, "feed.txt")
	line := "timestamp=2024-01-01T00:00:00|author=alice|category=news|body=I love this\n"
	require.NoError(t, os.WriteFile(feedPath, []byte(line), 0o644))

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:                freePort(t),
			ReadTimeoutSeconds:  10,
			WriteTimeoutSeconds: 10,
		},
		Logging: config.LoggingConfig{Level: "error"},
		Store: config.StoreConfig{
			Path:          filepath.Join(dir, "feedback.db"),
			Table:         "messages",
			BusyTimeoutMS: 5000,
		},
		Sources: config.SourcesConfig{
			File: config.FileSourceConfig{
				Enabled:             true,
				Path:                feedPath,
				PollInterval:        10 * time.Millisecond,
				CursorPath:          feedPath + ".cursor",
				CursorFlushCount:    1,
				CursorFlushInterval: time.Minute,
				MaxBatch:            100,
			},
			Kafka: config.KafkaSourceConfig{
				Enabled:   true,
				Brokers:   []string{"127.0.0.1:1"},
				Topic:     "customer_feedback",
				GroupID:   "test-group",
				MaxBatch:  10,
				BatchWait: 50 * time.Millisecond,
				Connect: config.RetryConfig{
					MaxAttempts:     1,
					InitialInterval: 10 * time.Millisecond,
					MaxInterval:     20 * time.Millisecond,
					Multiplier:      2.0,
				},
			},
		},
		Pipeline: config.PipelineConfig{
			InsertRetry: config.RetryConfig{
				MaxAttempts:     3,
				InitialInterval: time.Millisecond,
				MaxInterval:     5 * time.Millisecond,
				Multiplier:      2.0,
			},
		},
	}

	app := NewApp(cfg, logger.NopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, app.Initialize(ctx))
	require.Len(t, app.runners, 2)

	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	// The file line lands in the store even though the broker never answers.
	require.Eventually(t, func() bool {
		count, err := app.store.Count(context.Background())
		return err == nil && count == 1
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		if err != nil {
			assert.ErrorIs(t, err, context.Canceled)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after cancellation")
	}

	require.NoError(t, app.Shutdown(context.Background()))
}
