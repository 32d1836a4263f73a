package source

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"pulsefeed/internal/config"
	"pulsefeed/internal/logger"
	"pulsefeed/pkg/metrics"
	"pulsefeed/pkg/retry"
)

type kafkaState int

const (
	kafkaStateConnecting kafkaState = iota
	kafkaStateSubscribed
	kafkaStateFailed
)

func (s kafkaState) String() string {
	switch s {
	case kafkaStateSubscribed:
		return "subscribed"
	case kafkaStateFailed:
		return "failed"
	default:
		return "connecting"
	}
}

// messageReader is the slice of kafka.Reader this source needs.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSource subscribes to a topic through a consumer group. Offset
// bookkeeping belongs to the broker: the previously yielded batch is
// committed when the next one is fetched, which gives at-least-once
// delivery without re-implementing offset management here.
type KafkaSource struct {
	cfg    config.KafkaSourceConfig
	logger logger.Logger

	reader  messageReader
	state   kafkaState
	pending []kafka.Message
}

func NewKafkaSource(cfg config.KafkaSourceConfig, log logger.Logger) *KafkaSource {
	return &KafkaSource{
		cfg:    cfg,
		logger: log,
		state:  kafkaStateConnecting,
	}
}

func (s *KafkaSource) Name() string {
	return NameKafka
}

// State reports the connection state ("connecting", "subscribed", "failed").
func (s *KafkaSource) State() string {
	return s.state.String()
}

// Open dials the configured brokers with bounded backoff. On exhaustion the
// source transitions to failed and stays there; this is fatal for this
// source's loop but must not affect other sources in the process.
func (s *KafkaSource) Open(ctx context.Context) error {
	policy := retry.Policy{
		MaxAttempts:     s.cfg.Connect.MaxAttempts,
		InitialInterval: s.cfg.Connect.InitialInterval,
		MaxInterval:     s.cfg.Connect.MaxInterval,
		Multiplier:      s.cfg.Connect.Multiplier,
	}

	err := retry.RetryWithCallback(ctx, policy, func() error {
		return s.dialAny(ctx)
	}, func(attempt int, err error, nextDelay time.Duration) {
		s.logger.WarnwCtx(ctx, "Broker unreachable, retrying",
			"attempt", attempt,
			"max_attempts", policy.MaxAttempts,
			"next_delay", nextDelay,
			"error", err,
		)
	})
	if err != nil {
		s.state = kafkaStateFailed
		return fmt.Errorf("%w: broker unreachable after %d attempts: %v", ErrSourceFailed, policy.MaxAttempts, err)
	}

	s.reader = kafka.NewReader(kafka.ReaderConfig{
		Brokers:  s.cfg.Brokers,
		GroupID:  s.cfg.GroupID,
		Topic:    s.cfg.Topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	s.state = kafkaStateSubscribed

	s.logger.InfowCtx(ctx, "Subscribed to topic",
		"topic", s.cfg.Topic,
		"brokers", s.cfg.Brokers,
		"group_id", s.cfg.GroupID,
	)
	return nil
}

func (s *KafkaSource) dialAny(ctx context.Context) error {
	var lastErr error
	for _, addr := range s.cfg.Brokers {
		conn, err := kafka.DialContext(ctx, "tcp", addr)
		if err == nil {
			conn.Close()
			return nil
		}
		lastErr = err
	}
	return lastErr
}

// Fetch commits the previously yielded batch, then blocks for the next
// message and drains whatever else arrives within the batch wait.
func (s *KafkaSource) Fetch(ctx context.Context) ([]RawMessage, error) {
	if s.state == kafkaStateFailed {
		return nil, ErrSourceFailed
	}

	s.commitPending(ctx)

	head, err := s.reader.FetchMessage(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("fetch from topic %s: %w", s.cfg.Topic, err)
	}

	msgs := []kafka.Message{head}
	batch := []RawMessage{s.toRaw(head)}

	drainCtx, cancel := context.WithTimeout(ctx, s.cfg.BatchWait)
	for len(batch) < s.cfg.MaxBatch {
		m, err := s.reader.FetchMessage(drainCtx)
		if err != nil {
			break
		}
		msgs = append(msgs, m)
		batch = append(batch, s.toRaw(m))
	}
	cancel()

	s.pending = msgs
	metrics.ObserveSourceBatchSize(NameKafka, len(batch))
	return batch, nil
}

func (s *KafkaSource) toRaw(m kafka.Message) RawMessage {
	return RawMessage{
		ID:      uuid.NewString(),
		Payload: string(m.Value),
		Origin:  NameKafka,
		Offset:  m.Offset,
	}
}

func (s *KafkaSource) commitPending(ctx context.Context) {
	if len(s.pending) == 0 {
		return
	}
	if err := s.reader.CommitMessages(ctx, s.pending...); err != nil {
		s.logger.WarnwCtx(ctx, "Failed to commit offsets, messages may be redelivered",
			"topic", s.cfg.Topic,
			"error", err,
		)
	}
	s.pending = nil
}

func (s *KafkaSource) Close() error {
	if s.reader == nil {
		return nil
	}
	s.commitPending(context.Background())
	return s.reader.Close()
}
