package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pulsefeed/internal/config"
	"pulsefeed/internal/constants"
	"pulsefeed/internal/logger"
	"pulsefeed/internal/record"
	"pulsefeed/internal/source"
	"pulsefeed/internal/store"
	"pulsefeed/pkg/logging"
	"pulsefeed/pkg/metrics"
	"pulsefeed/pkg/retry"
)

// Analyzer enriches a parsed record with its sentiment signal.
type Analyzer interface {
	Score(text string) float64
	Keywords(text string) []string
}

// Store persists one record and returns its assigned id.
type Store interface {
	Insert(ctx context.Context, rec record.MessageRecord) (int64, error)
}

// Runner drives one source through parse, score, persist. A failure in any
// single message never terminates the loop; only source.ErrSourceFailed or
// context cancellation ends it.
type Runner struct {
	source       source.Source
	analyzer     Analyzer
	store        Store
	policy       retry.Policy
	fetchErrWait time.Duration
	logger       logger.Logger
}

func NewRunner(src source.Source, analyzer Analyzer, st Store, cfg config.PipelineConfig, log logger.Logger) *Runner {
	return &Runner{
		source:   src,
		analyzer: analyzer,
		store:    st,
		policy: retry.Policy{
			MaxAttempts:     cfg.InsertRetry.MaxAttempts,
			InitialInterval: cfg.InsertRetry.InitialInterval,
			MaxInterval:     cfg.InsertRetry.MaxInterval,
			Multiplier:      cfg.InsertRetry.Multiplier,
		},
		fetchErrWait: constants.DefaultFetchErrorWait,
		logger:       log,
	}
}

func (r *Runner) SourceName() string {
	return r.source.Name()
}

// Run opens the source and processes batches until ctx is cancelled or the
// source fails. Cancellation is observed between messages; the in-flight
// record always finishes, and the source's Close performs the final cursor
// persist.
func (r *Runner) Run(ctx context.Context) error {
	rctx := logging.WithSource(ctx, r.source.Name())

	if err := r.source.Open(rctx); err != nil {
		return fmt.Errorf("open %s source: %w", r.source.Name(), err)
	}
	defer r.source.Close()

	r.logger.InfowCtx(rctx, "Pipeline started")
	metrics.SetSourceUp(r.source.Name(), true)
	defer metrics.SetSourceUp(r.source.Name(), false)

	for {
		if err := ctx.Err(); err != nil {
			r.logger.InfowCtx(rctx, "Pipeline stopping")
			return err
		}

		batch, err := r.source.Fetch(rctx)
		if err != nil {
			if ctx.Err() != nil {
				r.logger.InfowCtx(rctx, "Pipeline stopping")
				return ctx.Err()
			}
			if errors.Is(err, source.ErrSourceFailed) {
				r.logger.ErrorwCtx(rctx, "Source failed, pipeline terminating",
					"error", err,
				)
				return err
			}
			metrics.IncSourceFetchError(r.source.Name())
			r.logger.ErrorwCtx(rctx, "Fetch error",
				"error", err,
			)
			// A persistent fetch failure must not busy-spin the loop.
			select {
			case <-ctx.Done():
			case <-time.After(r.fetchErrWait):
			}
			continue
		}

		for _, msg := range batch {
			r.process(rctx, msg)
		}
	}
}

func (r *Runner) process(ctx context.Context, msg source.RawMessage) {
	defer func() {
		if rec := recover(); rec != nil {
			metrics.IncMessage(r.source.Name(), "dropped")
			r.logger.ErrorwCtx(ctx, "Panic while processing message, message dropped",
				"panic", rec,
				"offset", msg.Offset,
			)
		}
	}()

	mctx := logging.WithMessageID(ctx, msg.ID)

	rec, err := record.Parse(msg.Payload)
	if err != nil {
		var parseErr *record.ParseError
		reason := err.Error()
		if errors.As(err, &parseErr) {
			reason = parseErr.Reason
		}
		metrics.IncMessage(r.source.Name(), "parse_error")
		r.logger.WarnwCtx(mctx, "Dropping malformed message",
			"reason", reason,
			"offset", msg.Offset,
		)
		return
	}

	rec.SentimentScore = r.analyzer.Score(rec.Body)
	rec.KeywordMentions = r.analyzer.Keywords(rec.Body)

	id, err := r.insertWithRetry(mctx, rec)
	if err != nil {
		metrics.IncMessage(r.source.Name(), "dropped")
		r.logger.ErrorwCtx(mctx, "Dropping message after failed insert",
			"error", err,
			"offset", msg.Offset,
		)
		return
	}

	metrics.IncMessage(r.source.Name(), "stored")
	metrics.ObserveSentiment(r.source.Name(), rec.SentimentScore)
	r.logger.DebugwCtx(mctx, "Message stored",
		"record_id", id,
		"sentiment", rec.SentimentScore,
		"keywords", rec.KeywordMentions,
	)
}

// insertWithRetry retries Busy with bounded backoff; IOFailure and
// ConstraintViolation are never retried. The insert runs on a detached
// context so a shutdown mid-record lets the in-flight insert finish.
func (r *Runner) insertWithRetry(ctx context.Context, rec record.MessageRecord) (int64, error) {
	insertCtx := context.WithoutCancel(ctx)

	var id int64
	err := retry.RetryWithCallback(insertCtx, r.policy, func() error {
		var err error
		id, err = r.store.Insert(insertCtx, rec)
		if err == nil {
			return nil
		}
		if store.IsKind(err, store.KindBusy) {
			return retry.NewRetryableError(err)
		}
		return retry.NewFatalError(err)
	}, func(attempt int, err error, nextDelay time.Duration) {
		metrics.IncInsertRetry(r.source.Name())
		r.logger.WarnwCtx(ctx, "Store busy, retrying insert",
			"attempt", attempt,
			"max_attempts", r.policy.MaxAttempts,
			"next_delay", nextDelay,
			"error", err,
		)
	})
	return id, err
}
