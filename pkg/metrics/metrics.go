package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	MessagesIngestedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_messages_total",
			Help: "Total number of raw messages handled by the pipeline (count)",
		},
		[]string{"source", "status"},
	)

	SentimentScore = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ingest_sentiment_score",
			Help:    "Distribution of sentiment scores for stored records (-1.0 to 1.0)",
			Buckets: []float64{-1.0, -0.6, -0.2, 0, 0.2, 0.6, 1.0},
		},
		[]string{"source"},
	)

	InsertRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_insert_retries_total",
			Help: "Total number of retried store inserts after Busy (count)",
		},
		[]string{"source"},
	)

	InsertDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_insert_duration_ms",
			Help:    "Duration of single-record store inserts in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"status"},
	)

	SourceBatchSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ingest_source_batch_size",
			Help:    "Number of raw messages yielded per source fetch (count)",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250},
		},
		[]string{"source"},
	)

	SourceFetchErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_source_fetch_errors_total",
			Help: "Total number of transient source fetch errors (count)",
		},
		[]string{"source"},
	)

	SourceUp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ingest_source_up",
			Help: "Whether a source pipeline is running (1=running, 0=stopped)",
		},
		[]string{"source"},
	)

	CursorPersistFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_cursor_persist_failures_total",
			Help: "Total number of failed cursor sidecar writes (count)",
		},
	)
)

func RegisterPipelineMetrics() {
	prometheus.MustRegister(MessagesIngestedTotal)
	prometheus.MustRegister(SentimentScore)
	prometheus.MustRegister(InsertRetriesTotal)
}

func RegisterSourceMetrics() {
	prometheus.MustRegister(SourceBatchSize)
	prometheus.MustRegister(SourceFetchErrorsTotal)
	prometheus.MustRegister(SourceUp)
	prometheus.MustRegister(CursorPersistFailuresTotal)
}

func RegisterStoreMetrics() {
	prometheus.MustRegister(InsertDuration)
}

func IncMessage(source, status string) {
	MessagesIngestedTotal.WithLabelValues(source, status).Inc()
}

func ObserveSentiment(source string, score float64) {
	SentimentScore.WithLabelValues(source).Observe(score)
}

func IncInsertRetry(source string) {
	InsertRetriesTotal.WithLabelValues(source).Inc()
}

func ObserveInsertDuration(duration time.Duration, status string) {
	InsertDuration.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}

func ObserveSourceBatchSize(source string, size int) {
	SourceBatchSize.WithLabelValues(source).Observe(float64(size))
}

func IncSourceFetchError(source string) {
	SourceFetchErrorsTotal.WithLabelValues(source).Inc()
}

func SetSourceUp(source string, up bool) {
	v := 0.0
	if up {
		v = 1.0
	}
	SourceUp.WithLabelValues(source).Set(v)
}

func IncCursorPersistFailure() {
	CursorPersistFailuresTotal.Inc()
}
