package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"pulsefeed/internal/logger"
	"pulsefeed/internal/record"
	"pulsefeed/pkg/metrics"
)

// Adapter owns schema and insert semantics for the embedded database.
// Writes are serialized through a single mutex because SQLite has one
// writer; every insert commits synchronously before returning.
type Adapter struct {
	db     *sql.DB
	table  string
	mu     sync.Mutex
	logger logger.Logger
}

func NewAdapter(db *sql.DB, table string, log logger.Logger) *Adapter {
	return &Adapter{
		db:     db,
		table:  table,
		logger: log,
	}
}

// Initialize ensures the target table exists. Idempotent; called on every
// process start.
func (a *Adapter) Initialize(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ts TEXT NOT NULL,
			author TEXT NOT NULL,
			category TEXT NOT NULL,
			body TEXT NOT NULL CHECK (length(body) > 0),
			sentiment REAL NOT NULL CHECK (sentiment >= -1.0 AND sentiment <= 1.0),
			keywords TEXT NOT NULL DEFAULT '',
			body_length INTEGER NOT NULL DEFAULT 0
		)
	`, a.table)

	if _, err := a.db.ExecContext(ctx, query); err != nil {
		return classify("initialize", err)
	}

	return nil
}

// Insert appends one record and returns its assigned surrogate id.
// Invariants are checked before touching the database so a bad record
// surfaces as ConstraintViolation, not as a driver error.
func (a *Adapter) Insert(ctx context.Context, rec record.MessageRecord) (int64, error) {
	if strings.TrimSpace(rec.Body) == "" {
		return 0, &Error{Kind: KindConstraintViolation, Op: "insert", Err: errors.New("body must not be empty")}
	}
	if rec.SentimentScore < -1.0 || rec.SentimentScore > 1.0 {
		return 0, &Error{Kind: KindConstraintViolation, Op: "insert", Err: fmt.Errorf("sentiment score %.4f out of range", rec.SentimentScore)}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	query := fmt.Sprintf(`
		INSERT INTO %s (ts, author, category, body, sentiment, keywords, body_length)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.table)

	start := time.Now()
	result, err := a.db.ExecContext(ctx, query,
		rec.Timestamp.UTC().Format(time.RFC3339),
		rec.Author,
		rec.Category,
		rec.Body,
		rec.SentimentScore,
		strings.Join(rec.KeywordMentions, ","),
		rec.BodyLength,
	)
	if err != nil {
		classified := classify("insert", err)
		var storeErr *Error
		errors.As(classified, &storeErr)
		metrics.ObserveInsertDuration(time.Since(start), storeErr.Kind.String())
		return 0, classified
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, classify("insert", err)
	}

	metrics.ObserveInsertDuration(time.Since(start), "ok")
	return id, nil
}

// Count reports the number of persisted records.
func (a *Adapter) Count(ctx context.Context) (int64, error) {
	var count int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", a.table)
	if err := a.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, classify("count", err)
	}
	return count, nil
}
