package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"pulsefeed/internal/logger"
	"pulsefeed/internal/record"
)

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(FULL)", dbPath)

	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	adapter := NewAdapter(db, "messages", logger.NopLogger())
	require.NoError(t, adapter.Initialize(context.Background()))
	return adapter
}

func testRecord(body string) record.MessageRecord {
	return record.MessageRecord{
		Timestamp:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Author:          "alice",
		Category:        "news",
		Body:            body,
		SentimentScore:  0.8,
		KeywordMentions: []string{"phone"},
		BodyLength:      len(body),
	}
}

func TestInitialize_Idempotent(t *testing.T) {
	adapter := newTestAdapter(t)

	require.NoError(t, adapter.Initialize(context.Background()))
	require.NoError(t, adapter.Initialize(context.Background()))
}

func TestInsert_AssignsIncreasingIDs(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	var prev int64
	for i := 0; i < 5; i++ {
		id, err := adapter.Insert(ctx, testRecord(fmt.Sprintf("message %d", i)))
		require.NoError(t, err)
		assert.Greater(t, id, prev)
		prev = id
	}

	count, err := adapter.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestInsert_EmptyBodyIsConstraintViolation(t *testing.T) {
	adapter := newTestAdapter(t)

	rec := testRecord("")
	_, err := adapter.Insert(context.Background(), rec)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindConstraintViolation))

	count, err := adapter.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestInsert_OutOfRangeSentimentIsConstraintViolation(t *testing.T) {
	adapter := newTestAdapter(t)

	rec := testRecord("fine")
	rec.SentimentScore = 1.5
	_, err := adapter.Insert(context.Background(), rec)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindConstraintViolation))

	rec.SentimentScore = -1.5
	_, err = adapter.Insert(context.Background(), rec)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindConstraintViolation))
}

func TestInsert_RoundTripsFields(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	rec := testRecord("I love this phone")
	rec.KeywordMentions = []string{"laptop", "phone"}
	id, err := adapter.Insert(ctx, rec)
	require.NoError(t, err)

	var (
		ts, author, category, body, keywords string
		sentiment                            float64
		bodyLength                           int
	)
	row := adapter.db.QueryRowContext(ctx,
		"SELECT ts, author, category, body, sentiment, keywords, body_length FROM messages WHERE id = ?", id)
	require.NoError(t, row.Scan(&ts, &author, &category, &body, &sentiment, &keywords, &bodyLength))

	assert.Equal(t, "2024-01-01T00:00:00Z", ts)
	assert.Equal(t, "alice", author)
	assert.Equal(t, "news", category)
	assert.Equal(t, "I love this phone", body)
	assert.InDelta(t, 0.8, sentiment, 1e-9)
	assert.Equal(t, "laptop,phone", keywords)
	assert.Equal(t, len("I love this phone"), bodyLength)
}

func TestIsKind(t *testing.T) {
	busy := &Error{Kind: KindBusy, Op: "insert", Err: errors.New("locked")}

	assert.True(t, IsKind(busy, KindBusy))
	assert.False(t, IsKind(busy, KindIOFailure))
	assert.True(t, IsKind(fmt.Errorf("wrapped: %w", busy), KindBusy))
	assert.False(t, IsKind(errors.New("plain"), KindBusy))
	assert.False(t, IsKind(nil, KindBusy))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "busy", KindBusy.String())
	assert.Equal(t, "io_failure", KindIOFailure.String())
	assert.Equal(t, "constraint_violation", KindConstraintViolation.String())
}
