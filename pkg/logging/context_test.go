package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	ctx = WithMessageID(ctx, "msg-1")
	ctx = WithSource(ctx, "file")
	ctx = WithServiceName(ctx, "ingest-service")

	assert.Equal(t, "msg-1", GetMessageID(ctx))
	assert.Equal(t, "file", GetSource(ctx))
	assert.Equal(t, "ingest-service", GetServiceName(ctx))
}

func TestEmptyContext(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, GetMessageID(ctx))
	assert.Empty(t, GetSource(ctx))
	assert.Empty(t, GetServiceName(ctx))
	assert.Empty(t, GetLogFields(ctx))
}

func TestGetLogFields(t *testing.T) {
	ctx := WithSource(WithMessageID(context.Background(), "msg-2"), "kafka")

	fields := GetLogFields(ctx)
	assert.Equal(t, []interface{}{"message_id", "msg-2", "source", "kafka"}, fields)
}
