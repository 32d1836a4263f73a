package source

import (
	"context"
	"errors"
)

const (
	NameFile  = "file"
	NameKafka = "kafka"
)

// ErrSourceFailed marks an unrecoverable source condition. It ends that
// source's pipeline loop; other sources in the process are unaffected.
var ErrSourceFailed = errors.New("source failed")

// RawMessage is one unparsed message handed from a source to the pipeline.
// Offset is an opaque resume token: the byte position after the line for
// the file source, the broker partition offset (informational only) for
// Kafka. ID exists purely for log correlation.
type RawMessage struct {
	ID      string
	Payload string
	Origin  string
	Offset  int64
}

// Source produces ordered batches of raw messages from an external feed.
// Fetch blocks until at least one message is available or ctx is done;
// message order within and across batches follows the origin's order.
type Source interface {
	Name() string
	Open(ctx context.Context) error
	Fetch(ctx context.Context) ([]RawMessage, error)
	Close() error
}
