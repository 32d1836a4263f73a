package record

import (
	"fmt"
	"strings"
	"time"

	"pulsefeed/internal/constants"
)

const fieldSeparator = "|"

// Accepted timestamp layouts, tried in order. Anything else falls back to
// ingestion time rather than rejecting the message.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "parse error: " + e.Reason
}

// Parse decodes one raw payload of the form
// "timestamp=...|author=...|category=...|body=..." into a MessageRecord.
// body is mandatory and must be non-empty; author and category default to
// "unknown"; unknown keys are ignored. Returns *ParseError on malformed
// input. No side effects.
func Parse(payload string) (MessageRecord, error) {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return MessageRecord{}, &ParseError{Reason: "empty payload"}
	}

	rec := MessageRecord{
		Author:   constants.FieldUnknown,
		Category: constants.FieldUnknown,
	}

	var bodySeen bool
	for _, field := range strings.Split(trimmed, fieldSeparator) {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return MessageRecord{}, &ParseError{Reason: fmt.Sprintf("field %q is not key=value", field)}
		}

		switch strings.TrimSpace(key) {
		case "timestamp":
			rec.Timestamp = parseTimestamp(value)
		case "author":
			if value != "" {
				rec.Author = value
			}
		case "category":
			if value != "" {
				rec.Category = value
			}
		case "body":
			bodySeen = true
			rec.Body = value
		}
	}

	if !bodySeen || strings.TrimSpace(rec.Body) == "" {
		return MessageRecord{}, &ParseError{Reason: "missing or empty body"}
	}

	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	rec.BodyLength = len(rec.Body)

	return rec, nil
}

func parseTimestamp(value string) time.Time {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}
