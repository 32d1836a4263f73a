package record

import "time"

// MessageRecord is the parsed, sentiment-enriched unit the store persists.
// ID is assigned by the store on insert; SentimentScore and KeywordMentions
// are filled in by the pipeline after parsing.
type MessageRecord struct {
	ID              int64
	Timestamp       time.Time
	Author          string
	Category        string
	Body            string
	SentimentScore  float64
	KeywordMentions []string
	BodyLength      int
}
