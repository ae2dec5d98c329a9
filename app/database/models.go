package database

import (
	"time"

	"github.com/tubewatch/tubewatch/app/transcript"
)

// VideoRecord is the durable unit of work: one row per processed video.
// Records are append-only; they are created once at successful
// summarization and never mutated.
type VideoRecord struct {
	ID              int64
	VideoID         string
	ChannelName     string
	Title           string
	URL             string
	PublishedAt     time.Time
	ProcessedAt     time.Time
	SourceType      transcript.Source
	Summary         string
	KeyTopics       string
	Recommendations string
	ActionItems     string
	DurationSeconds int
	CreatedAt       time.Time
}

// Filters narrows search and listing queries.
type Filters struct {
	From    *time.Time
	Channel string
	Limit   int
}

// Stats summarizes the stored corpus.
type Stats struct {
	Total        int
	ByChannel    map[string]int
	BySourceType map[string]int
	DateRange    DateRange
}

type DateRange struct {
	From *time.Time
	To   *time.Time
}
