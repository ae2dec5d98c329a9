package youtube

import (
	"context"
	"time"
)

// VideoCandidate is an ephemeral record produced by channel
// enumeration. It lives for one poll; only videos that survive the
// pipeline become durable records.
type VideoCandidate struct {
	ID          string
	Title       string
	Description string
	ChannelName string
	PublishedAt time.Time
	Duration    time.Duration
	Restricted  bool
}

// IsShort reports whether the candidate is a short-form video.
// Enumeration sources that cannot determine duration report zero, which
// never counts as a short.
func (c VideoCandidate) IsShort() bool {
	return c.Duration > 0 && c.Duration <= 60*time.Second
}

func (c VideoCandidate) URL() string {
	return "https://youtube.com/watch?v=" + c.ID
}

// ChannelLister enumerates the most recent uploads of a channel,
// newest first.
type ChannelLister interface {
	ListLatest(ctx context.Context, channelURL, handle string, count int) ([]VideoCandidate, error)
}
