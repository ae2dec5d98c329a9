package transcript

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrUnavailable signals that no caption tier produced a transcript.
// The orchestrator reacts by invoking the audio fallback; transient
// service errors and a definitive "no caption track" both end up here,
// since both leave audio transcription as the only remaining path.
var ErrUnavailable = errors.New("transcript unavailable")

// CaptionFetcher retrieves the transcript text for one caption tier.
type CaptionFetcher interface {
	Fetch(ctx context.Context, videoID string, tier Tier) (string, error)
}

// Acquirer produces a transcript through the caption waterfall:
// manual captions, then auto-generated, then translated. First success
// wins; no retries within a tier.
type Acquirer struct {
	captions CaptionFetcher
}

func NewAcquirer(captions CaptionFetcher) *Acquirer {
	return &Acquirer{captions: captions}
}

func (a *Acquirer) Acquire(ctx context.Context, videoID string) (string, Source, error) {
	for _, tier := range Tiers {
		text, err := a.captions.Fetch(ctx, videoID, tier)
		if err != nil {
			if ctx.Err() != nil {
				return "", "", ctx.Err()
			}
			slog.Debug("Caption tier failed", "video_id", videoID, "tier", string(tier), "error", err)
			continue
		}

		slog.Debug("Caption tier succeeded", "video_id", videoID, "tier", string(tier))
		return text, SourceCaptions, nil
	}

	return "", "", fmt.Errorf("video %s: all caption tiers failed: %w", videoID, ErrUnavailable)
}
