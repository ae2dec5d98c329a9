package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

var _ ChannelLister = (*DataAPILister)(nil)

// DataAPILister enumerates channel uploads through the YouTube Data API
// v3. It is the primary enumeration source: it reports duration and
// privacy status, which the RSS feed cannot.
type DataAPILister struct {
	service *youtube.Service

	mu         sync.Mutex
	channelIDs map[string]string // handle -> resolved channel ID
}

func NewDataAPILister(ctx context.Context, apiKey string) (*DataAPILister, error) {
	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}

	return &DataAPILister{
		service:    service,
		channelIDs: make(map[string]string),
	}, nil
}

// candidateFetchLimit is how many uploads are requested before local
// filtering trims the list to the profile's videos_per_channel.
const candidateFetchLimit = 15

func (l *DataAPILister) ListLatest(ctx context.Context, channelURL, handle string, count int) ([]VideoCandidate, error) {
	channelID, err := l.resolveChannelID(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve channel %s: %w", handle, err)
	}

	searchResp, err := l.service.Search.List([]string{"snippet"}).
		ChannelId(channelID).
		Type("video").
		Order("date").
		MaxResults(candidateFetchLimit).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list channel uploads: %w", err)
	}

	videoIDs := make([]string, 0, len(searchResp.Items))
	for _, item := range searchResp.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			videoIDs = append(videoIDs, item.Id.VideoId)
		}
	}
	if len(videoIDs) == 0 {
		return nil, nil
	}

	detailsResp, err := l.service.Videos.List([]string{"contentDetails", "status", "snippet"}).
		Id(videoIDs...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video details: %w", err)
	}

	candidates := make([]VideoCandidate, 0, count)
	for _, video := range detailsResp.Items {
		if len(candidates) >= count {
			break
		}

		publishedAt, err := time.Parse(time.RFC3339, video.Snippet.PublishedAt)
		if err != nil {
			slog.Warn("Unparseable publish date", "video_id", video.Id, "value", video.Snippet.PublishedAt)
			continue
		}

		restricted := video.Status != nil && video.Status.PrivacyStatus != "public"

		candidates = append(candidates, VideoCandidate{
			ID:          video.Id,
			Title:       video.Snippet.Title,
			Description: video.Snippet.Description,
			ChannelName: video.Snippet.ChannelTitle,
			PublishedAt: publishedAt,
			Duration:    parseISODuration(video.ContentDetails.Duration),
			Restricted:  restricted,
		})
	}

	return candidates, nil
}

// resolveChannelID finds the channel ID for a handle. Resolutions are
// cached for the process lifetime; handles do not change between runs.
func (l *DataAPILister) resolveChannelID(ctx context.Context, handle string) (string, error) {
	l.mu.Lock()
	if id, ok := l.channelIDs[handle]; ok {
		l.mu.Unlock()
		return id, nil
	}
	l.mu.Unlock()

	query := strings.TrimPrefix(handle, "@")

	resp, err := l.service.Search.List([]string{"snippet"}).
		Q(query).
		Type("channel").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("channel search failed: %w", err)
	}
	if len(resp.Items) == 0 {
		return "", fmt.Errorf("no channel found for handle %s", handle)
	}

	id := resp.Items[0].Snippet.ChannelId

	l.mu.Lock()
	l.channelIDs[handle] = id
	l.mu.Unlock()

	return id, nil
}
