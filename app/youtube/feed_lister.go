package youtube

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

var _ ChannelLister = (*FeedLister)(nil)

// FeedLister enumerates channel uploads through the channel's public
// RSS feed (https://www.youtube.com/feeds/videos.xml). It needs no API
// key but cannot report duration or restriction status; those filters
// resolve later, when caption or audio retrieval fails for a
// restricted video. Used when no Data API key is configured.
type FeedLister struct {
	httpClient *http.Client
	userAgent  string
}

func NewFeedLister(httpClient *http.Client, userAgent string) *FeedLister {
	return &FeedLister{
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

func (l *FeedLister) ListLatest(ctx context.Context, channelURL, handle string, count int) ([]VideoCandidate, error) {
	feedURL, err := uploadsFeedURL(channelURL)
	if err != nil {
		return nil, err
	}

	feed, err := l.fetchFeed(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch uploads feed for %s: %w", handle, err)
	}

	candidates := make([]VideoCandidate, 0, count)
	for _, item := range feed.Items {
		if len(candidates) >= count {
			break
		}

		videoID := feedVideoID(item)
		if videoID == "" {
			continue
		}

		var publishedAt time.Time
		if item.PublishedParsed != nil {
			publishedAt = *item.PublishedParsed
		}

		candidates = append(candidates, VideoCandidate{
			ID:          videoID,
			Title:       item.Title,
			Description: item.Description,
			ChannelName: feed.Title,
			PublishedAt: publishedAt,
		})
	}

	return candidates, nil
}

func (l *FeedLister) fetchFeed(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", l.userAgent)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	return feed, nil
}

// uploadsFeedURL derives the uploads feed URL from a channel URL. Only
// /channel/<id> URLs carry the channel ID; handle URLs require the Data
// API for resolution.
func uploadsFeedURL(channelURL string) (string, error) {
	if strings.Contains(channelURL, "/feeds/videos.xml") {
		return channelURL, nil
	}

	marker := "/channel/"
	idx := strings.Index(channelURL, marker)
	if idx < 0 {
		return "", fmt.Errorf("cannot derive uploads feed from %s: use a /channel/<id> URL or configure a YouTube API key", channelURL)
	}

	channelID := channelURL[idx+len(marker):]
	if end := strings.IndexAny(channelID, "/?"); end >= 0 {
		channelID = channelID[:end]
	}
	if channelID == "" {
		return "", fmt.Errorf("empty channel ID in %s", channelURL)
	}

	return "https://www.youtube.com/feeds/videos.xml?channel_id=" + channelID, nil
}

func feedVideoID(item *gofeed.Item) string {
	if ext, ok := item.Extensions["yt"]; ok {
		if ids, ok := ext["videoId"]; ok && len(ids) > 0 {
			return ids[0].Value
		}
	}
	// GUID fallback, formatted as "yt:video:<id>"
	if id, ok := strings.CutPrefix(item.GUID, "yt:video:"); ok {
		return id
	}
	return ""
}
