package youtube

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/text/language"

	"github.com/tubewatch/tubewatch/app/transcript"
)

var _ transcript.CaptionFetcher = (*CaptionClient)(nil)

// CaptionClient retrieves caption tracks through the timedtext
// endpoint. A video may carry manually authored tracks, auto-generated
// ("asr") tracks, or tracks translatable into the working language;
// each maps to one waterfall tier.
type CaptionClient struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	target     language.Tag
	matcher    language.Matcher
}

func NewCaptionClient(httpClient *http.Client, userAgent string) *CaptionClient {
	target := language.English
	return &CaptionClient{
		baseURL:    "https://www.youtube.com/api/timedtext",
		httpClient: httpClient,
		userAgent:  userAgent,
		target:     target,
		matcher:    language.NewMatcher([]language.Tag{target}),
	}
}

type captionTrack struct {
	LangCode string `xml:"lang_code,attr"`
	Name     string `xml:"name,attr"`
	Kind     string `xml:"kind,attr"`
}

type trackList struct {
	Tracks []captionTrack `xml:"track"`
}

type timedText struct {
	Lines []string `xml:"text"`
}

func (c *CaptionClient) Fetch(ctx context.Context, videoID string, tier transcript.Tier) (string, error) {
	tracks, err := c.listTracks(ctx, videoID)
	if err != nil {
		return "", err
	}
	if len(tracks) == 0 {
		return "", fmt.Errorf("video %s: %w", videoID, transcript.ErrUnavailable)
	}

	track, translate, err := c.selectTrack(tracks, tier)
	if err != nil {
		return "", fmt.Errorf("video %s: %w", videoID, err)
	}

	text, err := c.fetchTrack(ctx, videoID, track, translate)
	if err != nil {
		return "", fmt.Errorf("video %s: failed to fetch %s captions: %w", videoID, tier, err)
	}
	if text == "" {
		return "", fmt.Errorf("video %s: empty caption track: %w", videoID, transcript.ErrUnavailable)
	}

	return text, nil
}

// selectTrack picks the caption track serving the requested tier. The
// manual and auto tiers require a track in the working language; the
// translated tier takes any track and requests server-side translation.
func (c *CaptionClient) selectTrack(tracks []captionTrack, tier transcript.Tier) (captionTrack, bool, error) {
	switch tier {
	case transcript.TierManual:
		for _, track := range tracks {
			if track.Kind != "asr" && c.matchesTarget(track.LangCode) {
				return track, false, nil
			}
		}
	case transcript.TierAuto:
		for _, track := range tracks {
			if track.Kind == "asr" && c.matchesTarget(track.LangCode) {
				return track, false, nil
			}
		}
	case transcript.TierTranslated:
		return tracks[0], true, nil
	}
	return captionTrack{}, false, fmt.Errorf("no %s caption track: %w", tier, transcript.ErrUnavailable)
}

func (c *CaptionClient) matchesTarget(langCode string) bool {
	tag, err := language.Parse(langCode)
	if err != nil {
		return false
	}
	_, _, confidence := c.matcher.Match(tag)
	return confidence >= language.High
}

func (c *CaptionClient) listTracks(ctx context.Context, videoID string) ([]captionTrack, error) {
	params := url.Values{}
	params.Set("type", "list")
	params.Set("v", videoID)

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list caption tracks: %w", err)
	}
	if len(body) == 0 {
		return nil, nil
	}

	var list trackList
	if err := xml.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to parse track list: %w", err)
	}

	return list.Tracks, nil
}

func (c *CaptionClient) fetchTrack(ctx context.Context, videoID string, track captionTrack, translate bool) (string, error) {
	params := url.Values{}
	params.Set("v", videoID)
	params.Set("lang", track.LangCode)
	if track.Name != "" {
		params.Set("name", track.Name)
	}
	if track.Kind != "" {
		params.Set("kind", track.Kind)
	}
	if translate {
		params.Set("tlang", c.target.String())
	}

	body, err := c.get(ctx, params)
	if err != nil {
		return "", err
	}

	var text timedText
	if err := xml.Unmarshal(body, &text); err != nil {
		return "", fmt.Errorf("failed to parse caption track: %w", err)
	}

	lines := make([]string, 0, len(text.Lines))
	for _, line := range text.Lines {
		line = strings.TrimSpace(html.UnescapeString(line))
		if line != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, " "), nil
}

func (c *CaptionClient) get(ctx context.Context, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, transcript.ErrUnavailable
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
}
