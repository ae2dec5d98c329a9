package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUploadsFeedURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "channel URL",
			input: "https://www.youtube.com/channel/UCabc123",
			want:  "https://www.youtube.com/feeds/videos.xml?channel_id=UCabc123",
		},
		{
			name:  "channel URL with trailing path",
			input: "https://www.youtube.com/channel/UCabc123/videos",
			want:  "https://www.youtube.com/feeds/videos.xml?channel_id=UCabc123",
		},
		{
			name:  "explicit feed URL passes through",
			input: "https://www.youtube.com/feeds/videos.xml?channel_id=UCabc123",
			want:  "https://www.youtube.com/feeds/videos.xml?channel_id=UCabc123",
		},
		{
			name:    "handle URL needs the Data API",
			input:   "https://www.youtube.com/@FinTek",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := uploadsFeedURL(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("uploadsFeedURL failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

const sampleUploadsFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns="http://www.w3.org/2005/Atom">
  <title>FinTek</title>
  <entry>
    <id>yt:video:vid1</id>
    <yt:videoId>vid1</yt:videoId>
    <title>Market Outlook</title>
    <published>2025-06-01T12:00:00+00:00</published>
  </entry>
  <entry>
    <id>yt:video:vid2</id>
    <yt:videoId>vid2</yt:videoId>
    <title>Earnings Recap</title>
    <published>2025-05-30T09:00:00+00:00</published>
  </entry>
</feed>`

func TestFeedListerListLatest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.String(), "channel_id=UCabc123") {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(sampleUploadsFeed))
	}))
	defer server.Close()

	lister := NewFeedLister(server.Client(), "test-agent")

	candidates, err := lister.ListLatest(context.Background(),
		server.URL+"/feeds/videos.xml?channel_id=UCabc123", "@FinTek", 1)
	if err != nil {
		t.Fatalf("ListLatest failed: %v", err)
	}

	if len(candidates) != 1 {
		t.Fatalf("Expected count to cap results at 1, got %d", len(candidates))
	}
	if candidates[0].ID != "vid1" {
		t.Errorf("Expected vid1 first, got %s", candidates[0].ID)
	}
	if candidates[0].ChannelName != "FinTek" {
		t.Errorf("Expected channel FinTek, got %s", candidates[0].ChannelName)
	}
	if candidates[0].PublishedAt.IsZero() {
		t.Error("Expected parsed publish date")
	}
}
