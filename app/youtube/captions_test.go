package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tubewatch/tubewatch/app/transcript"
)

const sampleTrackList = `<?xml version="1.0" encoding="utf-8"?>
<transcript_list>
  <track id="0" name="" lang_code="en" lang_original="English" kind="asr"/>
  <track id="1" name="" lang_code="en" lang_original="English"/>
  <track id="2" name="" lang_code="es" lang_original="Español"/>
</transcript_list>`

const sampleTranscript = `<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0.0" dur="2.5">Welcome back to the channel.</text>
  <text start="2.5" dur="3.0">Today we&#39;re covering Tesla.</text>
  <text start="5.5" dur="1.0"> </text>
</transcript>`

func newCaptionTestServer(t *testing.T, trackList string) (*CaptionClient, *httptest.Server, *[]string) {
	t.Helper()

	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.RawQuery)
		if r.URL.Query().Get("type") == "list" {
			w.Write([]byte(trackList))
			return
		}
		w.Write([]byte(sampleTranscript))
	}))
	t.Cleanup(server.Close)

	client := NewCaptionClient(server.Client(), "test-agent")
	client.baseURL = server.URL

	return client, server, &requests
}

func TestCaptionFetchManual(t *testing.T) {
	client, _, requests := newCaptionTestServer(t, sampleTrackList)

	text, err := client.Fetch(context.Background(), "vid1", transcript.TierManual)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	want := "Welcome back to the channel. Today we're covering Tesla."
	if text != want {
		t.Errorf("Expected %q, got %q", want, text)
	}

	if len(*requests) != 2 {
		t.Fatalf("Expected list + fetch requests, got %d", len(*requests))
	}
}

func TestCaptionFetchAutoRequiresASRTrack(t *testing.T) {
	// Track list with only a manual English track.
	manualOnly := `<transcript_list><track id="0" lang_code="en"/></transcript_list>`
	client, _, _ := newCaptionTestServer(t, manualOnly)

	_, err := client.Fetch(context.Background(), "vid1", transcript.TierAuto)
	if !errors.Is(err, transcript.ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable for missing asr track, got %v", err)
	}
}

func TestCaptionFetchTranslated(t *testing.T) {
	spanishOnly := `<transcript_list><track id="0" lang_code="es"/></transcript_list>`
	client, _, requests := newCaptionTestServer(t, spanishOnly)

	if _, err := client.Fetch(context.Background(), "vid1", transcript.TierManual); !errors.Is(err, transcript.ErrUnavailable) {
		t.Errorf("Expected manual tier to miss for Spanish-only track, got %v", err)
	}

	text, err := client.Fetch(context.Background(), "vid1", transcript.TierTranslated)
	if err != nil {
		t.Fatalf("Translated fetch failed: %v", err)
	}
	if text == "" {
		t.Error("Expected non-empty translated transcript")
	}

	last := (*requests)[len(*requests)-1]
	if want := "tlang=en"; !strings.Contains(last, want) {
		t.Errorf("Expected translation request to carry %q, got %q", want, last)
	}
}

func TestCaptionFetchNoTracks(t *testing.T) {
	client, _, _ := newCaptionTestServer(t, `<transcript_list></transcript_list>`)

	_, err := client.Fetch(context.Background(), "vid1", transcript.TierManual)
	if !errors.Is(err, transcript.ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable for captionless video, got %v", err)
	}
}
