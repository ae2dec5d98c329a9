package profile

import (
	"os"
	"path/filepath"
	"testing"
)

const validProfileYML = `
recipient: "research@example.com"

channels:
  - url: "https://www.youtube.com/@FinTek"
    handle: "@FinTek"
  - url: "https://www.youtube.com/@AkshatZayn"
    handle: "@AkshatZayn"

settings:
  enabled: true
  videos_per_channel: 5
  lookback_hours: 72
  include_shorts: false
  send_empty_digest: true

prompt: |
  Analyze this video for {channel}.
  Title: {title}
  Published: {published}
  Transcript:
  {transcript}
`

func writeProfile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".yml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadValidProfile(t *testing.T) {
	tempDir := t.TempDir()
	writeProfile(t, tempDir, "finance", validProfileYML)

	cache := NewCache(tempDir)
	if err := cache.Run(); err != nil {
		t.Fatal(err)
	}

	if cache.GetProfileCount() != 1 {
		t.Errorf("Expected 1 profile, got %d", cache.GetProfileCount())
	}

	p, err := cache.GetProfile("finance")
	if err != nil {
		t.Fatal(err)
	}

	if p.Name != "finance" {
		t.Errorf("Expected name 'finance', got '%s'", p.Name)
	}
	if p.Recipient != "research@example.com" {
		t.Errorf("Expected recipient 'research@example.com', got '%s'", p.Recipient)
	}
	if len(p.Channels) != 2 {
		t.Errorf("Expected 2 channels, got %d", len(p.Channels))
	}
	if p.Channels[0].Handle != "@FinTek" {
		t.Errorf("Expected handle '@FinTek', got '%s'", p.Channels[0].Handle)
	}
	if p.Settings.VideosPerChannel != 5 {
		t.Errorf("Expected 5 videos per channel, got %d", p.Settings.VideosPerChannel)
	}
	if p.Settings.ShortsIncluded() {
		t.Error("Expected shorts to be excluded")
	}
	if !p.Settings.SendEmptyDigest {
		t.Error("Expected send_empty_digest to be true")
	}
}

func TestLoadProfileDefaults(t *testing.T) {
	tempDir := t.TempDir()
	writeProfile(t, tempDir, "minimal", `
channels:
  - url: "https://www.youtube.com/@FinTek"
    handle: "@FinTek"
settings:
  enabled: true
prompt: "Summarize: {transcript}"
`)

	cache := NewCache(tempDir)
	if err := cache.Run(); err != nil {
		t.Fatal(err)
	}

	p, err := cache.GetProfile("minimal")
	if err != nil {
		t.Fatal(err)
	}

	if p.Settings.VideosPerChannel != 3 {
		t.Errorf("Expected default 3 videos per channel, got %d", p.Settings.VideosPerChannel)
	}
	if p.Settings.LookbackHours != 48 {
		t.Errorf("Expected default 48 lookback hours, got %d", p.Settings.LookbackHours)
	}
	if !p.Settings.ShortsIncluded() {
		t.Error("Expected shorts to be included by default")
	}
	if p.Settings.SendEmptyDigest {
		t.Error("Expected empty digests to be suppressed by default")
	}
}

func TestLoadProfileValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "no channels",
			content: `
settings:
  enabled: true
prompt: "Summarize: {transcript}"
`,
		},
		{
			name: "channel without handle",
			content: `
channels:
  - url: "https://www.youtube.com/@FinTek"
settings:
  enabled: true
prompt: "Summarize: {transcript}"
`,
		},
		{
			name: "missing prompt",
			content: `
channels:
  - url: "https://www.youtube.com/@FinTek"
    handle: "@FinTek"
settings:
  enabled: true
`,
		},
		{
			name: "prompt without transcript placeholder",
			content: `
channels:
  - url: "https://www.youtube.com/@FinTek"
    handle: "@FinTek"
settings:
  enabled: true
prompt: "Summarize the video titled {title}"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			writeProfile(t, tempDir, "bad", tt.content)

			cache := NewCache(tempDir)
			if err := cache.Run(); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}

func TestGetEnabledProfiles(t *testing.T) {
	tempDir := t.TempDir()
	writeProfile(t, tempDir, "active", validProfileYML)
	writeProfile(t, tempDir, "paused", `
channels:
  - url: "https://www.youtube.com/@FinTek"
    handle: "@FinTek"
settings:
  enabled: false
prompt: "Summarize: {transcript}"
`)

	cache := NewCache(tempDir)
	if err := cache.Run(); err != nil {
		t.Fatal(err)
	}

	enabled := cache.GetEnabledProfiles()
	if len(enabled) != 1 {
		t.Fatalf("Expected 1 enabled profile, got %d", len(enabled))
	}
	if _, ok := enabled["active"]; !ok {
		t.Error("Expected 'active' profile to be enabled")
	}
}
