package transcript

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeCaptions struct {
	texts map[Tier]string
	calls []Tier
}

func (f *fakeCaptions) Fetch(_ context.Context, _ string, tier Tier) (string, error) {
	f.calls = append(f.calls, tier)
	if text, ok := f.texts[tier]; ok {
		return text, nil
	}
	return "", ErrUnavailable
}

func TestAcquireWaterfallOrder(t *testing.T) {
	tests := []struct {
		name      string
		texts     map[Tier]string
		wantText  string
		wantCalls []Tier
		wantErr   bool
	}{
		{
			name:      "manual captions win without trying lower tiers",
			texts:     map[Tier]string{TierManual: "manual text", TierAuto: "auto text"},
			wantText:  "manual text",
			wantCalls: []Tier{TierManual},
		},
		{
			name:      "auto captions after manual miss",
			texts:     map[Tier]string{TierAuto: "auto text"},
			wantText:  "auto text",
			wantCalls: []Tier{TierManual, TierAuto},
		},
		{
			name:      "translated captions as last caption tier",
			texts:     map[Tier]string{TierTranslated: "translated text"},
			wantText:  "translated text",
			wantCalls: []Tier{TierManual, TierAuto, TierTranslated},
		},
		{
			name:      "all tiers fail",
			texts:     map[Tier]string{},
			wantCalls: []Tier{TierManual, TierAuto, TierTranslated},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captions := &fakeCaptions{texts: tt.texts}
			acquirer := NewAcquirer(captions)

			text, source, err := acquirer.Acquire(context.Background(), "vid1")

			if tt.wantErr {
				if !errors.Is(err, ErrUnavailable) {
					t.Errorf("Expected ErrUnavailable, got %v", err)
				}
			} else {
				if err != nil {
					t.Fatalf("Acquire failed: %v", err)
				}
				if text != tt.wantText {
					t.Errorf("Expected text %q, got %q", tt.wantText, text)
				}
				if source != SourceCaptions {
					t.Errorf("Expected source %q, got %q", SourceCaptions, source)
				}
			}

			if diff := cmp.Diff(tt.wantCalls, captions.calls); diff != "" {
				t.Errorf("Tier call order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseSource(t *testing.T) {
	if _, err := ParseSource("captions"); err != nil {
		t.Errorf("Expected 'captions' to parse, got %v", err)
	}
	if _, err := ParseSource("audio_transcription"); err != nil {
		t.Errorf("Expected 'audio_transcription' to parse, got %v", err)
	}
	if _, err := ParseSource("description"); err == nil {
		t.Error("Expected unknown source to be rejected")
	}
}
