package youtube

import (
	"testing"
	"time"
)

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"PT15M33S", 15*time.Minute + 33*time.Second},
		{"PT1H2M3S", time.Hour + 2*time.Minute + 3*time.Second},
		{"PT45S", 45 * time.Second},
		{"PT2H", 2 * time.Hour},
		{"PT0S", 0},
		{"", 0},
		{"garbage", 0},
	}

	for _, tt := range tests {
		if got := parseISODuration(tt.input); got != tt.want {
			t.Errorf("parseISODuration(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestIsShort(t *testing.T) {
	short := VideoCandidate{Duration: 45 * time.Second}
	if !short.IsShort() {
		t.Error("Expected 45s video to be a short")
	}

	long := VideoCandidate{Duration: 10 * time.Minute}
	if long.IsShort() {
		t.Error("Expected 10m video not to be a short")
	}

	unknown := VideoCandidate{}
	if unknown.IsShort() {
		t.Error("Expected unknown duration not to count as a short")
	}
}
