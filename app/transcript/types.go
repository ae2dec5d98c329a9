package transcript

import "fmt"

// Source identifies how a transcript was obtained. It is a closed set:
// every consumer (store, API, digest) handles exactly these two values.
type Source string

const (
	SourceCaptions           Source = "captions"
	SourceAudioTranscription Source = "audio_transcription"
)

func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceCaptions, SourceAudioTranscription:
		return Source(s), nil
	default:
		return "", fmt.Errorf("unknown transcript source: %q", s)
	}
}

// Tier is one step of the caption waterfall, tried in declaration order.
type Tier string

const (
	TierManual     Tier = "manual"
	TierAuto       Tier = "auto"
	TierTranslated Tier = "translated"
)

// Tiers lists the caption tiers in waterfall order.
var Tiers = []Tier{TierManual, TierAuto, TierTranslated}
