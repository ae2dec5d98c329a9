package profile

import "time"

// Profile is a named bundle of channels, a prompt template and behavior
// flags, loaded from a YAML file and processed independently of other
// profiles.
type Profile struct {
	Name      string    `yaml:"-"`
	Recipient string    `yaml:"recipient"`
	Channels  []Channel `yaml:"channels"`
	Settings  Settings  `yaml:"settings"`
	Prompt    string    `yaml:"prompt"`
}

// Channel references a content source. Immutable once loaded.
type Channel struct {
	URL    string `yaml:"url"`
	Handle string `yaml:"handle"`
}

type Settings struct {
	Enabled                bool  `yaml:"enabled"`
	VideosPerChannel       int   `yaml:"videos_per_channel"`
	LookbackHours          int   `yaml:"lookback_hours"`
	IncludeShorts          *bool `yaml:"include_shorts"`
	SkipNoTranscript       bool  `yaml:"skip_no_transcript"`
	UseDescriptionFallback bool  `yaml:"use_description_fallback"`
	SendEmptyDigest        bool  `yaml:"send_empty_digest"`
}

// ShortsIncluded reports whether short-form videos enter the pipeline.
// Defaults to true when the flag is absent from the YAML.
func (s Settings) ShortsIncluded() bool {
	if s.IncludeShorts == nil {
		return true
	}
	return *s.IncludeShorts
}

func (s Settings) Lookback() time.Duration {
	return time.Duration(s.LookbackHours) * time.Hour
}
