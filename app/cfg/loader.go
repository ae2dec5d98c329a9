package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./data/tubewatch.db" description:"Path to the SQLite database file"`

	// Application configuration
	ProfilesDir       string `long:"profiles-dir" env:"PROFILES_DIR" default:"./profiles" description:"Directory containing profile configuration files"`
	OutputDir         string `long:"output-dir" env:"OUTPUT_DIR" default:"./data" description:"Directory for digest file exports (summaries are written to a summaries/ subdirectory)"`
	WorkDir           string `long:"work-dir" env:"WORK_DIR" description:"Directory for temporary audio files (defaults to the system temp dir)"`
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"3600" description:"Scheduler interval in seconds"`
	CallTimeout       int    `long:"call-timeout" env:"CALL_TIMEOUT" default:"300" description:"Timeout in seconds for a single external service call"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for the ingestion trigger endpoint (optional)"`

	// External service credentials
	YoutubeAPIKey string `long:"youtube-api-key" env:"YOUTUBE_API_KEY" description:"YouTube Data API v3 key (falls back to RSS enumeration when empty)"`
	GeminiAPIKey  string `long:"gemini-api-key" env:"GEMINI_API_KEY" required:"true" description:"Google Gemini API key (required)"`
	GeminiModel   string `long:"gemini-model" env:"GEMINI_MODEL" default:"gemini-2.5-flash" description:"Gemini model used for summarization and transcription"`

	// Email delivery
	SMTPHost     string `long:"smtp-host" env:"SMTP_HOST" default:"smtp.gmail.com" description:"SMTP server host"`
	SMTPPort     string `long:"smtp-port" env:"SMTP_PORT" default:"465" description:"SMTP server port (SMTPS)"`
	SMTPUser     string `long:"smtp-user" env:"SMTP_USER" description:"SMTP user / sender address"`
	SMTPPassword string `long:"smtp-password" env:"SMTP_PASSWORD" description:"SMTP password or app password"`
	Recipient    string `long:"recipient" env:"RECIPIENT_EMAIL" description:"Default digest recipient (defaults to SMTP user)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"TubeWatch/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:            raw.DBPath,
		ProfilesDir:       raw.ProfilesDir,
		OutputDir:         raw.OutputDir,
		WorkDir:           raw.WorkDir,
		Port:              raw.Port,
		SchedulerInterval: raw.SchedulerInterval,
		CallTimeout:       raw.CallTimeout,
		APIAccessKey:      raw.APIAccessKey,
		YoutubeAPIKey:     raw.YoutubeAPIKey,
		GeminiAPIKey:      raw.GeminiAPIKey,
		GeminiModel:       raw.GeminiModel,
		SMTPHost:          raw.SMTPHost,
		SMTPPort:          raw.SMTPPort,
		SMTPUser:          raw.SMTPUser,
		SMTPPassword:      raw.SMTPPassword,
		Recipient:         cmp.Or(raw.Recipient, raw.SMTPUser),
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
